package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"multiformat/pkg/render"
	"multiformat/pkg/visualtest"
)

func (a *app) renderOptions() render.Options {
	return render.Options{
		Background: a.cfg.Render.Background,
		Images:     a.images,
		Logger:     a.logger,
	}
}

func (a *app) previewCmd() *cobra.Command {
	var (
		sheet bool
		only  []string
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render one PNG per active size, or a contact sheet of all of them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDesign()
			if err != nil {
				return err
			}
			sizes := doc.Active()
			if len(only) > 0 {
				sizes = nil
				for _, name := range only {
					size, ok := doc.Size(name)
					if !ok {
						return fmt.Errorf("unknown size %q", name)
					}
					sizes = append(sizes, size)
				}
			}

			dir := a.cfg.Render.OutputDir
			if sheet {
				path := a.outPath
				if path == "" {
					path = filepath.Join(dir, "sheet.png")
				}
				img, err := render.RenderSheet(doc.Elements, sizes, a.cfg.Render, a.renderOptions())
				if err != nil {
					return err
				}
				if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
					return err
				}
				if err := visualtest.SavePNG(img, path); err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
				return err
			}

			if a.outPath != "" {
				dir = a.outPath
			}
			paths, err := render.ExportAll(cmd.Context(), doc.Elements, sizes, dir, a.renderOptions())
			if err != nil {
				return err
			}
			a.logger.Info("previews written", zap.Int("count", len(paths)), zap.String("dir", dir))
			for _, p := range paths {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&sheet, "sheet", false, "render a single contact sheet instead of one file per size")
	cmd.Flags().StringSliceVar(&only, "size", nil, "sizes to render (default every active size)")
	return cmd
}
