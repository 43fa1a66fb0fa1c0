package main

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"multiformat/pkg/design"
	"multiformat/pkg/document"
	"multiformat/pkg/geom"
	"multiformat/pkg/layout"
	"multiformat/pkg/script"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// sizeReport is the analysis of one canvas size.
type sizeReport struct {
	Size     design.CanvasSize      `json:"size"`
	Elements []layout.AnalysisEntry `json:"elements"`
}

func (a *app) analyzeCmd() *cobra.Command {
	var sizeName string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Report the anchoring of every element, per active size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDesign()
			if err != nil {
				return err
			}
			sizes := doc.Active()
			if sizeName != "" {
				size, ok := doc.Size(sizeName)
				if !ok {
					return fmt.Errorf("%w: %q", layout.ErrUnknownSize, sizeName)
				}
				sizes = design.Sizes{size}
			}

			reports := make([]sizeReport, 0, len(sizes))
			for _, size := range sizes {
				entries, err := a.engine.AnalyzeLayout(doc.Elements, size)
				if err != nil {
					return err
				}
				reports = append(reports, sizeReport{Size: size, Elements: entries})
			}
			return printJSON(cmd.OutOrStdout(), reports)
		},
	}
	cmd.Flags().StringVar(&sizeName, "size", "", "only this size (default every active size)")
	return cmd
}

func (a *app) transformCmd() *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "transform <element-id>",
		Short: "Print where an element would land on another size, without changing the design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDesign()
			if err != nil {
				return err
			}
			el, ok := layout.Find(doc.Elements, args[0])
			if !ok {
				return fmt.Errorf("%w: %s", layout.ErrElementNotFound, args[0])
			}
			source, ok := doc.Size(el.SizeID)
			if !ok || el.InContainer {
				return fmt.Errorf("%w: element %s is not placed on a canvas", layout.ErrUnknownSize, el.ID)
			}
			to, ok := doc.Size(target)
			if !ok {
				return fmt.Errorf("%w: %q", layout.ErrUnknownSize, target)
			}

			p, err := a.engine.Transform(el, source, to)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"element":  el.ID,
				"from":     source.Name,
				"to":       to.Name,
				"path":     p.Path.String(),
				"geometry": p.Geometry,
				"fontSize": p.FontSize,
			})
		},
	}
	cmd.Flags().StringVar(&target, "to", "", "target size")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// editMode returns the --mode override or the document's mode.
func editMode(cmd *cobra.Command, doc *document.Document) (design.EditMode, error) {
	if !cmd.Flags().Changed("mode") {
		return doc.Mode, nil
	}
	s, _ := cmd.Flags().GetString("mode")
	return design.ParseEditMode(s)
}

func (a *app) createCmd() *cobra.Command {
	var layer, sizeName string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add an element, linked across every active size in global mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(doc *document.Document) ([]design.Element, error) {
				el, err := document.DecodeElement([]byte(layer))
				if err != nil {
					return nil, err
				}
				if sizeName == "" {
					sizeName = el.SizeID
				}
				size, ok := doc.Size(sizeName)
				if !ok {
					return nil, fmt.Errorf("%w: %q", layout.ErrUnknownSize, sizeName)
				}
				mode, err := editMode(cmd, doc)
				if err != nil {
					return nil, err
				}
				return a.engine.Create(doc.Elements, el, size, doc.Active(), mode)
			})
		},
	}
	cmd.Flags().StringVar(&layer, "layer", "", "layer JSON, e.g. {\"kind\":\"text\",\"text\":\"Hi\",\"geometry\":{...}}")
	cmd.Flags().StringVar(&sizeName, "size", "", "size the geometry is expressed on (default the layer's sizeId)")
	cmd.Flags().String("mode", "", "global or individual (default the design's mode)")
	_ = cmd.MarkFlagRequired("layer")
	return cmd
}

func (a *app) linkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <element-id>",
		Short: "Create linked instances of an element on every other active size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(doc *document.Document) ([]design.Element, error) {
				return a.engine.LinkExisting(doc.Elements, args[0], doc.Active())
			})
		},
	}
}

func (a *app) unlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <element-id>",
		Short: "Stop propagating edits to and from one instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(doc *document.Document) ([]design.Element, error) {
				return a.engine.Unlink(doc.Elements, args[0])
			})
		},
	}
}

func (a *app) relinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relink <element-id>",
		Short: "Rejoin an unlinked instance to its group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(doc *document.Document) ([]design.Element, error) {
				return a.engine.Relink(doc.Elements, args[0], doc.Active())
			})
		},
	}
}

func (a *app) reanalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reanalyze <element-id>",
		Short: "Re-infer a group's constraints from where this instance sits now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(doc *document.Document) ([]design.Element, error) {
				return a.engine.Reanalyze(doc.Elements, args[0], doc.Active())
			})
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	var x, y, width, height float64
	cmd := &cobra.Command{
		Use:   "edit <element-id>",
		Short: "Move or resize an element in canvas coordinates and propagate the edit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(doc *document.Document) ([]design.Element, error) {
				req := layout.EditRequest{
					ElementID: args[0],
					Geometry:  geom.Rect{X: x, Y: y, Width: width, Height: height},
				}
				return a.engine.ApplyEdit(doc.Elements, req, doc.Active())
			})
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0, "left edge")
	cmd.Flags().Float64Var(&y, "y", 0, "top edge")
	cmd.Flags().Float64Var(&width, "width", 0, "width")
	cmd.Flags().Float64Var(&height, "height", 0, "height")
	for _, name := range []string{"x", "y", "width", "height"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (a *app) removeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <element-id>",
		Short: "Delete an element, and in global mode its whole linked group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(doc *document.Document) ([]design.Element, error) {
				mode, err := editMode(cmd, doc)
				if err != nil {
					return nil, err
				}
				return a.engine.Remove(doc.Elements, args[0], mode)
			})
		},
	}
	cmd.Flags().String("mode", "", "global or individual (default the design's mode)")
	return cmd
}

func (a *app) scriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "script <file.js>",
		Short: "Run a layout script against the design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := a.loadDesign()
			if err != nil {
				return err
			}
			out, err := script.New(a.engine, a.logger).Run(doc, string(src))
			if err != nil {
				return err
			}
			a.logger.Debug("script finished", zap.String("script", args[0]))
			return a.writeDesign(cmd.OutOrStdout(), out)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), Version)
			return err
		},
	}
}
