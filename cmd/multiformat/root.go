package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"multiformat/pkg/config"
	"multiformat/pkg/design"
	"multiformat/pkg/document"
	"multiformat/pkg/images"
	"multiformat/pkg/layout"
	"multiformat/pkg/observability"
)

// app holds the flags and services shared by every subcommand.
type app struct {
	cfgFile    string
	designPath string
	outPath    string

	cfg    *config.Config
	logger *zap.Logger
	engine *layout.Engine
	images *images.Cache
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "multiformat",
		Short:         "Responsive positioning across canvas sizes of one design.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./multiformat.yaml)")
	flags.StringVarP(&a.designPath, "design", "d", "design.json", "design document")
	flags.StringVarP(&a.outPath, "out", "o", "", "output path (default stdout, or the render output dir for previews)")

	root.AddCommand(
		a.analyzeCmd(),
		a.transformCmd(),
		a.createCmd(),
		a.linkCmd(),
		a.unlinkCmd(),
		a.relinkCmd(),
		a.reanalyzeCmd(),
		a.editCmd(),
		a.removeCmd(),
		a.previewCmd(),
		a.scriptCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		observability.InitializeLogger(config.NewDefaultConfig().Logger)
		return err
	}
	a.cfg = cfg

	observability.InitializeLogger(cfg.Logger)
	a.logger = observability.GetLogger()
	a.engine = layout.NewEngine(cfg.Engine, layout.WithLogger(a.logger))
	a.images = images.NewCache(filepath.Dir(a.designPath))
	a.logger.Debug("configuration loaded", zap.String("design", a.designPath))
	return nil
}

// loadDesign reads the design and fills in the natural aspect ratio of image
// layers that do not declare one. Images that cannot be read are logged and
// left as they are.
func (a *app) loadDesign() (*document.Document, error) {
	doc, err := document.Load(a.designPath)
	if err != nil {
		return nil, fmt.Errorf("loading design: %w", err)
	}
	elements, err := images.WithNaturalAspect(doc.Elements, a.images)
	if err != nil {
		a.logger.Warn("some images could not be measured", zap.Error(err))
	}
	doc.Elements = elements
	return doc, nil
}

// writeDesign saves doc to --out, or prints it when no output is set.
func (a *app) writeDesign(w io.Writer, doc *document.Document) error {
	if a.outPath == "" {
		return document.Encode(w, doc)
	}
	if err := document.Save(a.outPath, doc); err != nil {
		return err
	}
	a.logger.Info("design written", zap.String("path", a.outPath), zap.Int("elements", len(doc.Elements)))
	return nil
}

type mutation func(doc *document.Document) ([]design.Element, error)

// mutate loads the design, replaces its elements with the result of fn and
// writes it out.
func (a *app) mutate(cmd *cobra.Command, fn mutation) error {
	doc, err := a.loadDesign()
	if err != nil {
		return err
	}
	elements, err := fn(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	doc.Elements = elements
	return a.writeDesign(cmd.OutOrStdout(), doc)
}
