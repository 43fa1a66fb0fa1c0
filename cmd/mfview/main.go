// Command mfview shows every active size of a design in its own tab.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"multiformat/pkg/config"
	"multiformat/pkg/document"
	"multiformat/pkg/images"
	"multiformat/pkg/observability"
	"multiformat/pkg/render"
)

// preview is one rendered canvas size.
type preview struct {
	name  string
	image image.Image
}

// loadPreviews decodes the design at path and renders each active size.
func loadPreviews(path string, cfg *config.Config, logger *zap.Logger) ([]preview, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, err
	}
	cache := images.NewCache(filepath.Dir(path))
	elements, err := images.WithNaturalAspect(doc.Elements, cache)
	if err != nil {
		logger.Warn("some images could not be measured", zap.Error(err))
	}

	opts := render.Options{Background: cfg.Render.Background, Images: cache, Logger: logger}
	var previews []preview
	for _, size := range doc.Active() {
		img, err := render.RenderSize(elements, size, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", size.Name, err)
		}
		previews = append(previews, preview{name: size.String(), image: img})
	}
	return previews, nil
}

func main() {
	cfgFile := flag.String("config", "", "config file (default ./multiformat.yaml)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mfview [flags] <design.json>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	observability.InitializeLogger(cfg.Logger)
	defer observability.Sync()
	logger := observability.GetLogger()

	a := app.New()
	w := a.NewWindow("multiformat: " + filepath.Base(path))
	w.Resize(fyne.NewSize(1024, 768))

	status := widget.NewLabel("Loading " + path + "...")
	tabs := container.NewAppTabs()

	reload := func() {
		status.SetText("Loading " + path + "...")
		go func() {
			previews, err := loadPreviews(path, cfg, logger)
			fyne.Do(func() {
				if err != nil {
					logger.Error("reload failed", zap.Error(err))
					status.SetText("Error: " + err.Error())
					return
				}
				selected := tabs.SelectedIndex()
				items := make([]*container.TabItem, 0, len(previews))
				for _, p := range previews {
					img := canvas.NewImageFromImage(p.image)
					img.FillMode = canvas.ImageFillContain
					items = append(items, container.NewTabItem(p.name, img))
				}
				tabs.SetItems(items)
				if selected >= 0 && selected < len(items) {
					tabs.SelectIndex(selected)
				}
				status.SetText(fmt.Sprintf("%s: %d sizes", path, len(previews)))
			})
		}()
	}

	reloadButton := widget.NewButton("Reload", reload)
	topBar := container.NewBorder(nil, nil, nil, reloadButton, status)
	w.SetContent(container.NewBorder(topBar, nil, nil, nil, tabs))

	reload()
	w.ShowAndRun()
}
