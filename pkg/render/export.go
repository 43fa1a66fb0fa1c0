package render

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"

	"github.com/fogleman/gg"
	"golang.org/x/sync/errgroup"

	"multiformat/pkg/config"
	"multiformat/pkg/design"
)

// RenderSheet paints every size side by side, each scaled to
// cfg.SheetHeight pixels tall and separated by cfg.SheetGap.
func RenderSheet(elements []design.Element, sizes design.Sizes, cfg config.RenderConfig, opts Options) (image.Image, error) {
	if len(sizes) == 0 {
		return nil, fmt.Errorf("render sheet: no sizes")
	}
	height := float64(cfg.SheetHeight)
	if height <= 0 {
		height = 600
	}
	gap := float64(max(cfg.SheetGap, 0))

	width := gap
	for _, size := range sizes {
		if !size.Valid() {
			return nil, fmt.Errorf("render sheet: invalid size %s", size)
		}
		width += size.Width*height/size.Height + gap
	}

	background := White
	if opts.Background != "" {
		var err error
		if background, err = ParseHexColor(opts.Background); err != nil {
			return nil, err
		}
	}
	sheet := gg.NewContext(int(math.Ceil(width)), int(math.Ceil(height+2*gap)))
	sheet.SetColor(background.NRGBA())
	sheet.Clear()

	x := gap
	for _, size := range sizes {
		img, err := RenderSize(elements, size, opts)
		if err != nil {
			return nil, err
		}
		scale := height / size.Height
		sheet.Push()
		sheet.Translate(x, gap)
		sheet.Scale(scale, scale)
		sheet.DrawImage(img, 0, 0)
		sheet.Pop()
		x += size.Width*scale + gap
	}
	return sheet.Image(), nil
}

// ExportAll writes one PNG per size into dir concurrently and returns the
// paths in size order.
func ExportAll(ctx context.Context, elements []design.Element, sizes design.Sizes, dir string, opts Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	paths := make([]string, len(sizes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, size := range sizes {
		paths[i] = filepath.Join(dir, FileName(size))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := NewRendererForSize(size, opts)
			if err != nil {
				return err
			}
			r.Render(elements, size)
			if err := r.SavePNG(paths[i]); err != nil {
				return fmt.Errorf("export %s: %w", size.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// FileName returns a file-system safe PNG name for size.
func FileName(size design.CanvasSize) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '-'
	}, size.Name)
	name = strings.Trim(name, "-")
	if name == "" {
		name = "size"
	}
	return fmt.Sprintf("%s-%dx%d.png", name, int(size.Width), int(size.Height))
}
