// Package render paints previews of a multi-format design with gg: one image
// per canvas size, contact sheets of every active size, and concurrent PNG
// export.
package render

import (
	"image"
	"math"
	"sort"

	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"multiformat/pkg/design"
	"multiformat/pkg/geom"
	"multiformat/pkg/images"
	"multiformat/pkg/text"
)

const defaultFontSize = 16

// Options configures a Renderer. The zero value paints on white with the
// bundled fonts and image placeholders only.
type Options struct {
	// Background is the hex colour behind elements.
	Background string
	Fonts      text.FontConfig
	// Images loads image and logo sources; nil draws placeholders.
	Images *images.Cache
	Logger *zap.Logger
}

// Renderer paints the elements of one canvas size.
type Renderer struct {
	context    *gg.Context
	fonts      *text.Fonts
	images     *images.Cache
	logger     *zap.Logger
	background Color
}

// NewRenderer creates a renderer with a width x height pixel canvas.
func NewRenderer(width, height int, opts Options) (*Renderer, error) {
	fonts, err := text.NewFonts(opts.Fonts)
	if err != nil {
		return nil, err
	}
	background := White
	if opts.Background != "" {
		if background, err = ParseHexColor(opts.Background); err != nil {
			return nil, err
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		context:    gg.NewContext(width, height),
		fonts:      fonts,
		images:     opts.Images,
		logger:     logger.Named("render"),
		background: background,
	}, nil
}

// NewRendererForSize creates a renderer matching a canvas size.
func NewRendererForSize(size design.CanvasSize, opts Options) (*Renderer, error) {
	return NewRenderer(pixels(size.Width), pixels(size.Height), opts)
}

func pixels(v float64) int {
	return max(1, int(math.Round(v)))
}

// Render clears the canvas and paints every top-level element on size,
// backgrounds first and the rest in collection order.
func (r *Renderer) Render(elements []design.Element, size design.CanvasSize) {
	r.context.SetColor(r.background.NRGBA())
	r.context.Clear()

	var onSize []design.Element
	for _, el := range elements {
		if el.SizeID == size.Name {
			onSize = append(onSize, el)
		}
	}
	sortByPaintLevel(onSize)

	for _, el := range onSize {
		r.drawElement(el, geom.Rect{})
	}
}

// paintLevel orders elements within one canvas: backgrounds underneath.
func paintLevel(el design.Element) int {
	if el.Type.IsBackground() {
		return 0
	}
	return 1
}

func sortByPaintLevel(elements []design.Element) {
	sort.SliceStable(elements, func(i, j int) bool {
		return paintLevel(elements[i]) < paintLevel(elements[j])
	})
}

// drawElement paints el whose geometry is relative to parent.
func (r *Renderer) drawElement(el design.Element, parent geom.Rect) {
	box := el.Geometry.Rect().Translate(parent.X, parent.Y)
	if box.Width <= 0 || box.Height <= 0 {
		return
	}

	switch el.Type {
	case design.TypeBackground:
		r.fillRect(box, el.Style.Fill, White)
		if el.Src != "" {
			r.drawImage(box, el.Src, false)
		}
	case design.TypeImage, design.TypeLogo:
		r.drawImage(box, el.Src, true)
	case design.TypeText:
		r.drawText(box, el.Content, el.Style, false)
	case design.TypeButton:
		fill := r.colorOr(el.Style.Fill, Color{R: 0x26, G: 0x8b, B: 0xd2, A: 1})
		r.context.SetColor(fill.NRGBA())
		r.context.DrawRoundedRectangle(box.X, box.Y, box.Width, box.Height, math.Min(box.Height/4, 12))
		r.context.Fill()
		r.drawText(box, el.Content, el.Style, true)
	case design.TypeContainer, design.TypeLayout:
		if el.Style.Fill != "" {
			r.fillRect(box, el.Style.Fill, White)
		}
		r.context.SetRGBA(0, 0, 0, 0.25)
		r.context.SetLineWidth(1)
		r.context.DrawRectangle(box.X+0.5, box.Y+0.5, box.Width-1, box.Height-1)
		r.context.Stroke()
		for _, child := range el.Children {
			r.drawElement(child, box)
		}
	default:
		r.fillRect(box, el.Style.Fill, Color{R: 0xcc, G: 0xcc, B: 0xcc, A: 1})
	}
}

func (r *Renderer) colorOr(hex string, fallback Color) Color {
	if hex == "" {
		return fallback
	}
	c, err := ParseHexColor(hex)
	if err != nil {
		r.logger.Debug("bad colour, using fallback", zap.String("colour", hex), zap.Error(err))
		return fallback
	}
	return c
}

func (r *Renderer) fillRect(box geom.Rect, hex string, fallback Color) {
	r.context.SetColor(r.colorOr(hex, fallback).NRGBA())
	r.context.DrawRectangle(box.X, box.Y, box.Width, box.Height)
	r.context.Fill()
}

// drawText wraps content into box at the element's font size. Centered text
// is used for button labels.
func (r *Renderer) drawText(box geom.Rect, content string, style design.Style, centered bool) {
	if content == "" {
		return
	}
	size := style.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	r.context.SetColor(r.colorOr(style.Color, Black).NRGBA())
	r.context.SetFontFace(r.fonts.Face(size, centered))

	lines := r.fonts.BreakLines(content, size, centered, box.Width)
	lineHeight := size * 1.2
	y := box.Y + size
	if centered {
		y = box.Y + (box.Height-lineHeight*float64(len(lines)))/2 + size
	}
	for _, line := range lines {
		if y > box.Bottom()+size {
			break
		}
		x := box.X
		if centered {
			w, _ := r.context.MeasureString(line)
			x = box.X + (box.Width-w)/2
		}
		r.context.DrawString(line, x, y)
		y += lineHeight
	}
}

// drawImage scales the image at src into box. Sources that cannot be loaded
// are drawn as a crossed placeholder when placeholder is set.
func (r *Renderer) drawImage(box geom.Rect, src string, placeholder bool) {
	var (
		img image.Image
		err error
	)
	if r.images != nil && src != "" {
		img, err = r.images.Load(src)
	}
	if img == nil {
		if err != nil {
			r.logger.Debug("image not loaded", zap.String("src", src), zap.Error(err))
		}
		if placeholder {
			r.drawPlaceholder(box)
		}
		return
	}

	bounds := img.Bounds()
	r.context.Push()
	r.context.Translate(box.X, box.Y)
	r.context.Scale(box.Width/float64(bounds.Dx()), box.Height/float64(bounds.Dy()))
	r.context.DrawImage(img, -bounds.Min.X, -bounds.Min.Y)
	r.context.Pop()
}

func (r *Renderer) drawPlaceholder(box geom.Rect) {
	r.context.SetRGB(0.9, 0.9, 0.9)
	r.context.DrawRectangle(box.X, box.Y, box.Width, box.Height)
	r.context.Fill()

	r.context.SetRGB(0.5, 0.5, 0.5)
	r.context.SetLineWidth(2)
	r.context.DrawLine(box.X, box.Y, box.Right(), box.Bottom())
	r.context.DrawLine(box.Right(), box.Y, box.X, box.Bottom())
	r.context.Stroke()
}

// Image returns the painted canvas.
func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

// SavePNG writes the painted canvas to filename.
func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

// RenderSize paints the elements of one canvas size.
func RenderSize(elements []design.Element, size design.CanvasSize, opts Options) (image.Image, error) {
	r, err := NewRendererForSize(size, opts)
	if err != nil {
		return nil, err
	}
	r.Render(elements, size)
	return r.Image(), nil
}
