package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"multiformat/pkg/config"
	"multiformat/pkg/design"
	"multiformat/pkg/geom"
	"multiformat/pkg/images"
	"multiformat/pkg/layout"
	"multiformat/pkg/visualtest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	square = design.CanvasSize{Name: "square", Width: 200, Height: 200}
	tall   = design.CanvasSize{Name: "tall", Width: 100, Height: 200}
)

func element(id string, typ design.ElementType, size string, x, y, w, h float64, fill string) design.Element {
	return design.Element{
		ID:       id,
		Type:     typ,
		SizeID:   size,
		Geometry: design.FromRect(geom.Rect{X: x, Y: y, Width: w, Height: h}),
		Style:    design.Style{Fill: fill},
	}
}

func pixel(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func assertColor(t *testing.T, want color.NRGBA, img image.Image, x, y int) {
	t.Helper()
	got := pixel(img, x, y)
	for i, pair := range [][2]uint8{{want.R, got.R}, {want.G, got.G}, {want.B, got.B}} {
		assert.InDelta(t, pair[0], pair[1], 2, "channel %d at (%d,%d): got %v", i, x, y, got)
	}
}

func scene() []design.Element {
	card := element("card", design.TypeContainer, "square", 100, 100, 80, 80, "#0000ff")
	card.Children = []design.Element{element("dot", design.TypeShape, "square", 10, 10, 20, 20, "#ff0")}
	return []design.Element{
		element("box", design.TypeShape, "square", 50, 50, 40, 40, "#00ff00"),
		element("bg", design.TypeBackground, "square", 0, 0, 200, 200, "#ff0000"),
		card,
		element("elsewhere", design.TypeShape, "tall", 0, 0, 100, 200, "#000000"),
	}
}

func TestRender(t *testing.T) {
	img, err := RenderSize(scene(), square, Options{Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 200, 200), img.Bounds())

	tests := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{"background painted first", 5, 5, color.NRGBA{R: 255, A: 255}},
		{"shape over background", 70, 70, color.NRGBA{G: 255, A: 255}},
		{"container fill", 170, 170, color.NRGBA{B: 255, A: 255}},
		{"child offset by container", 120, 120, color.NRGBA{R: 255, G: 255, A: 255}},
		{"child not drawn at local position", 20, 20, color.NRGBA{R: 255, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertColor(t, tt.want, img, tt.x, tt.y)
		})
	}
}

func TestRender_OtherSizeOnly(t *testing.T) {
	img, err := RenderSize(scene(), tall, Options{Background: "#ffffff"})
	require.NoError(t, err)
	assertColor(t, color.NRGBA{A: 255}, img, 50, 100)
}

func TestRender_ImagePlaceholder(t *testing.T) {
	logo := element("logo", design.TypeLogo, "square", 10, 120, 60, 30, "")
	logo.Src = "missing.png"

	img, err := RenderSize([]design.Element{logo}, square, Options{Images: images.NewCache(t.TempDir())})
	require.NoError(t, err)

	assertColor(t, color.NRGBA{R: 229, G: 229, B: 229, A: 255}, img, 40, 125)
	assertColor(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img, 100, 10)
}

func TestRender_DataURIImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := range 2 {
		for x := range 2 {
			src.Set(x, y, color.NRGBA{R: 255, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	photo := element("photo", design.TypeImage, "square", 20, 20, 100, 50, "")
	photo.Src = "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	img, err := RenderSize([]design.Element{photo}, square, Options{Images: images.NewCache("")})
	require.NoError(t, err)
	assertColor(t, color.NRGBA{R: 255, B: 255, A: 255}, img, 70, 45)
	assertColor(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img, 150, 150)
}

func TestRender_TextAndButton(t *testing.T) {
	title := element("title", design.TypeText, "square", 10, 10, 180, 40, "")
	title.Content = "Summer sale"
	title.Style.FontSize = 24
	cta := element("cta", design.TypeButton, "square", 40, 140, 120, 40, "#222222")
	cta.Content = "Shop"
	cta.Style.Color = "#ffffff"

	img, err := RenderSize([]design.Element{title, cta}, square, Options{})
	require.NoError(t, err)

	blank, err := RenderSize(nil, square, Options{})
	require.NoError(t, err)
	res, err := visualtest.Compare(img, blank, visualtest.DefaultOptions())
	require.NoError(t, err)
	assert.False(t, res.Match)
	assertColor(t, color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 255}, img, 45, 160)
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#fff", want: White},
		{in: "#102030", want: Color{R: 0x10, G: 0x20, B: 0x30, A: 1}},
		{in: "  #ff000080 ", want: Color{R: 255, A: float64(0x80) / 255}},
		{in: "000000", want: Black},
		{in: "#ff", wantErr: true},
		{in: "#gggggg", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRenderer_BadBackground(t *testing.T) {
	_, err := NewRenderer(10, 10, Options{Background: "red"})
	assert.Error(t, err)
}

func TestRenderSheet(t *testing.T) {
	cfg := config.RenderConfig{SheetHeight: 100, SheetGap: 10}
	img, err := RenderSheet(scene(), design.Sizes{square, tall}, cfg, Options{})
	require.NoError(t, err)

	// 10 + 100 + 10 + 50 + 10 wide, 100 plus two gaps tall.
	assert.Equal(t, image.Rect(0, 0, 180, 120), img.Bounds())
	assertColor(t, color.NRGBA{R: 255, A: 255}, img, 12, 12)
	assertColor(t, color.NRGBA{A: 255}, img, 140, 60)
	assertColor(t, White.NRGBA(), img, 115, 60)

	_, err = RenderSheet(nil, nil, cfg, Options{})
	assert.Error(t, err)
	_, err = RenderSheet(nil, design.Sizes{{Name: "bad"}}, cfg, Options{})
	assert.Error(t, err)
}

func TestExportAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := ExportAll(context.Background(), scene(), design.Sizes{square, tall}, dir, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "square-200x200.png"),
		filepath.Join(dir, "tall-100x200.png"),
	}, paths)

	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
	img, err := visualtest.LoadPNG(paths[1])
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 200), img.Bounds())
}

func TestExportAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ExportAll(ctx, scene(), design.Sizes{square, tall}, t.TempDir(), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "instagram-story-1080x1920.png",
		FileName(design.CanvasSize{Name: "Instagram Story", Width: 1080, Height: 1920}))
	assert.Equal(t, "size-10x10.png", FileName(design.CanvasSize{Name: "//", Width: 10, Height: 10}))
}

// A propagated edit moves the linked instance on every size, so previews
// before and after differ.
func TestRender_AfterPropagation(t *testing.T) {
	sizes := design.Sizes{square, tall}
	engine := layout.NewDefaultEngine()
	box := element("box", design.TypeShape, "square", 20, 20, 40, 40, "#00ff00")
	group, err := engine.CreateLinkedGroup(box, square, sizes)
	require.NoError(t, err)

	before, err := RenderSize(group, tall, Options{})
	require.NoError(t, err)

	edited := group[0]
	edited.Geometry = design.FromRect(geom.Rect{X: 140, Y: 140, Width: 40, Height: 40}).WithPercent(200, 200)
	after, err := engine.Propagate(group, edited, sizes)
	require.NoError(t, err)

	again, err := RenderSize(after, tall, Options{})
	require.NoError(t, err)
	res, err := visualtest.Compare(again, before, visualtest.DefaultOptions())
	require.NoError(t, err)
	assert.False(t, res.Match)
}
