package layout

import (
	"fmt"
	"testing"

	"go.uber.org/zap/zaptest"

	"multiformat/pkg/design"
	"multiformat/pkg/geom"
)

var (
	post   = design.CanvasSize{Name: "post", Width: 1080, Height: 1080}
	story  = design.CanvasSize{Name: "story", Width: 1080, Height: 1920}
	banner = design.CanvasSize{Name: "banner", Width: 1920, Height: 1080}

	allSizes = design.Sizes{post, story, banner}
)

// sequentialIDs yields id-1, id-2, ... so tests can predict generated ids.
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewDefaultEngine(
		WithIDGenerator(sequentialIDs()),
		WithLogger(zaptest.NewLogger(t)),
	)
}

func rect(x, y, w, h float64) geom.Rect {
	return geom.Rect{X: x, Y: y, Width: w, Height: h}
}

func shape(id string, r geom.Rect) design.Element {
	return design.Element{ID: id, Type: design.TypeShape, Geometry: design.FromRect(r)}
}

func byID(t *testing.T, elements []design.Element, id string) design.Element {
	t.Helper()
	el, _, ok := find(elements, id)
	if !ok {
		t.Fatalf("element %s not found", id)
	}
	return el
}

func onSize(t *testing.T, elements []design.Element, linkedID, sizeID string) design.Element {
	t.Helper()
	for _, m := range group(elements, linkedID) {
		if m.loc.sizeID == sizeID {
			return m.el
		}
	}
	t.Fatalf("no instance of %s on %s", linkedID, sizeID)
	return design.Element{}
}
