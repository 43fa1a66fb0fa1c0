package design

import (
	"fmt"
	"math"

	"multiformat/pkg/geom"
)

// Orientation is the aspect class of a canvas size. It is derived from the
// dimensions and never stored.
type Orientation int

const (
	OrientationSquare Orientation = iota
	OrientationVertical
	OrientationHorizontal
)

func (o Orientation) String() string {
	switch o {
	case OrientationVertical:
		return "vertical"
	case OrientationHorizontal:
		return "horizontal"
	default:
		return "square"
	}
}

// CanvasSize is one output format of a design, e.g. "Instagram Story 1080x1920".
type CanvasSize struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Orientation classifies the size: taller than wide is vertical, wider than
// tall is horizontal, anything else is square.
func (s CanvasSize) Orientation() Orientation {
	switch {
	case s.Height > s.Width:
		return OrientationVertical
	case s.Width > s.Height:
		return OrientationHorizontal
	default:
		return OrientationSquare
	}
}

// Valid reports whether both dimensions are finite and strictly positive.
func (s CanvasSize) Valid() bool {
	return s.Width > 0 && s.Height > 0 &&
		!math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

// Bounds returns the canvas as a rectangle at the origin.
func (s CanvasSize) Bounds() geom.Rect {
	return geom.Rect{Width: s.Width, Height: s.Height}
}

func (s CanvasSize) String() string {
	return fmt.Sprintf("%s (%gx%g)", s.Name, s.Width, s.Height)
}

// OrientationChanged reports whether moving from a to b crosses between the
// vertical and horizontal classes. Square sizes never count as a change, so
// square<->anything uses constraint projection.
func OrientationChanged(a, b CanvasSize) bool {
	ao, bo := a.Orientation(), b.Orientation()
	return (ao == OrientationVertical && bo == OrientationHorizontal) ||
		(ao == OrientationHorizontal && bo == OrientationVertical)
}

// Sizes is the set of active canvas sizes of an editing session.
type Sizes []CanvasSize

// Lookup finds a size by name.
func (s Sizes) Lookup(name string) (CanvasSize, bool) {
	for _, size := range s {
		if size.Name == name {
			return size, true
		}
	}
	return CanvasSize{}, false
}

// Names returns the size names in order.
func (s Sizes) Names() []string {
	names := make([]string, len(s))
	for i, size := range s {
		names[i] = size.Name
	}
	return names
}
