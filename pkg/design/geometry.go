package design

import (
	"multiformat/pkg/geom"
)

// Percent is the geometry of an element expressed as 0-100 percentages of the
// frame it lives in: its canvas for top-level elements, its container for
// children.
type Percent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Geometry holds the pixel box of an element and, optionally, the same box in
// percent of its frame. Pixels are authoritative during an edit; percents are
// authoritative when geometry is re-derived for another size.
type Geometry struct {
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Percent *Percent `json:"percent,omitempty"`
}

// FromRect builds a pixel-only geometry.
func FromRect(r geom.Rect) Geometry {
	return Geometry{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Rect returns the pixel box.
func (g Geometry) Rect() geom.Rect {
	return geom.Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}

// WithRect replaces the pixel box and drops the now stale percent box.
func (g Geometry) WithRect(r geom.Rect) Geometry {
	return FromRect(r)
}

// WithPercent returns g with its percent box recomputed against a frame of
// frameWidth x frameHeight.
func (g Geometry) WithPercent(frameWidth, frameHeight float64) Geometry {
	g.Percent = &Percent{
		X:      geom.ToPercent(g.X, frameWidth),
		Y:      geom.ToPercent(g.Y, frameHeight),
		Width:  geom.ToPercent(g.Width, frameWidth),
		Height: geom.ToPercent(g.Height, frameHeight),
	}
	return g
}

// Resolve fills in the pixel box from the percent box when the pixel box is
// empty, as happens for elements handed over with relative geometry only.
func (g Geometry) Resolve(frameWidth, frameHeight float64) Geometry {
	if g.Percent == nil || g.Width != 0 || g.Height != 0 {
		return g
	}
	p := g.Percent
	g.X = geom.FromPercent(p.X, frameWidth)
	g.Y = geom.FromPercent(p.Y, frameHeight)
	g.Width = geom.FromPercent(p.Width, frameWidth)
	g.Height = geom.FromPercent(p.Height, frameHeight)
	return g
}

// Consistent reports whether the percent box reconstructs the pixel box
// against the given frame within tol pixels. A geometry without percents is
// trivially consistent.
func (g Geometry) Consistent(frameWidth, frameHeight, tol float64) bool {
	if g.Percent == nil {
		return true
	}
	p := g.Percent
	rebuilt := geom.Rect{
		X:      geom.FromPercent(p.X, frameWidth),
		Y:      geom.FromPercent(p.Y, frameHeight),
		Width:  geom.FromPercent(p.Width, frameWidth),
		Height: geom.FromPercent(p.Height, frameHeight),
	}
	return rebuilt.ApproxEqual(g.Rect(), tol)
}

// Finite reports whether every pixel field is a real number.
func (g Geometry) Finite() bool {
	return g.Rect().IsFinite()
}

// AspectRatio returns width/height, or 0 when the height is zero.
func (g Geometry) AspectRatio() float64 {
	if g.Height == 0 {
		return 0
	}
	return g.Width / g.Height
}
