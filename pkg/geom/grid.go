package geom

import "math"

// DefaultGridUnit is the snapping unit used when none is configured.
const DefaultGridUnit = 1.0

// Grid snaps pixel values to multiples of Unit.
type Grid struct {
	Unit float64
}

// NewGrid returns a grid with the given unit. Non-positive units fall back
// to DefaultGridUnit.
func NewGrid(unit float64) Grid {
	if unit <= 0 || math.IsNaN(unit) || math.IsInf(unit, 0) {
		unit = DefaultGridUnit
	}
	return Grid{Unit: unit}
}

// Snap rounds value to the nearest grid unit.
func (g Grid) Snap(value float64) float64 {
	unit := g.Unit
	if unit <= 0 {
		unit = DefaultGridUnit
	}
	return math.Round(value/unit) * unit
}

// SnapRect snaps every field of r.
func (g Grid) SnapRect(r Rect) Rect {
	return Rect{
		X:      g.Snap(r.X),
		Y:      g.Snap(r.Y),
		Width:  g.Snap(r.Width),
		Height: g.Snap(r.Height),
	}
}

// Tolerance is the largest difference two snapped values may show while still
// describing the same position.
func (g Grid) Tolerance() float64 {
	if g.Unit <= 0 {
		return DefaultGridUnit / 2
	}
	return g.Unit / 2
}
