package layout

import (
	"multiformat/pkg/geom"
)

// ToContainerLocal converts an absolute canvas box into coordinates local to
// container, clamping the position so the element stays inside it. The size
// is preserved.
func ToContainerLocal(abs, container geom.Rect) geom.Rect {
	return geom.Rect{
		X:      geom.Clamp(abs.X-container.X, 0, container.Width-abs.Width),
		Y:      geom.Clamp(abs.Y-container.Y, 0, container.Height-abs.Height),
		Width:  abs.Width,
		Height: abs.Height,
	}
}

// ToAbsolute converts a container-local box back to canvas coordinates. No
// clamping: a local box is inside its container by construction.
func ToAbsolute(local, container geom.Rect) geom.Rect {
	return local.Translate(container.X, container.Y)
}

// ConstrainToBounds keeps a free element from drifting more than overflow
// pixels outside a width x height canvas, preserving its size. An element too
// large to satisfy both sides is pinned to the leading edge.
func ConstrainToBounds(r geom.Rect, width, height, overflow float64) geom.Rect {
	r.X = geom.Clamp(r.X, -overflow, width+overflow-r.Width)
	r.Y = geom.Clamp(r.Y, -overflow, height+overflow-r.Height)
	return r
}
