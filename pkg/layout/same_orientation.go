package layout

import (
	"math"

	"multiformat/pkg/design"
	"multiformat/pkg/geom"
)

// projectConstraints moves r from a source frame to a target frame of the
// same orientation class by applying the constraint pair axis by axis. It
// returns the projected box and the factor text should scale by.
func projectConstraints(r geom.Rect, c design.ConstraintPair, source, target design.CanvasSize) (geom.Rect, float64) {
	widthScale := target.Width / source.Width
	heightScale := target.Height / source.Height

	out := r
	if c.Horizontal == design.HorizontalScale {
		out.Width = r.Width * widthScale
	}
	if c.Vertical == design.VerticalScale {
		out.Height = r.Height * heightScale
	}

	switch c.Horizontal {
	case design.HorizontalRight:
		// distance from the right canvas edge to the element's left edge scales
		out.X = target.Width - (source.Width-r.X)*widthScale
	case design.HorizontalCenter:
		out.X = target.Width/2 + (r.X-source.Width/2)*widthScale
	case design.HorizontalScale:
		out.X = r.X / source.Width * target.Width
	default:
		out.X = r.X * widthScale
	}

	switch c.Vertical {
	case design.VerticalBottom:
		out.Y = target.Height - (source.Height-r.Y)*heightScale
	case design.VerticalCenter:
		out.Y = target.Height/2 + (r.Y-source.Height/2)*heightScale
	case design.VerticalScale:
		out.Y = r.Y / source.Height * target.Height
	default:
		out.Y = r.Y * heightScale
	}

	return out, math.Min(widthScale, heightScale)
}

// scaleTextSameOrientation applies the same-orientation font rule: scale by
// the smaller axis factor, never below floor. Unscaled text is left alone.
func scaleTextSameOrientation(fontSize, factor, floor float64) float64 {
	if fontSize <= 0 || factor == 1 {
		return fontSize
	}
	return math.Max(fontSize*factor, floor)
}
