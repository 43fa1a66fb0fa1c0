package layout

import (
	"fmt"
	"math"

	"multiformat/pkg/config"
	"multiformat/pkg/design"
	"multiformat/pkg/geom"
)

// Quadrant is the quarter of a frame an element's center falls in.
type Quadrant int

const (
	QuadrantTopLeft Quadrant = iota
	QuadrantTopRight
	QuadrantBottomLeft
	QuadrantBottomRight
)

func (q Quadrant) String() string {
	switch q {
	case QuadrantTopRight:
		return "top-right"
	case QuadrantBottomLeft:
		return "bottom-left"
	case QuadrantBottomRight:
		return "bottom-right"
	default:
		return "top-left"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (q Quadrant) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quadrant) UnmarshalText(b []byte) error {
	for _, cand := range []Quadrant{QuadrantTopLeft, QuadrantTopRight, QuadrantBottomLeft, QuadrantBottomRight} {
		if cand.String() == string(b) {
			*q = cand
			return nil
		}
	}
	return fmt.Errorf("unknown quadrant %q", b)
}

// Left reports whether the quadrant is on the left half.
func (q Quadrant) Left() bool { return q == QuadrantTopLeft || q == QuadrantBottomLeft }

// Top reports whether the quadrant is on the top half.
func (q Quadrant) Top() bool { return q == QuadrantTopLeft || q == QuadrantTopRight }

// QuadrantOf classifies the center of r against a frame.
func QuadrantOf(r geom.Rect, frameWidth, frameHeight float64) Quadrant {
	cx, cy := r.Center()
	left := geom.ToPercent(cx, frameWidth) < 50
	top := geom.ToPercent(cy, frameHeight) < 50
	switch {
	case top && left:
		return QuadrantTopLeft
	case top:
		return QuadrantTopRight
	case left:
		return QuadrantBottomLeft
	default:
		return QuadrantBottomRight
	}
}

// regionFor returns the target region a source quadrant maps to when the
// orientation flips. Reading order is kept: content from the top half of a
// portrait canvas lands on the left of a landscape one and content from the
// left half of a landscape canvas lands on the top of a portrait one. The two
// directions reduce to the same transposition of halves.
func regionFor(q Quadrant, target design.CanvasSize) geom.Rect {
	region := geom.Rect{Width: target.Width / 2, Height: target.Height / 2}
	if !q.Top() {
		region.X = target.Width / 2
	}
	if !q.Left() {
		region.Y = target.Height / 2
	}
	return region
}

// remapOrientation moves r from source to target when their orientation
// classes differ. Constraints are not consulted on this path. aspect is the
// width/height ratio to keep; zero means the element has no usable ratio and
// both axes are sized independently. It returns the new box and the cross-axis
// ratio text should scale by.
func remapOrientation(r geom.Rect, aspect float64, source, target design.CanvasSize, cfg config.OrientationConfig) (geom.Rect, float64) {
	q := QuadrantOf(r, source.Width, source.Height)

	// offset of the center inside its source quadrant, 0..1 per axis
	halfW, halfH := source.Width/2, source.Height/2
	cx, cy := r.Center()
	if !q.Left() {
		cx -= halfW
	}
	if !q.Top() {
		cy -= halfH
	}
	fx := geom.Clamp(cx/halfW, 0, 1)
	fy := geom.Clamp(cy/halfH, 0, 1)

	widthPct := geom.ToPercent(r.Width, source.Width)
	heightPct := geom.ToPercent(r.Height, source.Height)

	var width, height, fontRatio float64
	if source.Orientation() == design.OrientationVertical {
		// portrait -> landscape: width drives, height follows the aspect
		width = geom.FromPercent(dampShare(widthPct, cfg), target.Width)
		if aspect > 0 {
			height = width / aspect
		} else {
			height = geom.FromPercent(dampShare(heightPct, cfg), target.Height)
		}
		if ceiling := cfg.VerticalToHorizontalCeiling * target.Height; height > ceiling {
			height = ceiling
			if aspect > 0 {
				width = height * aspect
			}
		}
		fontRatio = target.Width / source.Height
	} else {
		// landscape -> portrait: height drives, width follows the aspect
		height = geom.FromPercent(dampShare(heightPct, cfg), target.Height)
		if aspect > 0 {
			width = height * aspect
		} else {
			width = geom.FromPercent(dampShare(widthPct, cfg), target.Width)
		}
		if ceiling := cfg.HorizontalToVerticalCeiling * target.Width; width > ceiling {
			width = ceiling
			if aspect > 0 {
				height = width / aspect
			}
		}
		fontRatio = target.Height / source.Width
	}
	width, height = fitWithin(width, height, aspect, target)

	region := regionFor(q, target)
	centerX := region.X + fx*region.Width
	centerY := region.Y + fy*region.Height

	out := geom.Rect{Width: width, Height: height}
	out.X = geom.Clamp(centerX-width/2, 0, target.Width-width)
	out.Y = geom.Clamp(centerY-height/2, 0, target.Height-height)
	return out, fontRatio
}

// dampShare turns a source share (percent) into a target share. Dominant
// elements are capped, everything else takes half its share because it now
// competes for one half of the flipped canvas.
func dampShare(pct float64, cfg config.OrientationConfig) float64 {
	if pct > cfg.DominanceThreshold {
		return cfg.DominanceCap
	}
	return pct / 2
}

// fitWithin shrinks width/height, keeping aspect when known, until the box
// fits on the target canvas.
func fitWithin(width, height, aspect float64, target design.CanvasSize) (float64, float64) {
	if width > target.Width {
		width = target.Width
		if aspect > 0 {
			height = width / aspect
		}
	}
	if height > target.Height {
		height = target.Height
		if aspect > 0 {
			width = height * aspect
		}
	}
	return width, height
}

// fontBandFor picks the font band for a flip away from source's orientation.
func fontBandFor(source design.CanvasSize, cfg config.OrientationConfig) config.FontBand {
	if source.Orientation() == design.OrientationVertical {
		return cfg.VerticalToHorizontalFont
	}
	return cfg.HorizontalToVerticalFont
}

// scaleTextOrientationChange applies the cross-axis font rule: the scaled
// font never exceeds the new box height and always lands inside band.
func scaleTextOrientationChange(fontSize, ratio, boxHeight float64, band config.FontBand) float64 {
	if fontSize <= 0 {
		return fontSize
	}
	scaled := fontSize * ratio
	if boxHeight > 0 {
		scaled = math.Min(scaled, boxHeight)
	}
	return band.Clamp(scaled)
}
