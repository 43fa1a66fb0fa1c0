package layout

import (
	"math"

	"go.uber.org/zap"

	"multiformat/pkg/design"
	"multiformat/pkg/geom"
)

// Path names the transformation rule that produced a placement.
type Path int

const (
	PathBackground Path = iota
	PathSameOrientation
	PathOrientationChange
)

func (p Path) String() string {
	switch p {
	case PathBackground:
		return "background"
	case PathOrientationChange:
		return "orientation-change"
	default:
		return "same-orientation"
	}
}

// Placement is the result of transforming one element to a target frame.
type Placement struct {
	// Geometry is snapped to the grid and carries percents of the target.
	Geometry design.Geometry
	// FontSize is the derived font size; it equals the input for non-text
	// elements.
	FontSize float64
	Path     Path
}

// Transform computes the geometry el would have on target, given that its
// current geometry is expressed on source. It never mutates el.
//
// Zero or negative canvas dimensions and non-finite geometry are caller
// contract violations and return an error instead of a NaN placement.
func (e *Engine) Transform(el design.Element, source, target design.CanvasSize) (Placement, error) {
	if err := validateSize(source); err != nil {
		return Placement{}, err
	}
	if err := validateSize(target); err != nil {
		return Placement{}, err
	}

	g := el.Geometry.Resolve(source.Width, source.Height)
	if !g.Finite() {
		return Placement{}, fmtErr(ErrInvalidGeometry, "element %s", el.ID)
	}

	if el.Type.IsBackground() {
		full := design.FromRect(target.Bounds()).WithPercent(target.Width, target.Height)
		return Placement{Geometry: full, FontSize: el.Style.FontSize, Path: PathBackground}, nil
	}

	aspect := el.Style.AspectRatio
	if aspect <= 0 {
		aspect = g.AspectRatio()
	}

	var (
		rect     geom.Rect
		fontSize = el.Style.FontSize
		path     Path
	)
	if design.OrientationChanged(source, target) {
		path = PathOrientationChange
		var ratio float64
		rect, ratio = remapOrientation(g.Rect(), aspect, source, target, e.cfg.Orientation)
		if el.Type == design.TypeText {
			fontSize = scaleTextOrientationChange(fontSize, ratio, rect.Height, fontBandFor(source, e.cfg.Orientation))
		}
	} else {
		path = PathSameOrientation
		constraints := el.Constraints
		if constraints.IsZero() {
			constraints = AnalyzeConstraints(g.Rect(), source.Width, source.Height, e.cfg.Constraints)
		}
		var factor float64
		rect, factor = projectConstraints(g.Rect(), constraints.Complete(), source, target)
		if el.Type == design.TypeText {
			fontSize = scaleTextSameOrientation(fontSize, factor, e.cfg.TextMinFontSize)
		}
	}

	// Only a box whose proportions the path changed is re-locked, so a
	// placement onto an identical frame hands back the input box.
	if el.Type.IsImageLike() && e.drifted(g.Rect(), rect) {
		rect = e.lockAspect(rect, aspect)
	}

	rect = e.grid.SnapRect(rect)
	if !rect.IsFinite() || math.IsNaN(fontSize) || math.IsInf(fontSize, 0) {
		return Placement{}, fmtErr(ErrInvalidGeometry, "element %s produced non-finite geometry on %s", el.ID, target.Name)
	}

	e.logger.Debug("element transformed",
		zap.String("element", el.ID),
		zap.String("source", source.Name),
		zap.String("target", target.Name),
		zap.Stringer("path", path))

	return Placement{
		Geometry: design.FromRect(rect).WithPercent(target.Width, target.Height),
		FontSize: fontSize,
		Path:     path,
	}, nil
}

// lockAspect re-derives the height from the width when the two were computed
// independently and drifted from the stored ratio.
func (e *Engine) lockAspect(r geom.Rect, aspect float64) geom.Rect {
	if aspect <= 0 || r.Height <= 0 {
		return r
	}
	drift := math.Abs(r.Width/r.Height-aspect) / aspect
	if drift > e.cfg.ImageAspectTolerance {
		r.Height = r.Width / aspect
	}
	return r
}

// drifted reports whether out's width/height ratio moved away from in's by
// more than the image tolerance.
func (e *Engine) drifted(in, out geom.Rect) bool {
	if in.Width <= 0 || in.Height <= 0 || out.Height <= 0 {
		return false
	}
	ratio := in.Width / in.Height
	return math.Abs(out.Width/out.Height-ratio)/ratio > e.cfg.ImageAspectTolerance
}

// TransformElement returns a copy of el placed on target: new geometry,
// derived font size, sizeId set to target and container children re-fitted to
// the container's new box. Identity and content are kept.
func (e *Engine) TransformElement(el design.Element, source, target design.CanvasSize) (design.Element, error) {
	return e.transformElement(el, source, target, target.Name)
}

func (e *Engine) transformElement(el design.Element, source, target design.CanvasSize, sizeID string) (design.Element, error) {
	p, err := e.Transform(el, source, target)
	if err != nil {
		return el, err
	}

	out := el.Clone()
	out.SizeID = sizeID
	out.Geometry = p.Geometry
	out.Style.FontSize = p.FontSize

	if el.Type.IsContainer() && len(el.Children) > 0 {
		before := el.Geometry.Resolve(source.Width, source.Height)
		out.Children = e.refitChildren(el.Children, before.Rect(), p.Geometry.Rect(), sizeID)
	}
	return out, nil
}

// refitChildren re-derives container-local child geometry after the
// container's box changed from before to after. The container box acts as
// the canvas for its children.
func (e *Engine) refitChildren(children []design.Element, before, after geom.Rect, sizeID string) []design.Element {
	oldFrame, newFrame := boxFrame(before), boxFrame(after)

	out := make([]design.Element, len(children))
	for i, child := range children {
		if !oldFrame.Valid() || !newFrame.Valid() {
			out[i] = child.Clone()
			out[i].SizeID = sizeID
			continue
		}
		placed, err := e.transformElement(child, oldFrame, newFrame, sizeID)
		if err != nil {
			e.logger.Warn("child left in place", zap.String("element", child.ID), zap.Error(err))
			placed = child.Clone()
			placed.SizeID = sizeID
		}
		out[i] = placed
	}
	return out
}

// boxFrame treats a container box as the canvas of its children.
func boxFrame(r geom.Rect) design.CanvasSize {
	return design.CanvasSize{Name: "container", Width: r.Width, Height: r.Height}
}
