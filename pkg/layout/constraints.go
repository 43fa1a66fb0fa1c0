package layout

import (
	"math"

	"go.uber.org/zap"

	"multiformat/pkg/config"
	"multiformat/pkg/design"
	"multiformat/pkg/geom"
)

// AnalyzeConstraints infers a constraint pair from an element's pixel box on
// a frame of frameWidth x frameHeight. The rules are a best-effort heuristic:
// a wrong guess only changes how the element looks on other sizes, and the
// same input always yields the same pair.
//
// Per axis, in order: close to the near edge anchors to it, past the far-edge
// threshold anchors to the far edge, near the middle centers, a wide span
// scales, anything else anchors to the near edge. Elements at or before the
// origin stay on the near edge.
func AnalyzeConstraints(r geom.Rect, frameWidth, frameHeight float64, cfg config.ConstraintConfig) design.ConstraintPair {
	pair := design.DefaultConstraints()
	if frameWidth <= 0 || frameHeight <= 0 || !r.IsFinite() {
		return pair
	}

	switch classifyAxis(r.X, r.Width, frameWidth, cfg) {
	case axisFar:
		pair.Horizontal = design.HorizontalRight
	case axisCenter:
		pair.Horizontal = design.HorizontalCenter
	case axisScale:
		pair.Horizontal = design.HorizontalScale
	}

	switch classifyAxis(r.Y, r.Height, frameHeight, cfg) {
	case axisFar:
		pair.Vertical = design.VerticalBottom
	case axisCenter:
		pair.Vertical = design.VerticalCenter
	case axisScale:
		pair.Vertical = design.VerticalScale
	}
	return pair
}

type axisAnchor int

const (
	axisNear axisAnchor = iota
	axisFar
	axisCenter
	axisScale
)

func classifyAxis(pos, span, frame float64, cfg config.ConstraintConfig) axisAnchor {
	posPct := geom.ToPercent(pos, frame)
	if posPct <= 0 {
		return axisNear
	}
	spanPct := geom.ToPercent(span, frame)

	switch {
	case pos < cfg.EdgeSnapPx:
		return axisNear
	case posPct > cfg.FarEdgePercent:
		return axisFar
	case math.Abs(posPct-50) < cfg.CenterBandPercent:
		return axisCenter
	case spanPct > cfg.ScaleSpanPercent:
		return axisScale
	default:
		return axisNear
	}
}

// AnalyzeConstraints infers the constraint pair of g on the given canvas using
// the engine's thresholds.
func (e *Engine) AnalyzeConstraints(g design.Geometry, size design.CanvasSize) design.ConstraintPair {
	resolved := g.Resolve(size.Width, size.Height)
	pair := AnalyzeConstraints(resolved.Rect(), size.Width, size.Height, e.cfg.Constraints)
	e.logger.Debug("constraints inferred",
		zap.String("size", size.Name),
		zap.Stringer("constraints", pair))
	return pair
}

// AnalysisEntry describes how one element sits on its canvas.
type AnalysisEntry struct {
	ID       string                `json:"id"`
	Type     design.ElementType    `json:"type"`
	Name     string                `json:"name,omitempty"`
	Linked   bool                  `json:"linked"`
	Detached bool                  `json:"detached"`
	Assigned design.ConstraintPair `json:"assigned"`
	Inferred design.ConstraintPair `json:"inferred"`
	Quadrant Quadrant              `json:"quadrant"`
	Percent  design.Percent        `json:"percent"`
}

// AnalyzeLayout reports, for every top-level element on size, both its
// assigned constraint pair and the pair the heuristic would infer now, along
// with its quadrant. Layout suggestion tools use it to spot elements whose
// anchoring no longer matches where they sit.
func (e *Engine) AnalyzeLayout(elements []design.Element, size design.CanvasSize) ([]AnalysisEntry, error) {
	if err := validateSize(size); err != nil {
		return nil, err
	}

	var entries []AnalysisEntry
	for _, el := range elements {
		if el.SizeID != size.Name {
			continue
		}
		g := el.Geometry.Resolve(size.Width, size.Height).WithPercent(size.Width, size.Height)
		entries = append(entries, AnalysisEntry{
			ID:       el.ID,
			Type:     el.Type,
			Name:     el.Name,
			Linked:   el.IsLinked(),
			Detached: el.IndividuallyPositioned,
			Assigned: el.Constraints,
			Inferred: AnalyzeConstraints(g.Rect(), size.Width, size.Height, e.cfg.Constraints),
			Quadrant: QuadrantOf(g.Rect(), size.Width, size.Height),
			Percent:  *g.Percent,
		})
	}
	return entries, nil
}
