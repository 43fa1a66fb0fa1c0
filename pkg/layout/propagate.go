package layout

import (
	"errors"

	"go.uber.org/zap"

	"multiformat/pkg/design"
	"multiformat/pkg/geom"
)

// Propagate pushes the geometry of edited, the instance the user just moved
// or resized, to every other instance of its linked group.
//
//   - The instance with edited's id is replaced by edited as-is (its percent
//     box is refreshed from its pixels). A detached edited instance stops
//     here.
//   - Individually positioned instances are left untouched.
//   - Every other instance gets geometry derived from edited's absolute
//     geometry for its own canvas; identity, content and style other than
//     the derived font size are kept.
//
// Siblings whose canvas is not among the active sizes are skipped. Each
// sibling is derived from edited alone, so calling Propagate twice with the
// same edit yields the same collection. Elements outside the group, and the
// whole collection when edited is not linked, are returned unchanged.
func (e *Engine) Propagate(elements []design.Element, edited design.Element, active design.Sizes) ([]design.Element, error) {
	_, loc, ok := find(elements, edited.ID)
	if !ok {
		return elements, fmtErr(ErrElementNotFound, "edited instance %s", edited.ID)
	}
	if !edited.IsLinked() {
		return elements, nil
	}
	canvas, ok := active.Lookup(loc.sizeID)
	if !ok {
		return elements, fmtErr(ErrUnknownSize, "edited instance %s is on %q", edited.ID, loc.sizeID)
	}
	if err := validateSize(canvas); err != nil {
		return elements, err
	}

	w, h := loc.frame(canvas)
	authoritative := edited.Clone()
	authoritative.Geometry = edited.Geometry.Resolve(w, h).WithPercent(w, h)
	if !authoritative.Geometry.Finite() {
		return elements, fmtErr(ErrInvalidGeometry, "edited instance %s", edited.ID)
	}

	out := replaceAt(elements, loc.path, authoritative)
	if edited.IndividuallyPositioned {
		return out, nil
	}
	source := groupMember{el: authoritative, loc: loc}

	updated, skipped := 0, 0
	for _, m := range group(out, edited.LinkedElementID) {
		if m.el.ID == edited.ID {
			continue
		}
		if m.el.IndividuallyPositioned {
			skipped++
			continue
		}
		placed, err := e.placeFrom(source, m, active)
		if errors.Is(err, ErrUnknownSize) {
			e.logger.Warn("sibling skipped",
				zap.String("element", m.el.ID),
				zap.String("size", m.loc.sizeID),
				zap.Error(err))
			skipped++
			continue
		}
		if err != nil {
			return elements, err
		}
		out = replaceAt(out, m.loc.path, placed)
		updated++
	}

	e.logger.Debug("edit propagated",
		zap.String("element", edited.ID),
		zap.String("linkedElementId", edited.LinkedElementID),
		zap.Int("updated", updated),
		zap.Int("skipped", skipped))
	return out, nil
}

// placeFrom derives target's new geometry from source's geometry. Both may
// live inside containers: source is lifted to canvas coordinates, transformed
// between canvases, then brought into target's container.
func (e *Engine) placeFrom(source, target groupMember, active design.Sizes) (design.Element, error) {
	sourceCanvas, ok := active.Lookup(source.loc.sizeID)
	if !ok {
		return target.el, fmtErr(ErrUnknownSize, "%q", source.loc.sizeID)
	}
	targetCanvas, ok := active.Lookup(target.loc.sizeID)
	if !ok {
		return target.el, fmtErr(ErrUnknownSize, "%q", target.loc.sizeID)
	}
	if err := validateSize(sourceCanvas); err != nil {
		return target.el, err
	}
	if err := validateSize(targetCanvas); err != nil {
		return target.el, err
	}

	sw, sh := source.loc.frame(sourceCanvas)
	abs := source.el.Geometry.Resolve(sw, sh).Rect()
	if source.loc.nested {
		abs = ToAbsolute(abs, source.loc.parent)
	}
	lifted := source.el
	lifted.Geometry = design.FromRect(abs)

	p, err := e.Transform(lifted, sourceCanvas, targetCanvas)
	if err != nil {
		return target.el, err
	}

	tw, th := target.loc.frame(targetCanvas)
	geometry := p.Geometry
	if target.loc.nested {
		local := ToContainerLocal(p.Geometry.Rect(), target.loc.parent)
		geometry = design.FromRect(e.grid.SnapRect(local)).WithPercent(tw, th)
	}

	before := target.el.Geometry.Resolve(tw, th).Rect()
	placed := target.el.Clone()
	placed.Geometry = geometry
	if placed.Type == design.TypeText {
		placed.Style.FontSize = p.FontSize
	}
	if placed.Type.IsContainer() && len(placed.Children) > 0 {
		sourceBox := source.el.Geometry.Resolve(sw, sh).Rect()
		placed.Children = e.deriveChildren(source.el.Children, target.el.Children, sourceBox, before, geometry.Rect(), placed.SizeID)
	}
	return placed, nil
}

// deriveChildren re-derives the children of a sibling container whose box
// moved to after. A child linked to one of source's children is placed from
// that child and sourceBox, so the result does not depend on where the
// sibling was before. Other children are refitted from before.
func (e *Engine) deriveChildren(source, children []design.Element, sourceBox, before, after geom.Rect, sizeID string) []design.Element {
	from, to := boxFrame(sourceBox), boxFrame(after)
	if !from.Valid() || !to.Valid() {
		return e.refitChildren(children, before, after, sizeID)
	}

	out := make([]design.Element, len(children))
	for i, child := range children {
		match, ok := linkedChild(source, child)
		if !ok {
			out[i] = e.refitChildren([]design.Element{child}, before, after, sizeID)[0]
			continue
		}
		p, err := e.Transform(match, from, to)
		if err != nil {
			e.logger.Warn("child refitted instead", zap.String("element", child.ID), zap.Error(err))
			out[i] = e.refitChildren([]design.Element{child}, before, after, sizeID)[0]
			continue
		}

		placed := child.Clone()
		placed.SizeID = sizeID
		placed.Geometry = p.Geometry
		if placed.Type == design.TypeText {
			placed.Style.FontSize = p.FontSize
		}
		if placed.Type.IsContainer() && len(placed.Children) > 0 {
			placed.Children = e.deriveChildren(match.Children, child.Children,
				match.Geometry.Resolve(from.Width, from.Height).Rect(),
				child.Geometry.Resolve(before.Width, before.Height).Rect(),
				p.Geometry.Rect(), sizeID)
		}
		out[i] = placed
	}
	return out
}

// linkedChild finds the child of source sharing child's link. Individually
// positioned children on either side never match.
func linkedChild(source []design.Element, child design.Element) (design.Element, bool) {
	if !child.Propagates() {
		return design.Element{}, false
	}
	for _, c := range source {
		if c.LinkedElementID == child.LinkedElementID && c.Propagates() {
			return c, true
		}
	}
	return design.Element{}, false
}
