package layout

import (
	"go.uber.org/zap"

	"multiformat/pkg/design"
	"multiformat/pkg/geom"
)

// EditRequest is a completed or in-progress interactive edit: the new
// absolute canvas geometry of one instance.
type EditRequest struct {
	ElementID string    `json:"elementId"`
	Geometry  geom.Rect `json:"geometry"`
}

// ApplyEdit applies an edit to its instance and propagates it to the linked
// group. A nested instance is brought into its container's coordinates and
// clamped inside it; a free instance is kept within the overflow allowance of
// its canvas. Resizing a container re-fits its children.
func (e *Engine) ApplyEdit(elements []design.Element, req EditRequest, active design.Sizes) ([]design.Element, error) {
	el, loc, ok := find(elements, req.ElementID)
	if !ok {
		return elements, fmtErr(ErrElementNotFound, "%s", req.ElementID)
	}
	canvas, ok := active.Lookup(loc.sizeID)
	if !ok {
		return elements, fmtErr(ErrUnknownSize, "element %s is on %q", req.ElementID, loc.sizeID)
	}
	if err := validateSize(canvas); err != nil {
		return elements, err
	}
	if !req.Geometry.IsFinite() {
		return elements, fmtErr(ErrInvalidGeometry, "edit of %s", req.ElementID)
	}

	var local geom.Rect
	if loc.nested {
		local = ToContainerLocal(req.Geometry, loc.parent)
	} else {
		local = ConstrainToBounds(req.Geometry, canvas.Width, canvas.Height, e.cfg.OverflowAllowance)
	}
	local = e.grid.SnapRect(local)

	w, h := loc.frame(canvas)
	before := el.Geometry.Resolve(w, h).Rect()
	updated := el.Clone()
	updated.Geometry = design.FromRect(local).WithPercent(w, h)
	if updated.Type.IsContainer() && len(updated.Children) > 0 {
		updated.Children = e.refitChildren(el.Children, before, local, updated.SizeID)
	}

	if !updated.Propagates() {
		return replaceAt(elements, loc.path, updated), nil
	}
	return e.Propagate(elements, updated, active)
}

// Create adds a new element edited on size. In global mode with more than one
// active size it becomes a linked group with one instance per size;
// otherwise it is added standalone. An element with a ParentID is added to
// that container, and in global mode also to every linked instance of the
// container.
func (e *Engine) Create(elements []design.Element, el design.Element, size design.CanvasSize, active design.Sizes, mode design.EditMode) ([]design.Element, error) {
	if err := validateSize(size); err != nil {
		return elements, err
	}
	if el.ParentID != "" {
		return e.createNested(elements, el, active, mode)
	}

	if mode == design.EditModeGlobal && len(active) > 1 {
		instances, err := e.CreateLinkedGroup(el, size, active)
		if err != nil {
			return elements, err
		}
		return append(design.CloneAll(elements), instances...), nil
	}

	g := el.Geometry.Resolve(size.Width, size.Height)
	if !g.Finite() {
		return elements, fmtErr(ErrInvalidGeometry, "element %s", el.ID)
	}
	standalone := el.Clone()
	if standalone.ID == "" {
		standalone.ID = e.newID()
	}
	standalone.SizeID = size.Name
	if standalone.Constraints.IsZero() {
		standalone.Constraints = e.AnalyzeConstraints(g, size)
	}
	standalone.Geometry = g.WithPercent(size.Width, size.Height)
	standalone.Children = e.prepareChildren(standalone.Children, g.Width, g.Height, size.Name, standalone.ID, false)
	return append(design.CloneAll(elements), standalone), nil
}

func (e *Engine) createNested(elements []design.Element, el design.Element, active design.Sizes, mode design.EditMode) ([]design.Element, error) {
	parent, ploc, ok := find(elements, el.ParentID)
	if !ok {
		return elements, fmtErr(ErrElementNotFound, "container %s", el.ParentID)
	}
	pw, ph := parent.Geometry.Width, parent.Geometry.Height

	linked := mode == design.EditModeGlobal && parent.Propagates()
	child := e.prepareChildren([]design.Element{el}, pw, ph, ploc.sizeID, parent.ID, linked)[0]
	if !child.Geometry.Finite() {
		return elements, fmtErr(ErrInvalidGeometry, "element %s", el.ID)
	}
	out := insertChild(elements, ploc.path, child)
	if !linked {
		return out, nil
	}

	parentFrame := design.CanvasSize{Name: "container", Width: pw, Height: ph}
	if !parentFrame.Valid() {
		return out, nil
	}
	for _, m := range group(out, parent.LinkedElementID) {
		if m.el.ID == parent.ID || m.el.IndividuallyPositioned {
			continue
		}
		if _, ok := active.Lookup(m.loc.sizeID); !ok {
			e.logger.Warn("container sibling skipped", zap.String("element", m.el.ID), zap.String("size", m.loc.sizeID))
			continue
		}
		siblingFrame := design.CanvasSize{Name: "container", Width: m.el.Geometry.Width, Height: m.el.Geometry.Height}
		if !siblingFrame.Valid() {
			continue
		}
		inst, err := e.transformElement(child, parentFrame, siblingFrame, m.loc.sizeID)
		if err != nil {
			return elements, err
		}
		inst.ID = e.newID()
		inst.ParentID = m.el.ID
		inst.Children = e.renewChildIDs(inst.Children, inst.ID)
		out = insertChild(out, m.loc.path, inst)
	}
	return out, nil
}

// Remove deletes an element. Containers take their children with them. In
// global mode removing a linked instance removes its whole group.
func (e *Engine) Remove(elements []design.Element, elementID string, mode design.EditMode) ([]design.Element, error) {
	el, _, ok := find(elements, elementID)
	if !ok {
		return elements, fmtErr(ErrElementNotFound, "%s", elementID)
	}

	drop := func(candidate design.Element) bool { return candidate.ID == elementID }
	if mode == design.EditModeGlobal && el.IsLinked() {
		linkedID := el.LinkedElementID
		drop = func(candidate design.Element) bool { return candidate.LinkedElementID == linkedID }
	}
	return filter(elements, drop), nil
}
