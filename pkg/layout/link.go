package layout

import (
	"go.uber.org/zap"

	"multiformat/pkg/design"
)

// CreateLinkedGroup turns el, placed on source, into a linked group with one
// instance per active size. The source instance comes first and keeps el's
// id; every other instance gets a fresh id. All instances share a fresh
// linkedElementId and one constraint pair: el's own pair when it has one,
// otherwise the pair inferred from its geometry on source.
func (e *Engine) CreateLinkedGroup(el design.Element, source design.CanvasSize, active design.Sizes) ([]design.Element, error) {
	if err := validateSize(source); err != nil {
		return nil, err
	}
	g := el.Geometry.Resolve(source.Width, source.Height)
	if !g.Finite() {
		return nil, fmtErr(ErrInvalidGeometry, "element %s", el.ID)
	}

	src := el.Clone()
	if src.ID == "" {
		src.ID = e.newID()
	}
	src.SizeID = source.Name
	src.LinkedElementID = e.newID()
	src.IndividuallyPositioned = false
	if src.Constraints.IsZero() {
		src.Constraints = e.AnalyzeConstraints(g, source)
	}
	src.Geometry = g.WithPercent(source.Width, source.Height)
	src.Children = e.prepareChildren(src.Children, g.Width, g.Height, src.SizeID, src.ID, true)

	instances := []design.Element{src}
	for _, size := range active {
		if size.Name == source.Name {
			continue
		}
		inst, err := e.TransformElement(src, source, size)
		if err != nil {
			return nil, err
		}
		inst.ID = e.newID()
		inst.Children = e.renewChildIDs(inst.Children, inst.ID)
		instances = append(instances, inst)
	}

	e.logger.Debug("linked group created",
		zap.String("linkedElementId", src.LinkedElementID),
		zap.String("source", source.Name),
		zap.Int("instances", len(instances)),
		zap.Stringer("constraints", src.Constraints))
	return instances, nil
}

// LinkExisting links a standalone top-level element across the active sizes.
// The element's own sizeId must name an active size; that size is the source.
// The constraint pair is re-derived from the element's current geometry. The
// returned collection has the element replaced in place and the new siblings
// inserted right after it.
func (e *Engine) LinkExisting(elements []design.Element, elementID string, active design.Sizes) ([]design.Element, error) {
	el, loc, ok := find(elements, elementID)
	if !ok {
		return elements, fmtErr(ErrElementNotFound, "%s", elementID)
	}
	if loc.nested {
		return elements, fmtErr(ErrNestedElement, "%s is inside %s", elementID, el.ParentID)
	}
	source, ok := active.Lookup(el.SizeID)
	if !ok {
		return elements, fmtErr(ErrUnknownSize, "element %s is on %q", elementID, el.SizeID)
	}
	if el.IsLinked() && len(group(elements, el.LinkedElementID)) > 1 {
		return elements, fmtErr(ErrAlreadyLinked, "%s belongs to group %s", elementID, el.LinkedElementID)
	}
	if err := validateSize(source); err != nil {
		return elements, err
	}

	fresh := el.Clone()
	fresh.Constraints = e.AnalyzeConstraints(el.Geometry, source)
	instances, err := e.CreateLinkedGroup(fresh, source, active)
	if err != nil {
		return elements, err
	}

	idx := loc.path[0]
	out := make([]design.Element, 0, len(elements)+len(instances)-1)
	out = append(out, elements[:idx]...)
	out = append(out, instances...)
	out = append(out, elements[idx+1:]...)
	return out, nil
}

// Unlink detaches one instance from propagation. The instance keeps its
// linkedElementId for bookkeeping; the remaining members keep propagating
// among themselves.
func (e *Engine) Unlink(elements []design.Element, elementID string) ([]design.Element, error) {
	el, loc, ok := find(elements, elementID)
	if !ok {
		return elements, fmtErr(ErrElementNotFound, "%s", elementID)
	}
	if !el.IsLinked() {
		return elements, fmtErr(ErrNotLinked, "%s", elementID)
	}

	detached := el.Clone()
	detached.IndividuallyPositioned = true
	e.logger.Debug("instance unlinked",
		zap.String("element", elementID),
		zap.String("linkedElementId", el.LinkedElementID))
	return replaceAt(elements, loc.path, detached), nil
}

// Relink undoes Unlink: the instance rejoins propagation and its geometry is
// re-derived from a sibling that is still linked. If no such sibling exists
// the flag is cleared and the geometry kept.
func (e *Engine) Relink(elements []design.Element, elementID string, active design.Sizes) ([]design.Element, error) {
	el, loc, ok := find(elements, elementID)
	if !ok {
		return elements, fmtErr(ErrElementNotFound, "%s", elementID)
	}
	if !el.IsLinked() {
		return elements, fmtErr(ErrNotLinked, "%s", elementID)
	}

	rejoined := el.Clone()
	rejoined.IndividuallyPositioned = false

	for _, m := range group(elements, el.LinkedElementID) {
		if m.el.ID == el.ID || m.el.IndividuallyPositioned {
			continue
		}
		placed, err := e.placeFrom(m, groupMember{el: rejoined, loc: loc}, active)
		if err != nil {
			return elements, err
		}
		return replaceAt(elements, loc.path, placed), nil
	}
	return replaceAt(elements, loc.path, rejoined), nil
}

// Reanalyze re-infers the constraint pair from the given instance and
// replaces the pair wholesale on every instance of its group. Constraints are
// never recomputed implicitly; this is the explicit request.
func (e *Engine) Reanalyze(elements []design.Element, elementID string, active design.Sizes) ([]design.Element, error) {
	el, loc, ok := find(elements, elementID)
	if !ok {
		return elements, fmtErr(ErrElementNotFound, "%s", elementID)
	}
	canvas, ok := active.Lookup(loc.sizeID)
	if !ok {
		return elements, fmtErr(ErrUnknownSize, "element %s is on %q", elementID, loc.sizeID)
	}
	w, h := loc.frame(canvas)
	frame := design.CanvasSize{Name: canvas.Name, Width: w, Height: h}
	if err := validateSize(frame); err != nil {
		return elements, err
	}
	pair := e.AnalyzeConstraints(el.Geometry, frame)

	members := group(elements, el.LinkedElementID)
	if len(members) == 0 {
		members = []groupMember{{el: el, loc: loc}}
	}
	out := elements
	for _, m := range members {
		updated := m.el.Clone()
		updated.Constraints = pair
		out = replaceAt(out, m.loc.path, updated)
	}
	return out, nil
}

// prepareChildren stamps ids, size, parent and percents on a container's
// children and, when link is set, gives every child a fresh linkedElementId
// so the child groups follow the container's group.
func (e *Engine) prepareChildren(children []design.Element, frameW, frameH float64, sizeID, parentID string, link bool) []design.Element {
	if len(children) == 0 {
		return children
	}
	frame := design.CanvasSize{Name: "container", Width: frameW, Height: frameH}
	out := make([]design.Element, len(children))
	for i, child := range children {
		c := child.Clone()
		if c.ID == "" {
			c.ID = e.newID()
		}
		c.SizeID = sizeID
		c.ParentID = parentID
		c.InContainer = true
		if link {
			c.LinkedElementID = e.newID()
			c.IndividuallyPositioned = false
		}
		if frame.Valid() {
			c.Geometry = c.Geometry.Resolve(frameW, frameH)
			if c.Constraints.IsZero() {
				c.Constraints = e.AnalyzeConstraints(c.Geometry, frame)
			}
			c.Geometry = c.Geometry.WithPercent(frameW, frameH)
		}
		c.Children = e.prepareChildren(c.Children, c.Geometry.Width, c.Geometry.Height, sizeID, c.ID, link)
		out[i] = c
	}
	return out
}

// renewChildIDs gives transformed children new ids under a new parent,
// keeping their linkedElementIds.
func (e *Engine) renewChildIDs(children []design.Element, parentID string) []design.Element {
	if len(children) == 0 {
		return children
	}
	out := make([]design.Element, len(children))
	for i, child := range children {
		c := child
		c.ID = e.newID()
		c.ParentID = parentID
		c.Children = e.renewChildIDs(child.Children, c.ID)
		out[i] = c
	}
	return out
}

// Group returns copies of every instance sharing linkedElementID, nested
// instances included, in collection order.
func Group(elements []design.Element, linkedElementID string) ([]design.Element, error) {
	members := group(elements, linkedElementID)
	if len(members) == 0 {
		return nil, fmtErr(ErrDanglingLink, "%q", linkedElementID)
	}
	out := make([]design.Element, len(members))
	for i, m := range members {
		out[i] = m.el.Clone()
	}
	return out, nil
}
