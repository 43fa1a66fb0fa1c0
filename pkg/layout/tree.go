package layout

import (
	"multiformat/pkg/design"
	"multiformat/pkg/geom"
)

// location addresses an element inside a collection whose containers own
// their children by value.
type location struct {
	path []int
	// parent is the absolute box of the enclosing container; only set when
	// nested is true.
	parent geom.Rect
	nested bool
	// sizeID is the canvas of the top-level ancestor.
	sizeID string
}

// frame returns the dimensions element geometry at loc is expressed in.
func (l location) frame(canvas design.CanvasSize) (float64, float64) {
	if l.nested {
		return l.parent.Width, l.parent.Height
	}
	return canvas.Width, canvas.Height
}

type visitFunc func(el design.Element, loc location)

// walk visits every element depth-first in collection order.
func walk(elements []design.Element, fn visitFunc) {
	walkFrom(elements, nil, geom.Rect{}, false, "", fn)
}

func walkFrom(elements []design.Element, prefix []int, parent geom.Rect, nested bool, sizeID string, fn visitFunc) {
	for i, el := range elements {
		path := append(append([]int(nil), prefix...), i)
		owner := sizeID
		if !nested {
			owner = el.SizeID
		}
		loc := location{path: path, parent: parent, nested: nested, sizeID: owner}
		fn(el, loc)

		if len(el.Children) > 0 {
			box := el.Geometry.Rect()
			if nested {
				box = ToAbsolute(box, parent)
			}
			walkFrom(el.Children, path, box, true, owner, fn)
		}
	}
}

// find locates an element by id.
func find(elements []design.Element, id string) (design.Element, location, bool) {
	var (
		found design.Element
		at    location
		ok    bool
	)
	walk(elements, func(el design.Element, loc location) {
		if !ok && el.ID == id {
			found, at, ok = el, loc, true
		}
	})
	return found, at, ok
}

// Find returns a copy of the element with id, searching container children
// too.
func Find(elements []design.Element, id string) (design.Element, bool) {
	el, _, ok := find(elements, id)
	if !ok {
		return design.Element{}, false
	}
	return el.Clone(), true
}

// groupMember pairs a linked instance with its location.
type groupMember struct {
	el  design.Element
	loc location
}

// group returns every instance sharing linkedID, in walk order.
func group(elements []design.Element, linkedID string) []groupMember {
	if linkedID == "" {
		return nil
	}
	var members []groupMember
	walk(elements, func(el design.Element, loc location) {
		if el.LinkedElementID == linkedID {
			members = append(members, groupMember{el: el, loc: loc})
		}
	})
	return members
}

// replaceAt returns a copy of elements with the element at path replaced.
// Only the slices along path are copied; the input is left untouched.
func replaceAt(elements []design.Element, path []int, el design.Element) []design.Element {
	out := make([]design.Element, len(elements))
	copy(out, elements)
	if len(path) == 1 {
		out[path[0]] = el
		return out
	}
	parent := out[path[0]]
	parent.Children = replaceAt(parent.Children, path[1:], el)
	out[path[0]] = parent
	return out
}

// insertChild returns a copy of elements with child appended to the
// children of the container at path.
func insertChild(elements []design.Element, path []int, child design.Element) []design.Element {
	out := make([]design.Element, len(elements))
	copy(out, elements)
	target := out[path[0]]
	if len(path) == 1 {
		children := make([]design.Element, len(target.Children), len(target.Children)+1)
		copy(children, target.Children)
		target.Children = append(children, child)
	} else {
		target.Children = insertChild(target.Children, path[1:], child)
	}
	out[path[0]] = target
	return out
}

// filter returns a copy of elements without the elements drop matches.
// Dropping a container drops its children with it.
func filter(elements []design.Element, drop func(design.Element) bool) []design.Element {
	out := make([]design.Element, 0, len(elements))
	for _, el := range elements {
		if drop(el) {
			continue
		}
		if len(el.Children) > 0 {
			if el.Children = filter(el.Children, drop); len(el.Children) == 0 {
				el.Children = nil
			}
		}
		out = append(out, el)
	}
	return out
}
