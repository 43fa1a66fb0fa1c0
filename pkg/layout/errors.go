package layout

import "errors"

var (
	// ErrInvalidCanvasSize is returned for sizes with zero, negative or
	// infinite dimensions.
	ErrInvalidCanvasSize = errors.New("invalid canvas size")
	// ErrInvalidGeometry is returned when an element's geometry contains
	// NaN or Inf, or a computation would produce one.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrUnknownSize is returned when an element's sizeId names no active size.
	ErrUnknownSize = errors.New("unknown canvas size")
	// ErrElementNotFound is returned when an id matches no element.
	ErrElementNotFound = errors.New("element not found")
	// ErrDanglingLink is returned when a linkedElementId has no instance.
	ErrDanglingLink = errors.New("dangling linked element id")
	// ErrNotLinked is returned by operations that need a linked instance.
	ErrNotLinked = errors.New("element is not linked")
	// ErrAlreadyLinked is returned when linking an element that already has
	// siblings.
	ErrAlreadyLinked = errors.New("element is already linked")
	// ErrNestedElement is returned when linking a child directly; children
	// are linked through their container.
	ErrNestedElement = errors.New("element is nested in a container")
)
