package design

import "fmt"

// ElementType drives the special cases of cross-size transformation.
type ElementType string

const (
	TypeText       ElementType = "text"
	TypeImage      ElementType = "image"
	TypeLogo       ElementType = "logo"
	TypeButton     ElementType = "button"
	TypeShape      ElementType = "shape"
	TypeContainer  ElementType = "container"
	TypeLayout     ElementType = "layout"
	TypeBackground ElementType = "background"
)

// IsImageLike reports whether the element must keep its aspect ratio.
func (t ElementType) IsImageLike() bool {
	return t == TypeImage || t == TypeLogo
}

// IsContainer reports whether the element may own children.
func (t ElementType) IsContainer() bool {
	return t == TypeContainer || t == TypeLayout
}

// IsBackground reports whether the element always covers its whole canvas.
func (t ElementType) IsBackground() bool {
	return t == TypeBackground
}

// Style carries the presentation fields the engine reads or rewrites.
type Style struct {
	FontSize    float64 `json:"fontSize,omitempty"`
	AspectRatio float64 `json:"aspectRatio,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	Color       string  `json:"color,omitempty"`
}

// Element is one instance of a design element on one canvas size.
type Element struct {
	ID                     string         `json:"id"`
	Type                   ElementType    `json:"type"`
	Name                   string         `json:"name,omitempty"`
	SizeID                 string         `json:"sizeId"`
	LinkedElementID        string         `json:"linkedElementId,omitempty"`
	IndividuallyPositioned bool           `json:"isIndividuallyPositioned,omitempty"`
	InContainer            bool           `json:"inContainer,omitempty"`
	ParentID               string         `json:"parentId,omitempty"`
	Geometry               Geometry       `json:"geometry"`
	Constraints            ConstraintPair `json:"constraints"`
	Style                  Style          `json:"style"`
	Content                string         `json:"content,omitempty"`
	Src                    string         `json:"src,omitempty"`
	Children               []Element      `json:"children,omitempty"`
}

// IsLinked reports whether the element belongs to a linked group.
func (e Element) IsLinked() bool {
	return e.LinkedElementID != ""
}

// Propagates reports whether edits to siblings should reach this instance.
func (e Element) Propagates() bool {
	return e.IsLinked() && !e.IndividuallyPositioned
}

// Clone returns a deep copy; children are copied by value so the clone never
// aliases the original.
func (e Element) Clone() Element {
	if e.Geometry.Percent != nil {
		p := *e.Geometry.Percent
		e.Geometry.Percent = &p
	}
	if e.Children != nil {
		children := make([]Element, len(e.Children))
		for i, c := range e.Children {
			children[i] = c.Clone()
		}
		e.Children = children
	}
	return e
}

// WithGeometry returns a copy of e with the given geometry.
func (e Element) WithGeometry(g Geometry) Element {
	e = e.Clone()
	e.Geometry = g
	return e
}

func (e Element) String() string {
	return fmt.Sprintf("%s[%s@%s]", e.Type, e.ID, e.SizeID)
}

// CloneAll deep-copies a collection.
func CloneAll(elements []Element) []Element {
	if elements == nil {
		return nil
	}
	out := make([]Element, len(elements))
	for i, el := range elements {
		out[i] = el.Clone()
	}
	return out
}

// EditMode selects whether an edit reaches every linked instance or only the
// instance being edited.
type EditMode int

const (
	EditModeGlobal EditMode = iota
	EditModeIndividual
)

func (m EditMode) String() string {
	if m == EditModeIndividual {
		return "individual"
	}
	return "global"
}

// MarshalText implements encoding.TextMarshaler.
func (m EditMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *EditMode) UnmarshalText(b []byte) error {
	parsed, err := ParseEditMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseEditMode accepts "global", "individual" or "" (global).
func ParseEditMode(s string) (EditMode, error) {
	switch s {
	case "", "global":
		return EditModeGlobal, nil
	case "individual":
		return EditModeIndividual, nil
	}
	return EditModeGlobal, fmt.Errorf("unknown edit mode %q", s)
}
