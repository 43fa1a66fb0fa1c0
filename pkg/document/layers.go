package document

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"multiformat/pkg/design"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUnknownKind is returned for layers whose kind is not a known element type.
var ErrUnknownKind = errors.New("unknown layer kind")

// Layer is one element as it appears in a design document. Each concrete
// layer type carries only the fields that make sense for its kind.
type Layer interface {
	Base() LayerBase
	Element() design.Element
}

// LayerBase holds the fields every layer kind shares.
type LayerBase struct {
	Kind                   design.ElementType    `json:"kind"`
	ID                     string                `json:"id"`
	Name                   string                `json:"name,omitempty"`
	SizeID                 string                `json:"sizeId,omitempty"`
	LinkedElementID        string                `json:"linkedElementId,omitempty"`
	IndividuallyPositioned bool                  `json:"isIndividuallyPositioned,omitempty"`
	Geometry               design.Geometry       `json:"geometry"`
	Constraints            design.ConstraintPair `json:"constraints"`
}

func (b LayerBase) Base() LayerBase { return b }

func (b LayerBase) element() design.Element {
	return design.Element{
		ID:                     b.ID,
		Type:                   b.Kind,
		Name:                   b.Name,
		SizeID:                 b.SizeID,
		LinkedElementID:        b.LinkedElementID,
		IndividuallyPositioned: b.IndividuallyPositioned,
		Geometry:               b.Geometry,
		Constraints:            b.Constraints,
	}
}

func baseOf(el design.Element) LayerBase {
	return LayerBase{
		Kind:                   el.Type,
		ID:                     el.ID,
		Name:                   el.Name,
		SizeID:                 el.SizeID,
		LinkedElementID:        el.LinkedElementID,
		IndividuallyPositioned: el.IndividuallyPositioned,
		Geometry:               el.Geometry,
		Constraints:            el.Constraints,
	}
}

// TextLayer is a block of text.
type TextLayer struct {
	LayerBase
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize,omitempty"`
	Color    string  `json:"color,omitempty"`
}

func (l TextLayer) Element() design.Element {
	el := l.element()
	el.Content = l.Text
	el.Style = design.Style{FontSize: l.FontSize, Color: l.Color}
	return el
}

// ImageLayer is an image or a logo. AspectRatio is the natural width/height
// of the source; zero means it is taken from the geometry.
type ImageLayer struct {
	LayerBase
	Src         string  `json:"src"`
	AspectRatio float64 `json:"aspectRatio,omitempty"`
}

func (l ImageLayer) Element() design.Element {
	el := l.element()
	el.Src = l.Src
	el.Style = design.Style{AspectRatio: l.AspectRatio}
	return el
}

// ShapeLayer is a filled shape or a button with an optional label.
type ShapeLayer struct {
	LayerBase
	Fill     string  `json:"fill,omitempty"`
	Label    string  `json:"label,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
	Color    string  `json:"color,omitempty"`
}

func (l ShapeLayer) Element() design.Element {
	el := l.element()
	el.Content = l.Label
	el.Style = design.Style{Fill: l.Fill, FontSize: l.FontSize, Color: l.Color}
	return el
}

// GroupLayer is a container or layout owning child layers whose geometry is
// relative to the group.
type GroupLayer struct {
	LayerBase
	Fill     string `json:"fill,omitempty"`
	Children Layers `json:"children,omitempty"`
}

func (l GroupLayer) Element() design.Element {
	el := l.element()
	el.Style = design.Style{Fill: l.Fill}
	for _, child := range l.Children {
		c := child.Element()
		c.InContainer = true
		c.ParentID = l.ID
		if c.SizeID == "" {
			c.SizeID = l.SizeID
		}
		el.Children = append(el.Children, c)
	}
	return el
}

// BackgroundLayer covers its whole canvas with a colour or an image.
type BackgroundLayer struct {
	LayerBase
	Fill string `json:"fill,omitempty"`
	Src  string `json:"src,omitempty"`
}

func (l BackgroundLayer) Element() design.Element {
	el := l.element()
	el.Src = l.Src
	el.Style = design.Style{Fill: l.Fill}
	return el
}

// Layers decodes a JSON array of layers of mixed kinds.
type Layers []Layer

// UnmarshalJSON dispatches every entry on its kind.
func (ls *Layers) UnmarshalJSON(b []byte) error {
	var raws []jsoniter.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return err
	}
	out := make(Layers, 0, len(raws))
	for i, raw := range raws {
		l, err := decodeLayer(raw)
		if err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
		out = append(out, l)
	}
	*ls = out
	return nil
}

func decodeLayer(raw []byte) (Layer, error) {
	kind := design.ElementType(json.Get(raw, "kind").ToString())

	var (
		l   Layer
		err error
	)
	switch kind {
	case design.TypeText:
		var t TextLayer
		err = json.Unmarshal(raw, &t)
		l = t
	case design.TypeImage, design.TypeLogo:
		var i ImageLayer
		err = json.Unmarshal(raw, &i)
		l = i
	case design.TypeShape, design.TypeButton:
		var s ShapeLayer
		err = json.Unmarshal(raw, &s)
		l = s
	case design.TypeContainer, design.TypeLayout:
		var g GroupLayer
		err = json.Unmarshal(raw, &g)
		l = g
	case design.TypeBackground:
		var bg BackgroundLayer
		err = json.Unmarshal(raw, &bg)
		l = bg
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// DecodeElement decodes a single layer.
func DecodeElement(raw []byte) (design.Element, error) {
	l, err := decodeLayer(raw)
	if err != nil {
		return design.Element{}, err
	}
	return l.Element(), nil
}

// LayerOf converts an element back into its document layer.
func LayerOf(el design.Element) (Layer, error) {
	base := baseOf(el)
	switch el.Type {
	case design.TypeText:
		return TextLayer{LayerBase: base, Text: el.Content, FontSize: el.Style.FontSize, Color: el.Style.Color}, nil
	case design.TypeImage, design.TypeLogo:
		return ImageLayer{LayerBase: base, Src: el.Src, AspectRatio: el.Style.AspectRatio}, nil
	case design.TypeShape, design.TypeButton:
		return ShapeLayer{LayerBase: base, Fill: el.Style.Fill, Label: el.Content,
			FontSize: el.Style.FontSize, Color: el.Style.Color}, nil
	case design.TypeContainer, design.TypeLayout:
		g := GroupLayer{LayerBase: base, Fill: el.Style.Fill}
		for _, child := range el.Children {
			l, err := LayerOf(child)
			if err != nil {
				return nil, err
			}
			g.Children = append(g.Children, l)
		}
		return g, nil
	case design.TypeBackground:
		return BackgroundLayer{LayerBase: base, Fill: el.Style.Fill, Src: el.Src}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, el.Type)
	}
}
