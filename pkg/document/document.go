// Package document reads and writes multi-format design documents.
//
// A document lists the canvas sizes of a design, which of them are active in
// the editing session, the editing mode and the element instances. Elements
// are stored as layers tagged with their kind and converted to
// design.Element at the boundary.
package document

import (
	"fmt"
	"io"
	"os"

	"multiformat/pkg/design"
)

// Version is the document format written by Encode.
const Version = 1

// Document is a decoded design document.
type Document struct {
	Version     int
	Sizes       design.Sizes
	ActiveSizes []string
	Mode        design.EditMode
	Elements    []design.Element
}

type wireDocument struct {
	Version     int                 `json:"version"`
	Sizes       []design.CanvasSize `json:"sizes"`
	ActiveSizes []string            `json:"activeSizes,omitempty"`
	Mode        design.EditMode     `json:"mode"`
	Elements    Layers              `json:"elements"`
}

// Size looks up a canvas size by name.
func (d *Document) Size(name string) (design.CanvasSize, bool) {
	return d.Sizes.Lookup(name)
}

// Active returns the sizes of the editing session. With no explicit list
// every size is active.
func (d *Document) Active() design.Sizes {
	if len(d.ActiveSizes) == 0 {
		return append(design.Sizes(nil), d.Sizes...)
	}
	active := make(design.Sizes, 0, len(d.ActiveSizes))
	for _, name := range d.ActiveSizes {
		if size, ok := d.Sizes.Lookup(name); ok {
			active = append(active, size)
		}
	}
	return active
}

// Validate checks that sizes are usable and uniquely named and that every
// active size and every top-level element refers to a declared size.
func (d *Document) Validate() error {
	seen := make(map[string]bool, len(d.Sizes))
	for _, size := range d.Sizes {
		if size.Name == "" {
			return fmt.Errorf("size %gx%g has no name", size.Width, size.Height)
		}
		if seen[size.Name] {
			return fmt.Errorf("size %q declared twice", size.Name)
		}
		if !size.Valid() {
			return fmt.Errorf("size %q has invalid dimensions %gx%g", size.Name, size.Width, size.Height)
		}
		seen[size.Name] = true
	}
	for _, name := range d.ActiveSizes {
		if !seen[name] {
			return fmt.Errorf("active size %q is not declared", name)
		}
	}
	for _, el := range d.Elements {
		if !seen[el.SizeID] {
			return fmt.Errorf("element %s is on undeclared size %q", el.ID, el.SizeID)
		}
	}
	return nil
}

// Decode reads and validates a document.
func Decode(r io.Reader) (*Document, error) {
	var w wireDocument
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("decoding design: %w", err)
	}
	if w.Version > Version {
		return nil, fmt.Errorf("design version %d is newer than supported version %d", w.Version, Version)
	}

	doc := &Document{
		Version:     w.Version,
		Sizes:       w.Sizes,
		ActiveSizes: w.ActiveSizes,
		Mode:        w.Mode,
	}
	for _, l := range w.Elements {
		doc.Elements = append(doc.Elements, l.Element())
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc *Document) error {
	wire := wireDocument{
		Version:     Version,
		Sizes:       doc.Sizes,
		ActiveSizes: doc.ActiveSizes,
		Mode:        doc.Mode,
		Elements:    make(Layers, 0, len(doc.Elements)),
	}
	for _, el := range doc.Elements {
		l, err := LayerOf(el)
		if err != nil {
			return err
		}
		wire.Elements = append(wire.Elements, l)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(wire)
}

// Load decodes the document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Save encodes doc to path, replacing any existing file.
func Save(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
