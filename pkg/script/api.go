package script

import (
	"fmt"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"multiformat/pkg/design"
	"multiformat/pkg/document"
	"multiformat/pkg/geom"
	"multiformat/pkg/layout"
)

// register sets up the global `multiformat` object.
//
//	analyze(size?)             layout report for size, default first active
//	transform(id, size)        placement of id on size, nothing is modified
//	propagate(id)              push id's geometry in `design` to its group
//	link(id) / unlink(id)      manage linked groups
//	edit(id, {x, y, width, height})
//	create(layer) / remove(id) use the document's editing mode
//
// Mutating calls update `design` and return the new element collection.
func (s *session) register() {
	api := s.vm.NewObject()
	api.Set("analyze", s.analyze)
	api.Set("transform", s.transform)
	api.Set("propagate", s.mutate("propagate", 1, func(doc *document.Document, args []goja.Value) ([]design.Element, error) {
		edited, ok := layout.Find(doc.Elements, args[0].String())
		if !ok {
			return nil, fmt.Errorf("%w: %s", layout.ErrElementNotFound, args[0].String())
		}
		return s.engine.Propagate(doc.Elements, edited, doc.Active())
	}))
	api.Set("link", s.mutate("link", 1, func(doc *document.Document, args []goja.Value) ([]design.Element, error) {
		return s.engine.LinkExisting(doc.Elements, args[0].String(), doc.Active())
	}))
	api.Set("unlink", s.mutate("unlink", 1, func(doc *document.Document, args []goja.Value) ([]design.Element, error) {
		return s.engine.Unlink(doc.Elements, args[0].String())
	}))
	api.Set("edit", s.mutate("edit", 2, func(doc *document.Document, args []goja.Value) ([]design.Element, error) {
		var r geom.Rect
		raw, err := json.Marshal(args[1].Export())
		if err == nil {
			err = json.Unmarshal(raw, &r)
		}
		if err != nil {
			return nil, fmt.Errorf("edit geometry: %w", err)
		}
		req := layout.EditRequest{ElementID: args[0].String(), Geometry: r}
		return s.engine.ApplyEdit(doc.Elements, req, doc.Active())
	}))
	api.Set("create", s.mutate("create", 1, func(doc *document.Document, args []goja.Value) ([]design.Element, error) {
		raw, err := json.Marshal(args[0].Export())
		if err != nil {
			return nil, err
		}
		el, err := document.DecodeElement(raw)
		if err != nil {
			return nil, err
		}
		target := goja.Undefined()
		if el.SizeID != "" {
			target = s.vm.ToValue(el.SizeID)
		}
		size := s.size(doc, target)
		return s.engine.Create(doc.Elements, el, size, doc.Active(), doc.Mode)
	}))
	api.Set("remove", s.mutate("remove", 1, func(doc *document.Document, args []goja.Value) ([]design.Element, error) {
		return s.engine.Remove(doc.Elements, args[0].String(), doc.Mode)
	}))
	s.vm.Set("multiformat", api)
}

func (s *session) requireArgs(name string, call goja.FunctionCall, n int) {
	if len(call.Arguments) < n {
		panic(s.vm.NewTypeError(fmt.Sprintf("multiformat.%s: %d argument(s) required", name, n)))
	}
}

func (s *session) size(doc *document.Document, v goja.Value) design.CanvasSize {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		active := doc.Active()
		if len(active) == 0 {
			s.throw(fmt.Errorf("%w: design has no sizes", layout.ErrUnknownSize))
		}
		return active[0]
	}
	size, ok := doc.Size(v.String())
	if !ok {
		s.throw(fmt.Errorf("%w: %q", layout.ErrUnknownSize, v.String()))
	}
	return size
}

func (s *session) document() *document.Document {
	doc, err := s.current()
	if err != nil {
		s.throw(err)
	}
	return doc
}

func (s *session) analyze(call goja.FunctionCall) goja.Value {
	doc := s.document()
	entries, err := s.engine.AnalyzeLayout(doc.Elements, s.size(doc, call.Argument(0)))
	if err != nil {
		s.throw(err)
	}
	return s.toJS(entries)
}

func (s *session) transform(call goja.FunctionCall) goja.Value {
	s.requireArgs("transform", call, 2)
	doc := s.document()
	el, ok := layout.Find(doc.Elements, call.Argument(0).String())
	if !ok {
		s.throw(fmt.Errorf("%w: %s", layout.ErrElementNotFound, call.Argument(0).String()))
	}
	source, ok := doc.Size(el.SizeID)
	if !ok || el.InContainer {
		s.throw(fmt.Errorf("%w: element %s is not placed on a canvas", layout.ErrUnknownSize, el.ID))
	}
	p, err := s.engine.Transform(el, source, s.size(doc, call.Argument(1)))
	if err != nil {
		s.throw(err)
	}
	return s.toJS(map[string]any{
		"geometry": p.Geometry,
		"fontSize": p.FontSize,
		"path":     p.Path.String(),
	})
}

type mutation func(doc *document.Document, args []goja.Value) ([]design.Element, error)

// mutate wraps an engine operation: it decodes `design`, applies fn and
// publishes the result.
func (s *session) mutate(name string, nargs int, fn mutation) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		s.requireArgs(name, call, nargs)
		doc := s.document()
		elements, err := fn(doc, call.Arguments)
		if err != nil {
			s.throw(fmt.Errorf("multiformat.%s: %w", name, err))
		}
		doc.Elements = elements
		if err := s.publish(doc); err != nil {
			s.throw(err)
		}
		s.logger.Debug("script mutation", zap.String("op", name), zap.Int("elements", len(elements)))
		return s.vm.Get("design").ToObject(s.vm).Get("elements")
	}
}
