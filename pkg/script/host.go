// Package script runs layout-suggestion scripts against a design document.
//
// A script sees the document as the global `design` (plain JS data in the
// document wire format) and drives the layout engine through the global
// `multiformat`. Whatever `design` holds when the script ends is decoded
// back into a document, so scripts may also edit it directly.
package script

import (
	"bytes"
	"fmt"

	"github.com/dop251/goja"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"multiformat/pkg/document"
	"multiformat/pkg/layout"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Host executes scripts with a layout engine. A Host is not safe for
// concurrent use; each Run gets a fresh runtime.
type Host struct {
	engine *layout.Engine
	logger *zap.Logger
}

// New creates a host driving engine. A nil logger discards console output.
func New(engine *layout.Engine, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{engine: engine, logger: logger.Named("script")}
}

// Run executes src against doc and returns the document the script left in
// `design`. doc itself is not modified.
func (h *Host) Run(doc *document.Document, src string) (*document.Document, error) {
	vm := goja.New()

	c := &consoleAPI{logger: h.logger}
	c.register(vm)

	s := &session{vm: vm, engine: h.engine, logger: h.logger}
	if err := s.publish(doc); err != nil {
		return nil, err
	}
	s.register()

	if _, err := vm.RunString(src); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	out, err := s.current()
	if err != nil {
		return nil, fmt.Errorf("script left an invalid design: %w", err)
	}
	return out, nil
}

// session binds one runtime to the engine for the duration of a run.
type session struct {
	vm     *goja.Runtime
	engine *layout.Engine
	logger *zap.Logger
}

// publish replaces the `design` global with doc in wire form.
func (s *session) publish(doc *document.Document) error {
	var buf bytes.Buffer
	if err := document.Encode(&buf, doc); err != nil {
		return err
	}
	var data map[string]any
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		return err
	}
	return s.vm.Set("design", data)
}

// current decodes the `design` global.
func (s *session) current() (*document.Document, error) {
	raw, err := json.Marshal(s.vm.Get("design").Export())
	if err != nil {
		return nil, err
	}
	return document.Decode(bytes.NewReader(raw))
}

// toJS converts v to plain JS data through its JSON form, so field names
// match the document format.
func (s *session) toJS(v any) goja.Value {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(s.vm.NewGoError(err))
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		panic(s.vm.NewGoError(err))
	}
	return s.vm.ToValue(data)
}

func (s *session) throw(err error) {
	panic(s.vm.NewGoError(err))
}
