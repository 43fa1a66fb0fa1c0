package script

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"multiformat/pkg/design"
	"multiformat/pkg/document"
	"multiformat/pkg/geom"
	"multiformat/pkg/layout"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newHost(t *testing.T) *Host {
	t.Helper()
	logger := zaptest.NewLogger(t)
	engine := layout.NewDefaultEngine(layout.WithIDGenerator(sequentialIDs()), layout.WithLogger(logger))
	return New(engine, logger)
}

func saleDoc() *document.Document {
	title := design.Element{
		ID:       "title",
		Type:     design.TypeText,
		SizeID:   "post",
		Content:  "Summer sale",
		Geometry: design.FromRect(geom.Rect{X: 100, Y: 100, Width: 400, Height: 100}),
		Style:    design.Style{FontSize: 40},
	}
	return &document.Document{
		Version: document.Version,
		Sizes: design.Sizes{
			{Name: "post", Width: 1080, Height: 1080},
			{Name: "story", Width: 1080, Height: 1920},
		},
		Mode:     design.EditModeGlobal,
		Elements: []design.Element{title},
	}
}

func elementOn(t *testing.T, elements []design.Element, sizeID string) design.Element {
	t.Helper()
	for _, el := range elements {
		if el.SizeID == sizeID {
			return el
		}
	}
	t.Fatalf("no element on %s", sizeID)
	return design.Element{}
}

func TestRun_Console(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	host := New(layout.NewDefaultEngine(), zap.New(core))

	out, err := host.Run(saleDoc(), `console.log("hello", 1); console.warn("careful")`)
	require.NoError(t, err)
	assert.Len(t, out.Elements, 1)

	assert.Equal(t, 1, logs.FilterMessage("hello 1").Len())
	warn := logs.FilterMessage("careful").All()
	require.Len(t, warn, 1)
	assert.Equal(t, zapcore.WarnLevel, warn[0].Level)
}

func TestRun_DesignGlobal(t *testing.T) {
	out, err := newHost(t).Run(saleDoc(), `
		if (design.sizes.length !== 2) throw new Error("sizes: " + design.sizes.length);
		var title = design.elements[0];
		if (title.kind !== "text") throw new Error("kind: " + title.kind);
		title.text = "Winter sale";
	`)
	require.NoError(t, err)
	assert.Equal(t, "Winter sale", out.Elements[0].Content)
}

func TestRun_Link(t *testing.T) {
	doc := saleDoc()
	out, err := newHost(t).Run(doc, `
		var els = multiformat.link("title");
		if (els.length !== 2) throw new Error("expected 2 instances, got " + els.length);
	`)
	require.NoError(t, err)
	require.Len(t, out.Elements, 2)

	post, story := elementOn(t, out.Elements, "post"), elementOn(t, out.Elements, "story")
	assert.True(t, post.IsLinked())
	assert.Equal(t, post.LinkedElementID, story.LinkedElementID)
	assert.Len(t, doc.Elements, 1, "input document must not change")
}

func TestRun_PropagateAfterDirectEdit(t *testing.T) {
	out, err := newHost(t).Run(saleDoc(), `
		multiformat.link("title");
		var before = design.elements.filter(function (e) { return e.sizeId === "story"; })[0].geometry.x;
		design.elements[0].geometry.x = 200;
		var els = multiformat.propagate("title");
		var after = els.filter(function (e) { return e.sizeId === "story"; })[0].geometry.x;
		if (after === before) throw new Error("story instance did not move");
	`)
	require.NoError(t, err)
	assert.InDelta(t, 200, elementOn(t, out.Elements, "post").Geometry.X, 0.5)
}

func TestRun_UnlinkAndEdit(t *testing.T) {
	out, err := newHost(t).Run(saleDoc(), `
		multiformat.link("title");
		multiformat.unlink("title");
		multiformat.edit("title", {x: 300, y: 100, width: 400, height: 100});
	`)
	require.NoError(t, err)

	post := elementOn(t, out.Elements, "post")
	assert.True(t, post.IndividuallyPositioned)
	assert.InDelta(t, 300, post.Geometry.X, 0.5)
	assert.InDelta(t, 100, elementOn(t, out.Elements, "story").Geometry.X, 0.5)
}

func TestRun_AnalyzeAndTransform(t *testing.T) {
	out, err := newHost(t).Run(saleDoc(), `
		var report = multiformat.analyze("post");
		if (report.length !== 1 || report[0].id !== "title") throw new Error("bad report");
		if (typeof report[0].quadrant !== "string") throw new Error("quadrant: " + report[0].quadrant);
		if (multiformat.analyze().length !== 1) throw new Error("default size");

		var p = multiformat.transform("title", "story");
		if (!(p.geometry.width > 0)) throw new Error("width: " + p.geometry.width);
		if (typeof p.path !== "string") throw new Error("path");
	`)
	require.NoError(t, err)
	require.Len(t, out.Elements, 1, "transform must not modify the design")
}

func TestRun_Errors(t *testing.T) {
	tests := map[string]struct {
		src  string
		want string
	}{
		"syntax error":       {src: `var = ;`, want: "script"},
		"thrown error":       {src: `throw new Error("boom")`, want: "boom"},
		"unknown element":    {src: `multiformat.link("nope")`, want: "element not found"},
		"unknown size":       {src: `multiformat.analyze("billboard")`, want: "unknown canvas size"},
		"missing argument":   {src: `multiformat.transform("title")`, want: "argument"},
		"propagate unknown":  {src: `multiformat.propagate("nope")`, want: "element not found"},
		"invalid design":     {src: `design.version = 99`, want: "invalid design"},
		"bad edit geometry":  {src: `multiformat.edit("title", "wide")`, want: "edit geometry"},
		"unlink not linked":  {src: `multiformat.unlink("title")`, want: "not linked"},
		"transform bad size": {src: `multiformat.transform("title", "billboard")`, want: "unknown canvas size"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := newHost(t).Run(saleDoc(), tc.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRun_CreateAndRemove(t *testing.T) {
	out, err := newHost(t).Run(saleDoc(), `
		var els = multiformat.create({kind: "shape", id: "badge", sizeId: "post", fill: "#ff0000",
			geometry: {x: 980, y: 40, width: 60, height: 60}});
		if (els.length !== 3) throw new Error("expected title plus two badges, got " + els.length);
		multiformat.remove("title");
	`)
	require.NoError(t, err)
	require.Len(t, out.Elements, 2)
	for _, el := range out.Elements {
		assert.Equal(t, design.TypeShape, el.Type)
		assert.True(t, el.IsLinked())
	}
	assert.Equal(t, design.HorizontalRight, elementOn(t, out.Elements, "story").Constraints.Horizontal)
}
