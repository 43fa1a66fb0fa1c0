package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multiformat/pkg/design"
	"multiformat/pkg/document"
)

const testDesign = `{
  "version": 1,
  "sizes": [
    {"name": "post", "width": 1080, "height": 1080},
    {"name": "story", "width": 1080, "height": 1920}
  ],
  "activeSizes": ["post", "story"],
  "mode": "global",
  "elements": [
    {"kind": "text", "id": "title", "sizeId": "post", "text": "Summer sale", "fontSize": 40,
     "geometry": {"x": 100, "y": 100, "width": 400, "height": 100}},
    {"kind": "logo", "id": "logo", "sizeId": "post", "src": "logo.png", "aspectRatio": 2,
     "geometry": {"x": 940, "y": 40, "width": 100, "height": 50}}
  ]
}`

func writeDesign(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "design.json")
	require.NoError(t, os.WriteFile(path, []byte(testDesign), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decode(t *testing.T, s string) *document.Document {
	t.Helper()
	doc, err := document.Decode(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

// linked writes a design with title linked to every active size.
func linked(t *testing.T) string {
	t.Helper()
	path := writeDesign(t)
	_, err := run(t, "link", "title", "--design", path, "--out", path)
	require.NoError(t, err)
	return path
}

func instanceOn(t *testing.T, doc *document.Document, id, sizeID string) design.Element {
	t.Helper()
	var linkedID string
	for _, el := range doc.Elements {
		if el.ID == id {
			linkedID = el.LinkedElementID
		}
	}
	for _, el := range doc.Elements {
		if el.SizeID == sizeID && (el.ID == id || (linkedID != "" && el.LinkedElementID == linkedID)) {
			return el
		}
	}
	t.Fatalf("no instance of %s on %s", id, sizeID)
	return design.Element{}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestAnalyze(t *testing.T) {
	path := writeDesign(t)

	out, err := run(t, "analyze", "--design", path)
	require.NoError(t, err)
	var reports []sizeReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "post", reports[0].Size.Name)
	require.Len(t, reports[0].Elements, 2)
	assert.Equal(t, design.HorizontalRight, reports[0].Elements[1].Inferred.Horizontal)
	assert.Empty(t, reports[1].Elements)

	out, err = run(t, "analyze", "--design", path, "--size", "story")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	assert.Len(t, reports, 1)
}

func TestTransform(t *testing.T) {
	out, err := run(t, "transform", "title", "--to", "story", "--design", writeDesign(t))
	require.NoError(t, err)

	var placement struct {
		Path     string          `json:"path"`
		Geometry design.Geometry `json:"geometry"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &placement))
	assert.Equal(t, "same-orientation", placement.Path)
	assert.Positive(t, placement.Geometry.Width)
}

func TestLinkEditPropagates(t *testing.T) {
	path := linked(t)

	out, err := run(t, "edit", "title", "--x", "200", "--y", "100", "--width", "400", "--height", "100", "--design", path)
	require.NoError(t, err)
	doc := decode(t, out)

	require.Len(t, doc.Elements, 3)
	assert.InDelta(t, 200, instanceOn(t, doc, "title", "post").Geometry.X, 0.5)
	assert.InDelta(t, 200, instanceOn(t, doc, "title", "story").Geometry.X, 0.5)
}

func TestUnlinkRelink(t *testing.T) {
	path := linked(t)

	_, err := run(t, "unlink", "title", "--design", path, "--out", path)
	require.NoError(t, err)
	doc, err := document.Load(path)
	require.NoError(t, err)
	assert.True(t, instanceOn(t, doc, "title", "post").IndividuallyPositioned)

	out, err := run(t, "relink", "title", "--design", path)
	require.NoError(t, err)
	assert.False(t, instanceOn(t, decode(t, out), "title", "post").IndividuallyPositioned)

	_, err = run(t, "reanalyze", "title", "--design", path)
	assert.NoError(t, err)
}

func TestCreateAndRemove(t *testing.T) {
	path := writeDesign(t)

	out, err := run(t, "create", "--design", path, "--size", "post",
		"--layer", `{"kind": "shape", "id": "badge", "fill": "#ff0000", "geometry": {"x": 20, "y": 980, "width": 80, "height": 80}}`)
	require.NoError(t, err)
	assert.Len(t, decode(t, out).Elements, 4)

	out, err = run(t, "create", "--design", path, "--size", "post", "--mode", "individual",
		"--layer", `{"kind": "shape", "id": "badge", "geometry": {"x": 20, "y": 980, "width": 80, "height": 80}}`)
	require.NoError(t, err)
	assert.Len(t, decode(t, out).Elements, 3)

	path = linked(t)
	out, err = run(t, "remove", "title", "--design", path, "--mode", "individual")
	require.NoError(t, err)
	assert.Len(t, decode(t, out).Elements, 2)

	out, err = run(t, "remove", "title", "--design", path)
	require.NoError(t, err)
	assert.Len(t, decode(t, out).Elements, 1)
}

func TestScript(t *testing.T) {
	path := writeDesign(t)
	src := filepath.Join(t.TempDir(), "link.js")
	require.NoError(t, os.WriteFile(src, []byte(`multiformat.link("title");`), 0o644))

	out, err := run(t, "script", src, "--design", path)
	require.NoError(t, err)
	assert.Len(t, decode(t, out).Elements, 3)
}

func TestPreview(t *testing.T) {
	path := linked(t)
	dir := filepath.Join(t.TempDir(), "previews")

	out, err := run(t, "preview", "--design", path, "--out", dir)
	require.NoError(t, err)
	files := strings.Fields(out)
	require.Len(t, files, 2)
	for _, f := range files {
		assert.FileExists(t, f)
	}

	sheet := filepath.Join(t.TempDir(), "sheet", "all.png")
	_, err = run(t, "preview", "--design", path, "--sheet", "--out", sheet)
	require.NoError(t, err)
	assert.FileExists(t, sheet)
}

func TestErrors(t *testing.T) {
	path := writeDesign(t)
	tests := map[string]struct {
		args []string
		want string
	}{
		"missing design":   {args: []string{"analyze", "--design", filepath.Join(t.TempDir(), "nope.json")}, want: "loading design"},
		"unknown element":  {args: []string{"link", "ghost", "--design", path}, want: "element not found"},
		"unknown size":     {args: []string{"transform", "title", "--to", "billboard", "--design", path}, want: "unknown canvas size"},
		"bad mode":         {args: []string{"remove", "title", "--mode", "sometimes", "--design", path}, want: "edit mode"},
		"not linked":       {args: []string{"unlink", "title", "--design", path}, want: "not linked"},
		"missing flag":     {args: []string{"edit", "title", "--x", "1", "--design", path}, want: "required flag"},
		"bad layer":        {args: []string{"create", "--layer", `{"kind": "video"}`, "--size", "post", "--design", path}, want: "unknown layer kind"},
		"missing config":   {args: []string{"analyze", "--config", filepath.Join(t.TempDir(), "none.yaml"), "--design", path}, want: "config"},
		"unknown preview":  {args: []string{"preview", "--size", "billboard", "--design", path}, want: "unknown size"},
		"missing script":   {args: []string{"script", filepath.Join(t.TempDir(), "none.js"), "--design", path}, want: "none.js"},
		"unknown analysis": {args: []string{"analyze", "--size", "billboard", "--design", path}, want: "unknown canvas size"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
