package document

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multiformat/pkg/design"
)

func loadSale(t *testing.T) *Document {
	t.Helper()
	doc, err := Load(filepath.Join("testdata", "sale.json"))
	require.NoError(t, err)
	return doc
}

func TestDecode(t *testing.T) {
	doc := loadSale(t)

	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, design.EditModeGlobal, doc.Mode)
	require.Len(t, doc.Elements, 4)

	bg := doc.Elements[0]
	assert.Equal(t, design.TypeBackground, bg.Type)
	assert.Equal(t, "#fdf6e3", bg.Style.Fill)

	title := doc.Elements[1]
	assert.Equal(t, "Summer sale", title.Content)
	assert.Equal(t, 72.0, title.Style.FontSize)
	assert.Equal(t, "g-title", title.LinkedElementID)
	assert.Equal(t, design.ConstraintPair{Horizontal: design.HorizontalCenter, Vertical: design.VerticalTop}, title.Constraints)

	logo := doc.Elements[2]
	assert.Equal(t, "logo.png", logo.Src)
	assert.Equal(t, 2.0, logo.Style.AspectRatio)

	card := doc.Elements[3]
	require.Len(t, card.Children, 1)
	cta := card.Children[0]
	assert.Equal(t, design.TypeButton, cta.Type)
	assert.Equal(t, "Shop now", cta.Content)
	assert.Equal(t, "card", cta.ParentID)
	assert.True(t, cta.InContainer)
	assert.Equal(t, "post", cta.SizeID, "children inherit the size of their container")
}

func TestDocument_Active(t *testing.T) {
	doc := loadSale(t)
	assert.Equal(t, []string{"post", "story"}, doc.Active().Names())

	doc.ActiveSizes = nil
	assert.Equal(t, []string{"post", "story", "banner"}, doc.Active().Names())

	size, ok := doc.Size("banner")
	require.True(t, ok)
	assert.Equal(t, 1920.0, size.Width)
	_, ok = doc.Size("billboard")
	assert.False(t, ok)
}

func TestRoundTrip(t *testing.T) {
	doc := loadSale(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))
	assert.Contains(t, buf.String(), `"kind": "button"`)

	back, err := Decode(&buf)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(doc, back))
}

func TestSave(t *testing.T) {
	doc := loadSale(t)
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, Save(path, doc))
	back, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(doc.Elements, back.Elements))
}

func TestDecode_Rejects(t *testing.T) {
	tests := map[string]struct {
		input string
		want  string
	}{
		"unknown kind": {
			input: `{"version":1,"sizes":[{"name":"a","width":1,"height":1}],"elements":[{"kind":"video","id":"v","sizeId":"a"}]}`,
			want:  "unknown layer kind",
		},
		"unknown child kind": {
			input: `{"version":1,"sizes":[{"name":"a","width":1,"height":1}],"elements":[{"kind":"layout","id":"l","sizeId":"a","children":[{"kind":"sound"}]}]}`,
			want:  "unknown layer kind",
		},
		"newer version": {
			input: `{"version":7,"sizes":[],"elements":[]}`,
			want:  "newer than supported",
		},
		"duplicate size": {
			input: `{"version":1,"sizes":[{"name":"a","width":1,"height":1},{"name":"a","width":2,"height":2}],"elements":[]}`,
			want:  "declared twice",
		},
		"zero size": {
			input: `{"version":1,"sizes":[{"name":"a","width":0,"height":1}],"elements":[]}`,
			want:  "invalid dimensions",
		},
		"undeclared active size": {
			input: `{"version":1,"sizes":[{"name":"a","width":1,"height":1}],"activeSizes":["b"],"elements":[]}`,
			want:  "not declared",
		},
		"element on undeclared size": {
			input: `{"version":1,"sizes":[{"name":"a","width":1,"height":1}],"elements":[{"kind":"shape","id":"s","sizeId":"b"}]}`,
			want:  "undeclared size",
		},
		"bad constraint": {
			input: `{"version":1,"sizes":[{"name":"a","width":1,"height":1}],"elements":[{"kind":"shape","id":"s","sizeId":"a","constraints":{"horizontal":"diagonal"}}]}`,
			want:  "diagonal",
		},
		"bad mode": {
			input: `{"version":1,"sizes":[],"mode":"solo","elements":[]}`,
			want:  "edit mode",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLayerOf_UnknownType(t *testing.T) {
	_, err := LayerOf(design.Element{ID: "x", Type: "hologram"})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDecodeElement(t *testing.T) {
	el, err := DecodeElement([]byte(`{"kind": "button", "id": "cta", "sizeId": "post", "label": "Go",
		"geometry": {"x": 10, "y": 20, "width": 100, "height": 40}}`))
	require.NoError(t, err)
	assert.Equal(t, design.TypeButton, el.Type)
	assert.Equal(t, "Go", el.Content)
	assert.Equal(t, 100.0, el.Geometry.Width)

	_, err = DecodeElement([]byte(`{"kind": "video"}`))
	assert.ErrorIs(t, err, ErrUnknownKind)
}
