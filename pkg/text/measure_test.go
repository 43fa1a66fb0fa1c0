package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFonts_Measure(t *testing.T) {
	fonts, err := NewFonts(FontConfig{})
	require.NoError(t, err)

	small, _ := fonts.Measure("Summer sale", 12, false)
	large, h := fonts.Measure("Summer sale", 48, false)
	assert.Greater(t, small, 0.0)
	assert.InEpsilon(t, 4*small, large, 0.1)
	assert.Greater(t, h, 0.0)

	w, h := fonts.Measure("anything", 0, false)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestFonts_FaceIsCached(t *testing.T) {
	fonts, err := NewFonts(FontConfig{})
	require.NoError(t, err)
	assert.Same(t, fonts.Face(20, true), fonts.Face(20, true))
}

func TestFonts_BreakLines(t *testing.T) {
	fonts, err := NewFonts(FontConfig{})
	require.NoError(t, err)

	text := "Fresh deals every single day of the summer"
	width, _ := fonts.Measure("Fresh deals every", 24, false)

	lines := fonts.BreakLines(text, 24, false, width)
	require.Greater(t, len(lines), 1)
	assert.Equal(t, text, strings.Join(lines, " "))
	for _, line := range lines {
		w, _ := fonts.Measure(line, 24, false)
		assert.LessOrEqual(t, w, width)
	}

	assert.Equal(t, []string{"short"}, fonts.BreakLines("short", 24, false, 1000))
	assert.Equal(t, []string{"Unbreakable"}, fonts.BreakLines("Unbreakable", 24, false, 5))
}

func TestNewFonts_MissingFile(t *testing.T) {
	_, err := NewFonts(FontConfig{Regular: "/does/not/exist.ttf"})
	assert.Error(t, err)
}
