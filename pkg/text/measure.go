package text

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontConfig holds paths to font files used for preview text. Empty paths
// use the bundled Go fonts.
type FontConfig struct {
	Regular string
	Bold    string
}

var (
	builtinOnce sync.Once
	builtin     map[bool]*truetype.Font
	builtinErr  error
)

func builtinFonts() (map[bool]*truetype.Font, error) {
	builtinOnce.Do(func() {
		regular, err := truetype.Parse(goregular.TTF)
		if err != nil {
			builtinErr = err
			return
		}
		bold, err := truetype.Parse(gobold.TTF)
		if err != nil {
			builtinErr = err
			return
		}
		builtin = map[bool]*truetype.Font{false: regular, true: bold}
	})
	return builtin, builtinErr
}

type faceKey struct {
	size float64
	bold bool
}

// Fonts hands out font faces by size and weight. Faces are cached; a Fonts
// value must not be shared between goroutines.
type Fonts struct {
	cfg   FontConfig
	fonts map[bool]*truetype.Font
	faces map[faceKey]font.Face
}

// NewFonts parses the configured font files, falling back to the bundled
// fonts for any weight without a path.
func NewFonts(cfg FontConfig) (*Fonts, error) {
	fonts, err := builtinFonts()
	if err != nil {
		return nil, fmt.Errorf("parsing bundled fonts: %w", err)
	}
	f := &Fonts{
		cfg:   cfg,
		fonts: map[bool]*truetype.Font{false: fonts[false], true: fonts[true]},
		faces: make(map[faceKey]font.Face),
	}
	for bold, path := range map[bool]string{false: cfg.Regular, true: cfg.Bold} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		parsed, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		f.fonts[bold] = parsed
	}
	return f, nil
}

// Face returns the face for size points.
func (f *Fonts) Face(size float64, bold bool) font.Face {
	key := faceKey{size: size, bold: bold}
	if face, ok := f.faces[key]; ok {
		return face
	}
	face := truetype.NewFace(f.fonts[bold], &truetype.Options{Size: size})
	f.faces[key] = face
	return face
}

// Measure returns the width and height of text set at size.
func (f *Fonts) Measure(text string, size float64, bold bool) (width, height float64) {
	if size <= 0 {
		return 0, 0
	}
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(f.Face(size, bold))
	return dc.MeasureString(text)
}

// BreakLines wraps text into lines no wider than maxWidth. A single word
// wider than maxWidth gets a line of its own.
func (f *Fonts) BreakLines(text string, size float64, bold bool, maxWidth float64) []string {
	if w, _ := f.Measure(text, size, bold); w <= maxWidth {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	var (
		lines   []string
		current string
	)
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if w, _ := f.Measure(candidate, size, bold); w <= maxWidth || current == "" {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
