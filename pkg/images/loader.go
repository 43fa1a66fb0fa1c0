package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"multiformat/pkg/design"
)

// Cache caches decoded images. Relative paths resolve against the cache's
// base directory, usually the directory of the design document.
type Cache struct {
	base  string
	mu    sync.RWMutex
	cache map[string]image.Image
}

// NewCache creates a cache resolving relative paths against base.
func NewCache(base string) *Cache {
	return &Cache{base: base, cache: make(map[string]image.Image)}
}

// Load returns the image at src, a file path or a data: URI.
func (c *Cache) Load(src string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.cache[src]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	var (
		img image.Image
		err error
	)
	if IsDataURI(src) {
		img, err = LoadImageFromDataURI(src)
	} else {
		img, err = c.loadFile(src)
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[src] = img
	c.mu.Unlock()
	return img, nil
}

func (c *Cache) loadFile(src string) (image.Image, error) {
	path := src
	if !filepath.IsAbs(path) && c.base != "" {
		path = filepath.Join(c.base, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Dimensions returns the pixel width and height of the image at src.
func (c *Cache) Dimensions(src string) (width, height int, err error) {
	img, err := c.Load(src)
	if err != nil {
		return 0, 0, err
	}
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy(), nil
}

// AspectRatio returns the natural width/height ratio of the image at src.
func (c *Cache) AspectRatio(src string) (float64, error) {
	w, h, err := c.Dimensions(src)
	if err != nil {
		return 0, err
	}
	if h == 0 {
		return 0, fmt.Errorf("image %s has zero height", src)
	}
	return float64(w) / float64(h), nil
}

// IsDataURI reports whether s is a data: URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// LoadImageFromDataURI decodes a base64 data: URI.
func LoadImageFromDataURI(uri string) (image.Image, error) {
	if !IsDataURI(uri) {
		return nil, fmt.Errorf("not a data URI")
	}
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, fmt.Errorf("data URI has no payload")
	}
	meta, payload := uri[len("data:"):comma], uri[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("only base64 data URIs are supported")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	return img, err
}

// WithNaturalAspect returns a copy of elements where every image and logo
// without a stored aspect ratio gets the natural ratio of its source image.
// Elements whose image cannot be loaded keep their style; their errors are
// joined into the returned error.
func WithNaturalAspect(elements []design.Element, c *Cache) ([]design.Element, error) {
	out := design.CloneAll(elements)
	var errs []error
	var fill func([]design.Element)
	fill = func(els []design.Element) {
		for i := range els {
			el := &els[i]
			if el.Type.IsImageLike() && el.Style.AspectRatio <= 0 && el.Src != "" {
				ratio, err := c.AspectRatio(el.Src)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", el.ID, err))
				} else {
					el.Style.AspectRatio = ratio
				}
			}
			fill(el.Children)
		}
	}
	fill(out)
	return out, errors.Join(errs...)
}
