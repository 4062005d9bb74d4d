// Package raster renders annotation content to pixel buffers. Text is
// shaped with HarfBuzz (complex scripts such as Burmese come out correct)
// and rasterized from glyph outlines; images are decoded, downsampled and
// resampled with high-quality filters. This is the layer that replaces
// native PDF text objects with composited raster overlays.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	gofont "github.com/go-text/typesetting/font"

	"github.com/wudi/annotkit/observability"
)

var (
	// ErrFontLoad reports a missing or unparseable font resource.
	ErrFontLoad = errors.New("font load failed")
	// ErrEmptyText reports text that would render to zero-size geometry.
	ErrEmptyText = errors.New("empty text")
	// ErrImageLoad reports an unreadable or corrupt image file.
	ErrImageLoad = errors.New("image load failed")
	// ErrBadColor reports a color spec that is neither a known name nor hex.
	ErrBadColor = errors.New("unknown color")
)

// DefaultMaxImageDim bounds decoded image buffers: sources larger than this
// on either side are downsampled at load time, preserving aspect ratio.
const DefaultMaxImageDim = 500

// Renderer caches parsed font faces and performs all rasterization.
// It is not safe for concurrent use; all rendering happens on the event
// dispatch goroutine.
type Renderer struct {
	maxImageDim int
	logger      observability.Logger
	faces       map[string]*gofont.Face
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMaxImageDim overrides the load-time downsampling bound.
func WithMaxImageDim(dim int) Option {
	return func(r *Renderer) {
		if dim > 0 {
			r.maxImageDim = dim
		}
	}
}

// WithLogger sets the logger. The default is NopLogger.
func WithLogger(l observability.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// New returns a Renderer with an empty face cache.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		maxImageDim: DefaultMaxImageDim,
		logger:      observability.NopLogger{},
		faces:       make(map[string]*gofont.Face),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Face returns the parsed face for a font path, loading and caching it on
// first use. Failures wrap ErrFontLoad.
func (r *Renderer) Face(path string) (*gofont.Face, error) {
	if face, ok := r.faces[path]; ok {
		return face, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFontLoad, path, err)
	}
	face, err := gofont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFontLoad, path, err)
	}
	r.faces[path] = face
	return face, nil
}
