// Package annot implements the annotation entities placed on PDF pages.
//
// Every annotation carries two linked sets of geometry: an authoritative,
// resolution-independent PDF-space position (and size, for images) and a
// derived screen-space rectangle at the current zoom. All mutation goes
// through methods so the two never drift apart: after any operation,
// screen == round(pdf * scale) holds.
package annot

import (
	"image"

	"github.com/wudi/annotkit/raster"
)

// Kind discriminates the two annotation variants.
type Kind int

const (
	KindText Kind = iota
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Renderer is the rasterization surface annotations depend on. The
// production implementation is *raster.Renderer; tests substitute fakes.
type Renderer interface {
	RenderText(spec raster.TextSpec) (*image.NRGBA, error)
	LoadImage(path string) (*image.NRGBA, error)
	LoadImageFull(path string) (*image.NRGBA, error)
	Resample(src *image.NRGBA, w, h int) *image.NRGBA
	EncodePNG(img image.Image) ([]byte, error)
}

var _ Renderer = (*raster.Renderer)(nil)

// Annotation is the capability surface shared by both variants.
// Image-specific operations (Resize, OnResizeHandle) live on *Image only;
// callers that need them must type-assert.
type Annotation interface {
	Kind() Kind

	// RenderAtScale recomputes the pixel buffer and the screen geometry
	// for the given zoom. It commits nothing on error, and calling it
	// twice with the same scale yields identical output.
	RenderAtScale(scale float64) error

	// Move shifts the annotation by screen-space deltas and rederives
	// the PDF position from the current scale.
	Move(dx, dy int)

	// MoveTo places the annotation at an absolute PDF-space position and
	// rederives the screen position.
	MoveTo(pdfX, pdfY float64)

	// ContainsPoint reports whether a screen point lies within the
	// annotation's axis-aligned bounds (inclusive). Rotation is ignored:
	// the hit box of rotated text is its expanded bounding rectangle.
	ContainsPoint(p image.Point) bool

	// PDFOrigin returns the authoritative PDF-space top-left corner.
	PDFOrigin() (x, y float64)

	// ScreenRect returns the derived screen-space geometry.
	ScreenRect() (x, y, w, h int)

	// Scale returns the zoom last used to derive screen geometry.
	Scale() float64

	// Image returns the current rendered pixel buffer.
	Image() *image.NRGBA

	Selected() bool
	SetSelected(bool)

	// Record returns the lossless PDF-space serializable form.
	Record() Record
}

func containsInclusive(p image.Point, x, y, w, h int) bool {
	return p.X >= x && p.X <= x+w && p.Y >= y && p.Y <= y+h
}
