package annot

import (
	"fmt"
	"image"

	"github.com/wudi/annotkit/coords"
)

// MinResizePx is the smallest screen dimension an interactive resize may
// produce.
const MinResizePx = 20

// ResizeHandlePx is the side of the square hit region anchored at the
// bottom-right corner.
const ResizeHandlePx = 10

// ImageConfig carries the construction parameters for an image annotation.
// Width and Height are PDF-space; zero means "use the loaded buffer size".
type ImageConfig struct {
	Path          string
	X, Y          float64
	Width, Height float64
}

// Image is an image annotation. The decoded source buffer is downsampled
// once at load time if oversized; display buffers are always resampled
// from that source so repeated renders at one scale are identical.
type Image struct {
	rend Renderer
	path string
	src  *image.NRGBA

	pdfX, pdfY float64
	pdfW, pdfH float64
	x, y, w, h int
	scale      float64
	img        *image.NRGBA
	selected   bool
}

// NewImage loads (and if necessary downsamples) the source file and places
// the annotation in PDF space.
func NewImage(rend Renderer, cfg ImageConfig) (*Image, error) {
	src, err := rend.LoadImage(cfg.Path)
	if err != nil {
		return nil, err
	}
	a := &Image{
		rend:  rend,
		path:  cfg.Path,
		src:   src,
		pdfX:  cfg.X,
		pdfY:  cfg.Y,
		pdfW:  cfg.Width,
		pdfH:  cfg.Height,
		scale: 1.0,
	}
	if a.pdfW <= 0 || a.pdfH <= 0 {
		a.pdfW = float64(src.Bounds().Dx())
		a.pdfH = float64(src.Bounds().Dy())
	}
	if err := a.RenderAtScale(1.0); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Image) Kind() Kind { return KindImage }

func (a *Image) RenderAtScale(scale float64) error {
	if scale <= 0 {
		return fmt.Errorf("non-positive scale %v", scale)
	}
	w := coords.ToScreen(a.pdfW, scale)
	h := coords.ToScreen(a.pdfH, scale)
	if a.img == nil || w != a.w || h != a.h {
		a.img = a.rend.Resample(a.src, w, h)
	}
	a.scale = scale
	a.x = coords.ToScreen(a.pdfX, scale)
	a.y = coords.ToScreen(a.pdfY, scale)
	a.w = w
	a.h = h
	return nil
}

func (a *Image) Move(dx, dy int) {
	a.x += dx
	a.y += dy
	a.pdfX = coords.ToPDF(a.x, a.scale)
	a.pdfY = coords.ToPDF(a.y, a.scale)
}

func (a *Image) MoveTo(pdfX, pdfY float64) {
	a.pdfX = pdfX
	a.pdfY = pdfY
	a.x = coords.ToScreen(pdfX, a.scale)
	a.y = coords.ToScreen(pdfY, a.scale)
}

// Resize sets the screen-space dimensions (clamped to the 20px minimum),
// rederives the PDF-space size and resamples the display buffer.
func (a *Image) Resize(w, h int) {
	if w < MinResizePx {
		w = MinResizePx
	}
	if h < MinResizePx {
		h = MinResizePx
	}
	a.w = w
	a.h = h
	a.pdfW = coords.ToPDF(w, a.scale)
	a.pdfH = coords.ToPDF(h, a.scale)
	a.img = a.rend.Resample(a.src, w, h)
}

func (a *Image) ContainsPoint(p image.Point) bool {
	return containsInclusive(p, a.x, a.y, a.w, a.h)
}

// OnResizeHandle reports whether the point is inside the fixed-size square
// at the bottom-right corner.
func (a *Image) OnResizeHandle(p image.Point) bool {
	return containsInclusive(p, a.x+a.w-ResizeHandlePx, a.y+a.h-ResizeHandlePx, ResizeHandlePx, ResizeHandlePx)
}

func (a *Image) PDFOrigin() (float64, float64)    { return a.pdfX, a.pdfY }
func (a *Image) PDFSize() (float64, float64)      { return a.pdfW, a.pdfH }
func (a *Image) ScreenRect() (int, int, int, int) { return a.x, a.y, a.w, a.h }
func (a *Image) Scale() float64                   { return a.scale }
func (a *Image) Image() *image.NRGBA              { return a.img }
func (a *Image) Selected() bool                   { return a.selected }
func (a *Image) SetSelected(sel bool)             { a.selected = sel }
func (a *Image) Path() string                     { return a.path }

func (a *Image) Record() Record {
	return Record{
		"type":       KindImage.String(),
		"image_path": a.path,
		"x":          a.pdfX,
		"y":          a.pdfY,
		"width":      a.pdfW,
		"height":     a.pdfH,
	}
}
