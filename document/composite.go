package document

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/wudi/annotkit/annot"
)

var (
	selectionColor = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	handleColor    = color.NRGBA{R: 0, G: 0, B: 255, A: 128}
)

// Composite renders a page at the session zoom with every annotation
// drawn on top in z-order, plus the selection box and resize handle.
// This is the interactive redraw path; export uses its own scale-1.0 pass.
func (s *Session) Composite(page int) (*image.NRGBA, error) {
	base, err := s.backend.RenderPage(page, s.zoom)
	if err != nil {
		return nil, err
	}

	for _, a := range s.annots.Page(page) {
		if err := a.RenderAtScale(s.zoom); err != nil {
			return nil, err
		}
		x, y, w, h := a.ScreenRect()
		draw.Draw(base, image.Rect(x, y, x+w, y+h), a.Image(), image.Point{}, draw.Over)

		if a.Selected() {
			outlineRect(base, x, y, w, h, selectionColor)
			if img, ok := a.(*annot.Image); ok {
				drawResizeHandle(base, img, s.zoom)
			}
		}
	}
	return base, nil
}

func drawResizeHandle(dst *image.NRGBA, a *annot.Image, zoom float64) {
	x, y, w, h := a.ScreenRect()
	size := int(math.Round(10 * zoom))
	if size < 5 {
		size = 5
	}
	fill := image.Rect(x+w-size, y+h-size, x+w, y+h).Intersect(dst.Bounds())
	draw.Draw(dst, fill, image.NewUniform(handleColor), image.Point{}, draw.Over)
}

// outlineRect draws a one-pixel rectangle outline, clipped to dst.
func outlineRect(dst *image.NRGBA, x, y, w, h int, c color.Color) {
	for px := x; px <= x+w; px++ {
		setIfInside(dst, px, y, c)
		setIfInside(dst, px, y+h, c)
	}
	for py := y; py <= y+h; py++ {
		setIfInside(dst, x, py, c)
		setIfInside(dst, x+w, py, c)
	}
}

func setIfInside(dst *image.NRGBA, x, y int, c color.Color) {
	if image.Pt(x, y).In(dst.Bounds()) {
		dst.Set(x, y, c)
	}
}
