package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	gofont "github.com/go-text/typesetting/font"
	otf "github.com/go-text/typesetting/font/opentype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/wudi/annotkit/coords"
	"github.com/wudi/annotkit/observability"
)

// TextSpec describes one text rendering request. Scale multiplies both the
// font size and the padding, so the same spec re-renders consistently at
// any zoom level.
type TextSpec struct {
	Text       string
	FontPath   string
	FontSize   int
	Scale      float64
	Color      string
	Background string // empty means transparent
	Rotation   int    // degrees counterclockwise
}

// textPadding is the PDF-space padding around rendered text, in pixels at
// scale 1.0.
const textPadding = 10

// RenderText shapes, rasterizes and (if requested) rotates the text into a
// fresh buffer. Rendering twice with the same spec yields identical pixels.
func (r *Renderer) RenderText(spec TextSpec) (*image.NRGBA, error) {
	start := time.Now()
	if spec.Text == "" {
		return nil, fmt.Errorf("%w: nothing to render", ErrEmptyText)
	}
	if spec.Scale <= 0 {
		return nil, fmt.Errorf("non-positive scale %v", spec.Scale)
	}
	face, err := r.Face(spec.FontPath)
	if err != nil {
		return nil, err
	}
	fg, err := ParseColor(spec.Color)
	if err != nil {
		return nil, err
	}

	sizePx := float64(spec.FontSize) * spec.Scale
	line := shapeLine(face, spec.Text, sizePx)
	if line.width <= 0 || line.ascent+line.descent <= 0 {
		return nil, fmt.Errorf("%w: %q shaped to zero-size geometry", ErrEmptyText, spec.Text)
	}

	pad := int(math.Round(textPadding * spec.Scale))
	img := image.NewNRGBA(image.Rect(0, 0, line.width+2*pad, line.ascent+line.descent+2*pad))

	if spec.Background != "" {
		bg, err := ParseColor(spec.Background)
		if err != nil {
			return nil, err
		}
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	drawGlyphs(img, face, line, sizePx, pad, pad+line.ascent, fg)

	if spec.Rotation%360 != 0 {
		img = RotateExpand(img, float64(spec.Rotation))
	}
	r.logger.Debug("text rendered",
		observability.Int("glyphs", len(line.glyphs)),
		observability.Float64(observability.MetricRenderTime, time.Since(start).Seconds()))
	return img, nil
}

// drawGlyphs rasterizes the shaped glyph outlines onto dst. Glyph outline
// coordinates are in font units with Y up; the rasterizer works in device
// pixels with Y down, so every point is scaled and flipped about the
// baseline.
func drawGlyphs(dst *image.NRGBA, face *gofont.Face, line shapedLine, sizePx float64, x0, baseline int, fg color.Color) {
	scale := sizePx / float64(face.Upem())
	rast := vector.NewRasterizer(dst.Bounds().Dx(), dst.Bounds().Dy())

	dot := float64(x0)
	for _, g := range line.glyphs {
		if outline, ok := face.GlyphData(g.GlyphID).(gofont.GlyphOutline); ok {
			ox := dot + fixedToFloat(g.XOffset)
			oy := float64(baseline) - fixedToFloat(g.YOffset)
			appendOutline(rast, outline, scale, ox, oy)
		}
		dot += fixedToFloat(g.XAdvance)
	}

	rast.Draw(dst, dst.Bounds(), image.NewUniform(fg), image.Point{})
}

func appendOutline(rast *vector.Rasterizer, outline gofont.GlyphOutline, scale, ox, oy float64) {
	open := false
	pt := func(p gofont.SegmentPoint) (float32, float32) {
		return float32(ox + float64(p.X)*scale), float32(oy - float64(p.Y)*scale)
	}
	for _, seg := range outline.Segments {
		switch seg.Op {
		case otf.SegmentOpMoveTo:
			if open {
				rast.ClosePath()
			}
			x, y := pt(seg.Args[0])
			rast.MoveTo(x, y)
			open = true
		case otf.SegmentOpLineTo:
			x, y := pt(seg.Args[0])
			rast.LineTo(x, y)
		case otf.SegmentOpQuadTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			rast.QuadTo(x1, y1, x2, y2)
		case otf.SegmentOpCubeTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			x3, y3 := pt(seg.Args[2])
			rast.CubeTo(x1, y1, x2, y2, x3, y3)
		}
	}
	if open {
		rast.ClosePath()
	}
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// RotateExpand rotates the image counterclockwise by the given angle in
// degrees, growing the canvas so no corner is clipped.
func RotateExpand(src *image.NRGBA, degrees float64) *image.NRGBA {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)

	w := float64(src.Bounds().Dx())
	h := float64(src.Bounds().Dy())
	nw := int(math.Ceil(math.Abs(w*cos) + math.Abs(h*sin)))
	nh := int(math.Ceil(math.Abs(w*sin) + math.Abs(h*cos)))

	// Map source pixels onto the expanded canvas, rotating about the
	// center. Positive angles turn counterclockwise on screen; screen Y
	// points down, so the angle is negated for the Y-up matrix.
	m := coords.Translate(-w/2, -h/2).
		Multiply(coords.Rotate(-rad)).
		Multiply(coords.Translate(float64(nw)/2, float64(nh)/2))
	s2d := f64.Aff3{
		m[0], m[2], m[4],
		m[1], m[3], m[5],
	}

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	xdraw.BiLinear.Transform(dst, s2d, src, src.Bounds(), xdraw.Over, nil)
	return dst
}
