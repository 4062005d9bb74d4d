package annot

import (
	"fmt"
	"image"

	"github.com/wudi/annotkit/coords"
	"github.com/wudi/annotkit/raster"
)

// DefaultFontPath is the bundled Burmese font used when a record or
// config names none.
const DefaultFontPath = "pyidaungsu.ttf"

const (
	MinFontSize = 6
	MaxFontSize = 72
)

// TextConfig carries the construction parameters for a text annotation.
// X and Y are the PDF-space top-left corner.
type TextConfig struct {
	Text       string
	X, Y       float64
	FontSize   int
	Color      string
	FontPath   string
	Rotation   int
	Bold       bool
	Italic     bool
	Underline  bool
	Background string // empty means no fill
}

// Text is a text annotation rendered via image compositing. The emphasis
// flags (bold, italic, underline) are stored and round-tripped through
// templates but not applied by the rasterizer.
type Text struct {
	rend Renderer

	text       string
	fontSize   int
	color      string
	fontPath   string
	rotation   int
	bold       bool
	italic     bool
	underline  bool
	background string

	pdfX, pdfY float64
	x, y, w, h int
	scale      float64
	img        *image.NRGBA
	selected   bool
}

// NewText constructs a text annotation and immediately renders it at scale
// 1.0, which both determines its native PDF-space size and validates the
// font resource and content.
func NewText(rend Renderer, cfg TextConfig) (*Text, error) {
	if cfg.FontPath == "" {
		cfg.FontPath = DefaultFontPath
	}
	t := &Text{
		rend:       rend,
		text:       cfg.Text,
		fontSize:   clampFontSize(cfg.FontSize),
		color:      cfg.Color,
		fontPath:   cfg.FontPath,
		rotation:   cfg.Rotation,
		bold:       cfg.Bold,
		italic:     cfg.Italic,
		underline:  cfg.Underline,
		background: cfg.Background,
		pdfX:       cfg.X,
		pdfY:       cfg.Y,
		scale:      1.0,
	}
	if err := t.RenderAtScale(1.0); err != nil {
		return nil, err
	}
	return t, nil
}

func clampFontSize(size int) int {
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}

func (t *Text) Kind() Kind { return KindText }

func (t *Text) RenderAtScale(scale float64) error {
	if scale <= 0 {
		return fmt.Errorf("non-positive scale %v", scale)
	}
	img, err := t.rend.RenderText(raster.TextSpec{
		Text:       t.text,
		FontPath:   t.fontPath,
		FontSize:   t.fontSize,
		Scale:      scale,
		Color:      t.color,
		Background: t.background,
		Rotation:   t.rotation,
	})
	if err != nil {
		return err
	}
	t.scale = scale
	t.img = img
	t.x = coords.ToScreen(t.pdfX, scale)
	t.y = coords.ToScreen(t.pdfY, scale)
	t.w = img.Bounds().Dx()
	t.h = img.Bounds().Dy()
	return nil
}

func (t *Text) Move(dx, dy int) {
	t.x += dx
	t.y += dy
	t.pdfX = coords.ToPDF(t.x, t.scale)
	t.pdfY = coords.ToPDF(t.y, t.scale)
}

func (t *Text) MoveTo(pdfX, pdfY float64) {
	t.pdfX = pdfX
	t.pdfY = pdfY
	t.x = coords.ToScreen(pdfX, t.scale)
	t.y = coords.ToScreen(pdfY, t.scale)
}

func (t *Text) ContainsPoint(p image.Point) bool {
	return containsInclusive(p, t.x, t.y, t.w, t.h)
}

func (t *Text) PDFOrigin() (float64, float64)    { return t.pdfX, t.pdfY }
func (t *Text) ScreenRect() (int, int, int, int) { return t.x, t.y, t.w, t.h }
func (t *Text) Scale() float64                   { return t.scale }
func (t *Text) Image() *image.NRGBA              { return t.img }
func (t *Text) Selected() bool                   { return t.selected }
func (t *Text) SetSelected(sel bool)             { t.selected = sel }

func (t *Text) Content() string { return t.text }
func (t *Text) FontSize() int   { return t.fontSize }
func (t *Text) Color() string   { return t.color }
func (t *Text) Rotation() int   { return t.rotation }

// SetText replaces the content and re-renders at the current scale.
// On failure the previous content and pixels are kept.
func (t *Text) SetText(text string) error {
	prev := t.text
	t.text = text
	if err := t.RenderAtScale(t.scale); err != nil {
		t.text = prev
		return err
	}
	return nil
}

// SetColor changes the glyph color and re-renders.
func (t *Text) SetColor(color string) error {
	prev := t.color
	t.color = color
	if err := t.RenderAtScale(t.scale); err != nil {
		t.color = prev
		return err
	}
	return nil
}

// SetFontSize changes the PDF-space point size (clamped to 6..72) and
// re-renders.
func (t *Text) SetFontSize(size int) error {
	prev := t.fontSize
	t.fontSize = clampFontSize(size)
	if err := t.RenderAtScale(t.scale); err != nil {
		t.fontSize = prev
		return err
	}
	return nil
}

// SetRotation changes the rotation in degrees and re-renders.
func (t *Text) SetRotation(degrees int) error {
	prev := t.rotation
	t.rotation = degrees
	if err := t.RenderAtScale(t.scale); err != nil {
		t.rotation = prev
		return err
	}
	return nil
}

func (t *Text) Record() Record {
	var background any
	if t.background != "" {
		background = t.background
	}
	return Record{
		"type":       KindText.String(),
		"text":       t.text,
		"x":          t.pdfX,
		"y":          t.pdfY,
		"font_size":  t.fontSize,
		"color":      t.color,
		"font_path":  t.fontPath,
		"rotation":   t.rotation,
		"bold":       t.bold,
		"italic":     t.italic,
		"underline":  t.underline,
		"background": background,
	}
}
