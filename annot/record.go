package annot

import (
	"errors"
	"fmt"
)

// ErrRecord reports a record missing required fields or carrying wrong
// types for its declared annotation kind.
var ErrRecord = errors.New("malformed annotation record")

// Record is the type-tagged, PDF-space serializable form of one
// annotation. It maps directly to one JSON object in a template file.
// Screen-space geometry is never stored.
type Record map[string]any

// FromRecord parses a record back into a fresh annotation. Required
// fields missing for the declared type fail with ErrRecord; optional text
// fields fall back to documented defaults (bundled font, rotation 0,
// emphasis flags off, no background).
func FromRecord(rend Renderer, rec Record) (Annotation, error) {
	kind, ok := rec.str("type")
	if !ok {
		return nil, fmt.Errorf(`%w: missing "type"`, ErrRecord)
	}
	switch kind {
	case KindText.String():
		return textFromRecord(rend, rec)
	case KindImage.String():
		return imageFromRecord(rend, rec)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrRecord, kind)
	}
}

func textFromRecord(rend Renderer, rec Record) (*Text, error) {
	text, ok := rec.str("text")
	if !ok {
		return nil, fmt.Errorf(`%w: text record missing "text"`, ErrRecord)
	}
	x, okX := rec.num("x")
	y, okY := rec.num("y")
	size, okSize := rec.num("font_size")
	color, okColor := rec.str("color")
	if !okX || !okY || !okSize || !okColor {
		return nil, fmt.Errorf("%w: text record missing geometry, font_size or color", ErrRecord)
	}

	cfg := TextConfig{
		Text:     text,
		X:        x,
		Y:        y,
		FontSize: int(size),
		Color:    color,
	}
	if path, ok := rec.str("font_path"); ok {
		cfg.FontPath = path
	}
	if rot, ok := rec.num("rotation"); ok {
		cfg.Rotation = int(rot)
	}
	cfg.Bold, _ = rec.boolean("bold")
	cfg.Italic, _ = rec.boolean("italic")
	cfg.Underline, _ = rec.boolean("underline")
	if bg, ok := rec.str("background"); ok {
		cfg.Background = bg
	}
	return NewText(rend, cfg)
}

func imageFromRecord(rend Renderer, rec Record) (*Image, error) {
	path, okPath := rec.str("image_path")
	x, okX := rec.num("x")
	y, okY := rec.num("y")
	w, okW := rec.num("width")
	h, okH := rec.num("height")
	if !okPath || !okX || !okY || !okW || !okH {
		return nil, fmt.Errorf("%w: image record missing image_path or geometry", ErrRecord)
	}
	return NewImage(rend, ImageConfig{Path: path, X: x, Y: y, Width: w, Height: h})
}

func (r Record) str(key string) (string, bool) {
	v, ok := r[key].(string)
	return v, ok
}

func (r Record) boolean(key string) (bool, bool) {
	v, ok := r[key].(bool)
	return v, ok
}

// num accepts the numeric shapes that reach us: float64 from JSON
// decoding and int from records built in process.
func (r Record) num(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
