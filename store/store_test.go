package store

import (
	"image"
	"testing"

	"github.com/wudi/annotkit/annot"
)

// boxAnnot is a minimal Annotation covering a fixed screen rectangle.
type boxAnnot struct {
	x, y, w, h int
	selected   bool
}

func (b *boxAnnot) Kind() annot.Kind                   { return annot.KindText }
func (b *boxAnnot) RenderAtScale(float64) error        { return nil }
func (b *boxAnnot) Move(dx, dy int)                    { b.x += dx; b.y += dy }
func (b *boxAnnot) MoveTo(x, y float64)                { b.x, b.y = int(x), int(y) }
func (b *boxAnnot) PDFOrigin() (float64, float64)      { return float64(b.x), float64(b.y) }
func (b *boxAnnot) ScreenRect() (int, int, int, int)   { return b.x, b.y, b.w, b.h }
func (b *boxAnnot) Scale() float64                     { return 1 }
func (b *boxAnnot) Image() *image.NRGBA                { return nil }
func (b *boxAnnot) Selected() bool                     { return b.selected }
func (b *boxAnnot) SetSelected(sel bool)               { b.selected = sel }
func (b *boxAnnot) Record() annot.Record               { return annot.Record{"type": "text"} }

func (b *boxAnnot) ContainsPoint(p image.Point) bool {
	return p.X >= b.x && p.X <= b.x+b.w && p.Y >= b.y && p.Y <= b.y+b.h
}

func TestNewPageStoreEmptySequences(t *testing.T) {
	s := NewPageStore(3)
	if s.PageCount() != 3 {
		t.Fatalf("expected 3 pages, got %d", s.PageCount())
	}
	for i := 0; i < 3; i++ {
		if s.Len(i) != 0 {
			t.Errorf("page %d should start empty", i)
		}
	}
}

func TestHitTestTopmostFirst(t *testing.T) {
	s := NewPageStore(1)
	a := &boxAnnot{x: 0, y: 0, w: 50, h: 50}
	b := &boxAnnot{x: 25, y: 25, w: 50, h: 50}
	s.Add(0, a)
	s.Add(0, b)

	if got := s.HitTest(0, image.Pt(30, 30)); got != annot.Annotation(b) {
		t.Errorf("expected the later annotation on top, got %v", got)
	}
	if got := s.HitTest(0, image.Pt(5, 5)); got != annot.Annotation(a) {
		t.Errorf("expected the only covering annotation, got %v", got)
	}
	if got := s.HitTest(0, image.Pt(500, 500)); got != nil {
		t.Errorf("expected nil for empty space, got %v", got)
	}
}

func TestSelectIsExclusive(t *testing.T) {
	s := NewPageStore(1)
	a := &boxAnnot{w: 10, h: 10}
	b := &boxAnnot{w: 10, h: 10}
	s.Add(0, a)
	s.Add(0, b)

	s.Select(a)
	s.Select(b)
	if a.Selected() {
		t.Error("previous selection must be cleared")
	}
	if !b.Selected() || s.Selected() != annot.Annotation(b) {
		t.Error("new selection not applied")
	}

	s.Select(nil)
	if b.Selected() || s.Selected() != nil {
		t.Error("nil must clear the selection")
	}
}

func TestRemoveByIdentity(t *testing.T) {
	s := NewPageStore(2)
	a := &boxAnnot{w: 10, h: 10}
	s.Add(0, a)
	s.Select(a)

	s.Remove(0, a)
	if s.Len(0) != 0 {
		t.Error("annotation not removed")
	}
	if s.Selected() != nil || a.Selected() {
		t.Error("removing the selection must clear it")
	}

	// All of these are silent no-ops.
	s.Remove(0, a)
	s.Remove(5, a)
	s.Remove(1, nil)
}

func TestExportOrder(t *testing.T) {
	s := NewPageStore(1)
	s.Add(0, &boxAnnot{x: 1, w: 5, h: 5})
	s.Add(0, &boxAnnot{x: 2, w: 5, h: 5})

	records := s.Export(0)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if s.Export(9) != nil {
		t.Error("out-of-range export should be nil")
	}
}

func TestAddOutOfRange(t *testing.T) {
	s := NewPageStore(1)
	s.Add(-1, &boxAnnot{})
	s.Add(3, &boxAnnot{})
	if s.Len(0) != 0 {
		t.Error("out-of-range adds must not land anywhere")
	}
}
