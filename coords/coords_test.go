package coords

import (
	"math"
	"testing"
)

func TestScaleRoundTrip(t *testing.T) {
	scales := []float64{0.5, 1.0, 1.2, 2.0, 3.75}
	for _, s := range scales {
		pdf := 10.0
		screen := ToScreen(pdf, s)
		back := ToPDF(screen, s)
		if math.Abs(back-pdf)*s > 1.0 {
			t.Errorf("scale %v: round trip drifted more than one device pixel: %v -> %d -> %v", s, pdf, screen, back)
		}
	}
}

func TestToScreenRounds(t *testing.T) {
	if got := ToScreen(10.4, 1.0); got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
	if got := ToScreen(10.5, 1.0); got != 11 {
		t.Errorf("expected 11, got %d", got)
	}
	if got := ToScreen(10.0, 2.0); got != 20 {
		t.Errorf("expected 20, got %d", got)
	}
}

func TestMatrixInverse(t *testing.T) {
	m := Translate(3, 4).Multiply(Rotate(math.Pi / 3)).Multiply(Scale(2, 2))
	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("inverse failed: %v", err)
	}
	p := Point{X: 7, Y: -2}
	q := inv.Transform(m.Transform(p))
	if math.Abs(q.X-p.X) > 1e-9 || math.Abs(q.Y-p.Y) > 1e-9 {
		t.Errorf("expected %v back, got %v", p, q)
	}
}

func TestSingularMatrix(t *testing.T) {
	if _, err := Scale(0, 0).Inverse(); err == nil {
		t.Fatal("expected error for singular matrix")
	}
}
