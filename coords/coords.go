// Package coords holds the coordinate arithmetic shared by every annotation:
// affine matrices for rotation rendering and the PDF-space / screen-space
// scale conversion that all geometry mutation goes through.
package coords

import (
	"errors"
	"math"
)

// Matrix is a 2x3 affine transform in the usual PDF ordering
// [a b c d e f].
type Matrix [6]float64

func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[1]*o[2],
		m[0]*o[1] + m[1]*o[3],
		m[2]*o[0] + m[3]*o[2],
		m[2]*o[1] + m[3]*o[3],
		m[4]*o[0] + m[5]*o[2] + o[4],
		m[4]*o[1] + m[5]*o[3] + o[5],
	}
}

// Point is a position in PDF space.
type Point struct{ X, Y float64 }

func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

func (m Matrix) Inverse() (Matrix, error) {
	det := m[0]*m[3] - m[1]*m[2]
	if math.Abs(det) < 1e-10 {
		return Matrix{}, errors.New("matrix singular")
	}
	return Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}, nil
}

func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }

func Scale(sx, sy float64) Matrix { return Matrix{sx, 0, 0, sy, 0, 0} }

func Rotate(angle float64) Matrix {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Matrix{c, s, -s, c, 0, 0}
}

// Rect is an axis-aligned rectangle in PDF space, top-left origin.
type Rect struct{ X0, Y0, X1, Y1 float64 }

func (r Rect) Width() float64  { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// ToScreen converts a PDF-space value to device pixels at the given zoom.
// Screen geometry is always derived this way; it is never authoritative.
func ToScreen(pdf, scale float64) int {
	return int(math.Round(pdf * scale))
}

// ToPDF converts a device-pixel value back to PDF space. The caller must
// guarantee scale > 0.
func ToPDF(screen int, scale float64) float64 {
	return float64(screen) / scale
}
