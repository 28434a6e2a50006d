package core

import "math"

// Position is a point in the 2D profile plane. The same type serves both
// real-space coordinates (arbitrary sky units) and Fourier-space
// wavenumbers, since profiles are evaluated in both domains.
type Position struct {
	X, Y float64
}

// Add returns the componentwise sum of two positions.
func (p Position) Add(q Position) Position {
	return Position{p.X + q.X, p.Y + q.Y}
}

// Sub returns the componentwise difference of two positions.
func (p Position) Sub(q Position) Position {
	return Position{p.X - q.X, p.Y - q.Y}
}

// Scale returns the position multiplied by s.
func (p Position) Scale(s float64) Position {
	return Position{p.X * s, p.Y * s}
}

// Dot returns the scalar product p·q.
func (p Position) Dot(q Position) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Norm returns the Euclidean distance from the origin.
func (p Position) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// Bounds is an integer-coordinate pixel rectangle, inclusive on all four
// sides. A Bounds with XMin > XMax or YMin > YMax is undefined (empty).
type Bounds struct {
	XMin, XMax, YMin, YMax int
}

// NewBoundsCentered returns square bounds of size n centered on the origin.
// For even n the extra pixel goes on the negative side, so pixel (0,0) sits
// at index n/2 in both directions.
func NewBoundsCentered(n int) Bounds {
	return Bounds{XMin: -(n / 2), XMax: n - n/2 - 1, YMin: -(n / 2), YMax: n - n/2 - 1}
}

// IsDefined reports whether the bounds contain at least one pixel.
func (b Bounds) IsDefined() bool {
	return b.XMin <= b.XMax && b.YMin <= b.YMax
}

// NumCols returns the number of pixel columns.
func (b Bounds) NumCols() int { return b.XMax - b.XMin + 1 }

// NumRows returns the number of pixel rows.
func (b Bounds) NumRows() int { return b.YMax - b.YMin + 1 }

// Area returns the number of pixels contained in the bounds.
func (b Bounds) Area() int {
	if !b.IsDefined() {
		return 0
	}
	return b.NumCols() * b.NumRows()
}

// Contains reports whether pixel (x, y) lies inside the bounds.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

// ContainsBounds reports whether b fully contains b2.
func (b Bounds) ContainsBounds(b2 Bounds) bool {
	return b2.IsDefined() &&
		b2.XMin >= b.XMin && b2.XMax <= b.XMax &&
		b2.YMin >= b.YMin && b2.YMax <= b.YMax
}

// Shift returns the bounds translated by (dx, dy).
func (b Bounds) Shift(dx, dy int) Bounds {
	return Bounds{b.XMin + dx, b.XMax + dx, b.YMin + dy, b.YMax + dy}
}
