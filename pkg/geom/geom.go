// Package geom provides the small set of plane-geometry value types shared by
// the viewport controller and its host-surface adapters.
package geom

import "math"

// Point is a position or displacement in 2D screen or world space.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the point translated by other.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the displacement from other to p.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(scalar float64) Point {
	return Point{X: p.X * scalar, Y: p.Y * scalar}
}

// Dist returns the Euclidean distance between p and other.
// math.Hypot keeps the result stable for very large or very small components.
func (p Point) Dist(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Mid returns the midpoint between p and other.
func (p Point) Mid(other Point) Point {
	return Point{X: (p.X + other.X) / 2, Y: (p.Y + other.Y) / 2}
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// RectOf is shorthand for Rect{x, y, w, h}.
func RectOf(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Center returns the geometric center of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Inset returns the rectangle shrunk by margin on every side. The result may
// have negative dimensions when margin exceeds half the extent; callers that
// divide by the result are expected to check Empty first.
func (r Rect) Inset(margin float64) Rect {
	return Rect{
		X:      r.X + margin,
		Y:      r.Y + margin,
		Width:  r.Width - 2*margin,
		Height: r.Height - 2*margin,
	}
}

// Contains reports whether p lies inside the rectangle (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Empty reports whether the rectangle has no interior.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}
