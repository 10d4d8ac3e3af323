// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
//
// Selection points are stored normalized (0..1 relative to the image);
// pixel positions are derived on demand with ToPixel.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Equal reports whether both coordinates are within tol of other's.
func (p Point2D) Equal(other Point2D, tol float64) bool {
	return math.Abs(p.X-other.X) <= tol && math.Abs(p.Y-other.Y) <= tol
}

// ToPixel converts a normalized point to pixel coordinates on a surface of the given size.
func (p Point2D) ToPixel(size Size) Point2D {
	return Point2D{X: p.X * size.Width, Y: p.Y * size.Height}
}

// ToNormalized converts a pixel point to coordinates relative to the given size.
// A zero dimension yields 0 on that axis.
func (p Point2D) ToNormalized(size Size) Point2D {
	var n Point2D
	if size.Width != 0 {
		n.X = p.X / size.Width
	}
	if size.Height != 0 {
		n.Y = p.Y / size.Height
	}
	return n
}

// PointInt represents a 2D point with integer coordinates.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ToFloat converts to Point2D.
func (p PointInt) ToFloat() Point2D {
	return Point2D{X: float64(p.X), Y: float64(p.Y)}
}

// Round converts to PointInt, rounding half away from zero.
func (p Point2D) Round() PointInt {
	return PointInt{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Size represents a 2D size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize creates a new Size.
func NewSize(width, height float64) Size {
	return Size{Width: width, Height: height}
}

// IsZero reports whether either dimension is zero or negative.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Max returns the larger of the two dimensions.
func (s Size) Max() float64 {
	return math.Max(s.Width, s.Height)
}

// Diagonal returns the length of the diagonal.
func (s Size) Diagonal() float64 {
	return math.Hypot(s.Width, s.Height)
}

// Bounds returns the rectangle at the origin with this size.
func (s Size) Bounds() Rect {
	return Rect{Width: s.Width, Height: s.Height}
}

// SizeInt represents a 2D size in whole pixels.
type SizeInt struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ToFloat converts to Size.
func (s SizeInt) ToFloat() Size {
	return Size{Width: float64(s.Width), Height: float64(s.Height)}
}
