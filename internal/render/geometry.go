package render

import (
	"gonum.org/v1/gonum/spatial/r2"

	"split-analyzer/pkg/geometry"
)

// ExtendLength returns how far the extension reaches from P1 in each
// direction on a canvas of the given size. The canvas diagonal is the
// longest distance between two canvas points, so a segment of this half
// length centred on any point inside the canvas crosses it completely.
// It deliberately exceeds max(width, height): that length leaves a P1 in one
// corner short of the opposite corner.
func ExtendLength(size geometry.Size) float64 {
	return size.Diagonal()
}

// Extension returns the segment P1 - u*L .. P1 + u*L where u is the unit
// direction from p1 to p2 and L is ExtendLength(size). Points are in pixels.
// It returns false when p1 and p2 coincide and the direction is undefined.
func Extension(p1, p2 geometry.Point2D, size geometry.Size) (geometry.Segment, bool) {
	a, b := vec(p1), vec(p2)
	d := r2.Sub(b, a)
	if r2.Norm(d) == 0 {
		return geometry.Segment{}, false
	}

	u := r2.Scale(ExtendLength(size), r2.Unit(d))
	return geometry.Segment{
		A: point(r2.Sub(a, u)),
		B: point(r2.Add(a, u)),
	}, true
}

// Boundary returns the part of the line through p1 and p2 that lies on the
// canvas: the split boundary the analysis service cuts along.
func Boundary(p1, p2 geometry.Point2D, size geometry.Size) (geometry.Segment, bool) {
	ext, ok := Extension(p1, p2, size)
	if !ok {
		return geometry.Segment{}, false
	}
	return geometry.ClipSegment(ext, size.Bounds())
}

func vec(p geometry.Point2D) r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

func point(v r2.Vec) geometry.Point2D { return geometry.Point2D{X: v.X, Y: v.Y} }
