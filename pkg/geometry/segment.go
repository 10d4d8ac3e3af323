package geometry

import "math"

// Segment is a straight line segment between two points.
type Segment struct {
	A Point2D `json:"a"`
	B Point2D `json:"b"`
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return s.A.Distance(s.B)
}

// DistanceToLine returns the perpendicular distance from p to the infinite
// line through a and b. If a and b coincide, it returns the distance to a.
func DistanceToLine(p, a, b Point2D) float64 {
	l := a.Distance(b)
	if l == 0 {
		return p.Distance(a)
	}
	return math.Abs(crossProduct(a, b, p)) / l
}

// ClipSegment clips s to r using the Liang-Barsky algorithm.
// It returns false when the segment lies entirely outside r.
func ClipSegment(s Segment, r Rect) (Segment, bool) {
	dx := s.B.X - s.A.X
	dy := s.B.Y - s.A.Y

	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, s.A.X - r.X},
		{dx, r.X + r.Width - s.A.X},
		{-dy, s.A.Y - r.Y},
		{dy, r.Y + r.Height - s.A.Y},
	}

	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			// Parallel to this edge: reject if outside it
			if q < 0 {
				return Segment{}, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return Segment{}, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return Segment{}, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}

	// Clamp away rounding error so clipped endpoints lie exactly on r
	return Segment{
		A: r.clamp(Point2D{X: s.A.X + t0*dx, Y: s.A.Y + t0*dy}),
		B: r.clamp(Point2D{X: s.A.X + t1*dx, Y: s.A.Y + t1*dy}),
	}, true
}

func (r Rect) clamp(p Point2D) Point2D {
	return Point2D{
		X: math.Min(math.Max(p.X, r.X), r.X+r.Width),
		Y: math.Min(math.Max(p.Y, r.Y), r.Y+r.Height),
	}
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
