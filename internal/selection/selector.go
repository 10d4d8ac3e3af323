// Package selection holds the ordered pair of points that defines a split line.
package selection

import (
	"split-analyzer/pkg/geometry"
)

// Capacity is the number of points that make a complete selection.
const Capacity = 2

// Selector is an ordered set of at most two normalized points.
// Adding a third point starts a new selection containing only that point.
// The zero value is ready to use.
type Selector struct {
	points []geometry.Point2D
}

// New returns an empty selector.
func New() *Selector {
	return &Selector{points: make([]geometry.Point2D, 0, Capacity)}
}

// Add appends p. When the selection is already complete it is cleared first.
func (s *Selector) Add(p geometry.Point2D) {
	if len(s.points) >= Capacity {
		s.points = s.points[:0]
	}
	s.points = append(s.points, p)
}

// Reset clears all points. Resetting an empty selection is a no-op.
func (s *Selector) Reset() {
	s.points = s.points[:0]
}

// Count returns the number of selected points (0, 1 or 2).
func (s *Selector) Count() int {
	return len(s.points)
}

// Complete reports whether two points are selected.
func (s *Selector) Complete() bool {
	return len(s.points) == Capacity
}

// Points returns a copy of the selected points in click order.
func (s *Selector) Points() []geometry.Point2D {
	out := make([]geometry.Point2D, len(s.points))
	copy(out, s.points)
	return out
}
