package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPixelNormalizedRoundTrip(t *testing.T) {
	sizes := []Size{
		NewSize(600, 400),
		NewSize(1, 1),
		NewSize(333, 777),
		NewSize(1920, 1080),
	}
	for _, size := range sizes {
		for x := 0.0; x <= 1.0; x += 0.125 {
			for y := 0.0; y <= 1.0; y += 0.2 {
				n := NewPoint2D(x, y)
				got := n.ToPixel(size).ToNormalized(size)
				assert.InDelta(t, n.X, got.X, 1e-12, "size %v x", size)
				assert.InDelta(t, n.Y, got.Y, 1e-12, "size %v y", size)
			}
		}
	}
}

func TestToPixel(t *testing.T) {
	p := NewPoint2D(0.25, 0.25).ToPixel(NewSize(600, 400))
	assert.Equal(t, NewPoint2D(150, 100), p)
}

func TestToNormalizedZeroSize(t *testing.T) {
	p := NewPoint2D(10, 20).ToNormalized(Size{})
	assert.Equal(t, Point2D{}, p)
}

func TestRound(t *testing.T) {
	assert.Equal(t, PointInt{X: 2, Y: -3}, NewPoint2D(1.5, -2.5).Round())
	assert.Equal(t, PointInt{X: 0, Y: 1}, NewPoint2D(0.49, 0.51).Round())
}

func TestSizeHelpers(t *testing.T) {
	s := NewSize(300, 400)
	assert.Equal(t, 400.0, s.Max())
	assert.Equal(t, 500.0, s.Diagonal())
	assert.False(t, s.IsZero())
	assert.True(t, NewSize(0, 10).IsZero())
	assert.Equal(t, NewRect(0, 0, 300, 400), s.Bounds())
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 20)
	assert.True(t, r.Contains(NewPoint2D(10, 10)))
	assert.True(t, r.Contains(NewPoint2D(30, 30)))
	assert.False(t, r.Contains(NewPoint2D(31, 15)))
	assert.Equal(t, NewPoint2D(20, 20), r.Center())
}
