// Package mapping converts pointer positions on a rendered canvas into
// normalized image coordinates and backing-store pixels.
package mapping

import (
	"errors"

	"split-analyzer/pkg/geometry"
)

// ErrLayoutNotReady is returned when the canvas has no rendered or backing size yet.
var ErrLayoutNotReady = errors.New("canvas layout not ready")

// PointerEvent is a pointer position in client (display) space.
type PointerEvent struct {
	ClientX float64
	ClientY float64
}

// Canvas describes a drawing surface whose backing store may be displayed
// at a different size than it was allocated at.
type Canvas struct {
	// Rendered rectangle in client space
	Left, Top      float64
	RenderedWidth  float64
	RenderedHeight float64

	// Backing-store size in device pixels, fixed per loaded image
	BackingWidth  int
	BackingHeight int
}

// MappedPoint holds both representations of a mapped pointer position.
type MappedPoint struct {
	Normalized geometry.Point2D
	Pixel      geometry.Point2D
}

// Ready reports whether both the rendered and backing sizes are non-zero.
func (c Canvas) Ready() bool {
	return c.RenderedWidth > 0 && c.RenderedHeight > 0 &&
		c.BackingWidth > 0 && c.BackingHeight > 0
}

// Backing returns the backing-store size.
func (c Canvas) Backing() geometry.Size {
	return geometry.NewSize(float64(c.BackingWidth), float64(c.BackingHeight))
}

// Scale returns the backing/rendered scale factors for each axis.
// The axes are independent because a constrained layout may stretch the
// rendered box away from the backing aspect ratio.
func (c Canvas) Scale() (scaleX, scaleY float64) {
	if !c.Ready() {
		return 0, 0
	}
	scaleX = float64(c.BackingWidth) / c.RenderedWidth
	scaleY = float64(c.BackingHeight) / c.RenderedHeight
	return
}

// Map converts a pointer event to normalized and backing-store pixel coordinates.
func Map(ev PointerEvent, c Canvas) (MappedPoint, error) {
	if !c.Ready() {
		return MappedPoint{}, ErrLayoutNotReady
	}

	scaleX, scaleY := c.Scale()
	pixel := geometry.Point2D{
		X: (ev.ClientX - c.Left) * scaleX,
		Y: (ev.ClientY - c.Top) * scaleY,
	}

	return MappedPoint{
		Normalized: pixel.ToNormalized(c.Backing()),
		Pixel:      pixel,
	}, nil
}

// Project converts a stored normalized point back to client space for the
// current rendered rectangle.
func (c Canvas) Project(normalized geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: c.Left + normalized.X*c.RenderedWidth,
		Y: c.Top + normalized.Y*c.RenderedHeight,
	}
}
