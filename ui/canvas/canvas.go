// Package canvas provides the clickable image canvas for point selection.
package canvas

import (
	"errors"
	"image"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"split-analyzer/internal/analysis"
	"split-analyzer/internal/app"
	"split-analyzer/internal/mapping"
)

// placeholderSize is shown before an image is loaded.
var placeholderSize = fyne.NewSize(600, 400)

// SplitCanvas shows the session image with its selection overlay and turns
// taps into selection points. The backing store keeps the session's backing
// size; fyne stretches it to whatever size the widget is laid out at.
type SplitCanvas struct {
	widget.BaseWidget

	session *app.Session
	logger  *slog.Logger
	raster  *fynecanvas.Raster

	mu      sync.Mutex
	backing *image.RGBA
}

// New creates a canvas bound to session and subscribes to its events.
func New(session *app.Session, logger *slog.Logger) *SplitCanvas {
	c := &SplitCanvas{session: session, logger: logger}

	c.raster = fynecanvas.NewRaster(c.draw)
	c.raster.ScaleMode = fynecanvas.ImageScaleSmooth
	c.raster.SetMinSize(placeholderSize)

	session.On(app.EventImageLoaded, func(interface{}) { c.resetBacking() })
	session.On(app.EventSelectionChanged, func(interface{}) { c.redraw() })

	c.ExtendBaseWidget(c)
	return c
}

// CreateRenderer implements fyne.Widget.
func (c *SplitCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &splitCanvasRenderer{canvas: c}
}

// MinSize is the backing size, so an unstretched canvas maps 1:1.
func (c *SplitCanvas) MinSize() fyne.Size {
	return c.raster.MinSize()
}

// Tapped adds a selection point at the tap position.
func (c *SplitCanvas) Tapped(ev *fyne.PointEvent) {
	size := c.Size()

	// Reject taps reported outside the widget bounds
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}

	pe := mapping.PointerEvent{ClientX: float64(ev.Position.X), ClientY: float64(ev.Position.Y)}
	rendered := c.session.Canvas(0, 0, float64(size.Width), float64(size.Height))

	mp, err := c.session.Click(pe, rendered)
	switch {
	case err == nil:
		c.logger.Debug("canvas tap",
			"pixel_x", mp.Pixel.X, "pixel_y", mp.Pixel.Y,
			"norm_x", mp.Normalized.X, "norm_y", mp.Normalized.Y,
		)
	case errors.Is(err, mapping.ErrLayoutNotReady),
		errors.Is(err, analysis.ErrNoImage),
		errors.Is(err, app.ErrBusy):
		// Nothing to select on, or a request is in flight
	default:
		c.logger.Warn("canvas tap failed", "error", err)
	}
}

func (c *SplitCanvas) resetBacking() {
	store := c.session.NewBackingStore()

	c.mu.Lock()
	c.backing = store
	c.mu.Unlock()

	if store != nil {
		b := store.Bounds()
		c.raster.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	}
	c.redraw()
}

func (c *SplitCanvas) redraw() {
	c.mu.Lock()
	if c.backing != nil {
		c.session.Render(c.backing)
	}
	c.mu.Unlock()

	c.raster.Refresh()
	c.Refresh()
}

// draw is the raster generator. It returns a copy of the backing store
// whatever size is requested; the raster scales it to the widget.
func (c *SplitCanvas) draw(w, h int) image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.backing == nil {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	out := image.NewRGBA(c.backing.Rect)
	copy(out.Pix, c.backing.Pix)
	return out
}

type splitCanvasRenderer struct {
	canvas *SplitCanvas
}

func (r *splitCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *splitCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.raster.MinSize()
}

func (r *splitCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *splitCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *splitCanvasRenderer) Destroy() {}
