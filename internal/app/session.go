// Package app holds the split analyzer session: the loaded image, the point
// selection, the in-flight request and its outcome.
package app

import (
	"context"
	"errors"
	"fmt"
	goimage "image"
	"log/slog"
	"sync"

	"split-analyzer/internal/analysis"
	"split-analyzer/internal/image"
	"split-analyzer/internal/mapping"
	"split-analyzer/internal/render"
	"split-analyzer/internal/selection"
	"split-analyzer/internal/tracer"
	"split-analyzer/pkg/geometry"
)

var (
	// ErrBusy is returned while a submission is in flight.
	ErrBusy = errors.New("analysis already in progress")
	// ErrSuperseded is returned by Submit when the image was replaced or the
	// selection reset before the response arrived. The response is dropped.
	ErrSuperseded = errors.New("analysis superseded by a newer session state")
	// ErrNoClient is returned by Submit when no analysis client is configured.
	ErrNoClient = errors.New("no analysis client configured")
)

// Phase is the session state.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseImageLoaded
	PhaseOnePoint
	PhaseTwoPoints
	PhaseSubmitting
	PhaseResult
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseImageLoaded:
		return "image_loaded"
	case PhaseOnePoint:
		return "one_point"
	case PhaseTwoPoints:
		return "two_points"
	case PhaseSubmitting:
		return "submitting"
	case PhaseResult:
		return "result"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// DefaultMaxDisplay is the default canvas bounding box.
var DefaultMaxDisplay = geometry.SizeInt{Width: 600, Height: 400}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	Image   *image.Image
	Backing geometry.SizeInt
	Points  []geometry.Point2D
	Phase   Phase
	Busy    bool
	Result  *analysis.Result
	Err     error
}

// Session owns one image and its selection. All methods are safe for
// concurrent use. The lock is never held across the network call.
type Session struct {
	mu sync.RWMutex

	image      *image.Image
	display    *goimage.RGBA // image resampled to the backing size
	backing    geometry.SizeInt
	maxDisplay geometry.SizeInt
	selector   *selection.Selector

	busy       bool
	generation uint64
	result     *analysis.Result
	err        error

	client   analysis.Client
	renderer *render.Renderer
	logger   *slog.Logger

	lmu       sync.RWMutex
	listeners map[EventType][]EventListener
}

// NewSession creates an empty session. A zero maxDisplay uses DefaultMaxDisplay.
func NewSession(client analysis.Client, renderer *render.Renderer, maxDisplay geometry.SizeInt, logger *slog.Logger) *Session {
	if maxDisplay == (geometry.SizeInt{}) {
		maxDisplay = DefaultMaxDisplay
	}
	if renderer == nil {
		renderer = render.New(render.DefaultStyle())
	}
	return &Session{
		maxDisplay: maxDisplay,
		selector:   selection.New(),
		client:     client,
		renderer:   renderer,
		logger:     logger,
		listeners:  make(map[EventType][]EventListener),
	}
}

// LoadImage replaces the image, sizes the canvas backing store to fit the
// display box and clears the selection and any previous outcome.
func (s *Session) LoadImage(img *image.Image) error {
	if img == nil || img.Decoded == nil {
		return analysis.ErrNoImage
	}
	backing := image.FitSize(img.Size(), s.maxDisplay)
	display := image.Resample(img.Decoded, backing, s.renderer.Style().Scaler)

	s.mu.Lock()
	s.image = img
	s.display = display
	s.backing = backing
	s.selector.Reset()
	s.clearOutcomeLocked()
	s.generation++
	s.mu.Unlock()

	s.logger.Info("image loaded",
		"name", img.Name,
		"format", img.Format,
		"natural", fmt.Sprintf("%dx%d", img.Width(), img.Height()),
		"backing", fmt.Sprintf("%dx%d", backing.Width, backing.Height),
	)
	s.Emit(EventImageLoaded, img)
	s.Emit(EventSelectionChanged, []geometry.Point2D{})
	return nil
}

// Reset clears the selection and any previous outcome. The image and the
// backing size are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	s.selector.Reset()
	s.clearOutcomeLocked()
	s.generation++
	points := s.selector.Points()
	s.mu.Unlock()

	s.logger.Debug("selection reset")
	s.Emit(EventSelectionChanged, points)
}

// AddPoint records a normalized point. A third point starts a new selection.
// Points are refused with analysis.ErrNoImage before an image is loaded and
// with ErrBusy while a submission is in flight.
func (s *Session) AddPoint(p geometry.Point2D) error {
	s.mu.Lock()
	if s.image == nil {
		s.mu.Unlock()
		return analysis.ErrNoImage
	}
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.selector.Add(p)
	s.clearOutcomeLocked()
	points := s.selector.Points()
	s.mu.Unlock()

	s.logger.Debug("point added", "x", p.X, "y", p.Y, "points", len(points))
	s.Emit(EventSelectionChanged, points)
	return nil
}

// Canvas describes the session's backing store displayed in the given
// rendered rectangle.
func (s *Session) Canvas(left, top, width, height float64) mapping.Canvas {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mapping.Canvas{
		Left:           left,
		Top:            top,
		RenderedWidth:  width,
		RenderedHeight: height,
		BackingWidth:   s.backing.Width,
		BackingHeight:  s.backing.Height,
	}
}

// Click maps a pointer event on canvas c and adds the resulting point.
func (s *Session) Click(ev mapping.PointerEvent, c mapping.Canvas) (mapping.MappedPoint, error) {
	mp, err := mapping.Map(ev, c)
	if err != nil {
		return mapping.MappedPoint{}, err
	}
	if err := s.AddPoint(mp.Normalized); err != nil {
		return mapping.MappedPoint{}, err
	}
	return mp, nil
}

// Submit validates the current state and question, sends the request and
// waits for the outcome. Validation failures leave the session unchanged.
// The selection is kept whether the call succeeds or fails.
func (s *Session) Submit(ctx context.Context, question string) (*analysis.Result, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	req, err := analysis.Build(s.image, s.selector.Points(), question)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.client == nil {
		s.mu.Unlock()
		return nil, ErrNoClient
	}
	s.busy = true
	s.clearOutcomeLocked()
	generation := s.generation
	client := s.client
	s.mu.Unlock()

	s.Emit(EventSubmitting, nil)

	ctx, span := tracer.StartSpan(ctx, "session.submit")
	defer span.End()

	res, err := client.Analyze(ctx, req)

	s.mu.Lock()
	s.busy = false
	stale := generation != s.generation
	if !stale {
		s.result, s.err = res, err
	}
	s.mu.Unlock()

	if stale {
		s.logger.Info("analysis response dropped", "reason", "superseded")
		tracer.RecordError(span, ErrSuperseded)
		s.Emit(EventSuperseded, nil)
		return nil, ErrSuperseded
	}
	if err != nil {
		tracer.RecordError(span, err)
		s.logger.Warn("analysis failed", "error", err)
		s.Emit(EventError, err)
		return nil, err
	}

	tracer.SetOK(span)
	s.Emit(EventResult, res)
	return res, nil
}

// Health reports the analysis service readiness.
func (s *Session) Health(ctx context.Context) (analysis.Health, error) {
	if s.client == nil {
		return analysis.Health{}, ErrNoClient
	}
	return s.client.Health(ctx)
}

// Phase returns the current state.
func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phaseLocked()
}

// Backing returns the canvas backing-store size. It is fixed per image and
// unaffected by how large the canvas is displayed.
func (s *Session) Backing() geometry.SizeInt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backing
}

// Snapshot returns a consistent copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Image:   s.image,
		Backing: s.backing,
		Points:  s.selector.Points(),
		Phase:   s.phaseLocked(),
		Busy:    s.busy,
		Result:  s.result,
		Err:     s.err,
	}
}

// NewBackingStore allocates an RGBA buffer of the backing size, or nil
// before an image is loaded.
func (s *Session) NewBackingStore() *goimage.RGBA {
	b := s.Backing()
	if b.Width <= 0 || b.Height <= 0 {
		return nil
	}
	return goimage.NewRGBA(goimage.Rect(0, 0, b.Width, b.Height))
}

// Render fully redraws dst with the image and the current selection.
func (s *Session) Render(dst *goimage.RGBA) render.Frame {
	s.mu.RLock()
	var src goimage.Image
	if s.display != nil {
		src = s.display
	}
	points := s.selector.Points()
	s.mu.RUnlock()

	return s.renderer.Render(dst, src, points)
}

func (s *Session) phaseLocked() Phase {
	switch {
	case s.busy:
		return PhaseSubmitting
	case s.err != nil:
		return PhaseError
	case s.result != nil:
		return PhaseResult
	case s.image == nil:
		return PhaseEmpty
	}
	switch s.selector.Count() {
	case 0:
		return PhaseImageLoaded
	case 1:
		return PhaseOnePoint
	default:
		return PhaseTwoPoints
	}
}

func (s *Session) clearOutcomeLocked() {
	s.result = nil
	s.err = nil
}
