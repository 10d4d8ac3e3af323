package app

// EventType identifies session events.
type EventType int

const (
	// EventImageLoaded carries the new *image.Image.
	EventImageLoaded EventType = iota
	// EventSelectionChanged carries the current []geometry.Point2D. It fires
	// on every add and reset, including a reset of an empty selection.
	EventSelectionChanged
	// EventSubmitting fires when a request is sent. Data is nil.
	EventSubmitting
	// EventResult carries the *analysis.Result.
	EventResult
	// EventError carries the error from a failed submission.
	EventError
	// EventSuperseded fires when a response arrives after LoadImage or Reset
	// replaced the state it was sent for. Data is nil.
	EventSuperseded
)

func (e EventType) String() string {
	switch e {
	case EventImageLoaded:
		return "image_loaded"
	case EventSelectionChanged:
		return "selection_changed"
	case EventSubmitting:
		return "submitting"
	case EventResult:
		return "result"
	case EventError:
		return "error"
	case EventSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// EventListener is called when an event occurs. Listeners run on the
// goroutine that triggered the event, after the session lock is released.
type EventListener func(data interface{})

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.lmu.RLock()
	listeners := s.listeners[event]
	s.lmu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}
