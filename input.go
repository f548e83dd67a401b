package geoview

import "sync"

// --- Constants ---

const defaultDragDeadZone = 4.0 // pixels

// EventType identifies a kind of input event.
type EventType uint8

const (
	EventPointerDown EventType = iota // a pointer button was pressed
	EventPointerUp                    // a pointer button was released
	EventPointerMove                  // the pointer moved
	EventScroll                       // the wheel scrolled
	EventKeyDown                      // a key was pressed
	EventClose                        // the user asked to close the window
	EventFrame                        // one per frame, after input events
)

// Key identifies the keys the core reacts to. Backends map their own key
// codes onto these.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyHome
)

// Event is an input event routed to event handlers in order. A handler that
// consumes the event sets Handled; later handlers should ignore handled
// pointer events.
type Event struct {
	Type      EventType
	Window    *Window
	X, Y      float64
	Button    MouseButton
	Modifiers KeyModifiers
	Key       Key
	// ScrollY is the wheel delta for EventScroll (positive away from user).
	ScrollY float64
	// Frame is set for EventFrame.
	Frame   FrameStamp
	Handled bool
}

// EventHandler receives input events. Map manipulators and the close handler
// are event handlers.
type EventHandler interface {
	HandleEvent(ev *Event)
}

// EventHandlerFunc adapts a function to an EventHandler.
type EventHandlerFunc func(ev *Event)

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(ev *Event) { f(ev) }

// EventQueue buffers input events between polls. Push may be called from any
// goroutine.
type EventQueue struct {
	mu     sync.Mutex
	events []Event
	spare  []Event
}

// Push appends ev.
func (q *EventQueue) Push(ev Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Dispatch delivers every pending event to handlers, in handler order, and
// clears the queue.
func (q *EventQueue) Dispatch(handlers []EventHandler) {
	q.mu.Lock()
	batch := q.events
	q.events = q.spare[:0]
	q.spare = nil
	q.mu.Unlock()

	for i := range batch {
		ev := &batch[i]
		for _, h := range handlers {
			h.HandleEvent(ev)
		}
	}

	q.mu.Lock()
	q.spare = batch[:0]
	q.mu.Unlock()
}

// CloseHandler closes a viewer on EventClose or Escape.
type CloseHandler struct {
	viewer Viewer
}

// NewCloseHandler creates a close handler for v.
func NewCloseHandler(v Viewer) *CloseHandler {
	return &CloseHandler{viewer: v}
}

// HandleEvent implements EventHandler.
func (h *CloseHandler) HandleEvent(ev *Event) {
	switch {
	case ev.Type == EventClose,
		ev.Type == EventKeyDown && ev.Key == KeyEscape:
		logger().Info("close requested")
		h.viewer.Close()
		ev.Handled = true
	}
}

func hasCloseHandler(handlers []EventHandler) bool {
	for _, h := range handlers {
		if _, ok := h.(*CloseHandler); ok {
			return true
		}
	}
	return false
}
