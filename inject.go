package geoview

// Synthetic input. Window coordinates are used, identical to real pointer
// input, so scripted sessions and tests drive manipulators the same way a
// user does.

// InjectPress queues a left-button press at (x, y) in window w.
func (q *EventQueue) InjectPress(w *Window, x, y float64) {
	q.Push(Event{Type: EventPointerDown, Window: w, X: x, Y: y, Button: MouseButtonLeft})
}

// InjectMove queues a pointer move at (x, y). Use it between InjectPress and
// InjectRelease to drag.
func (q *EventQueue) InjectMove(w *Window, x, y float64) {
	q.Push(Event{Type: EventPointerMove, Window: w, X: x, Y: y, Button: MouseButtonLeft})
}

// InjectRelease queues a left-button release at (x, y).
func (q *EventQueue) InjectRelease(w *Window, x, y float64) {
	q.Push(Event{Type: EventPointerUp, Window: w, X: x, Y: y, Button: MouseButtonLeft})
}

// InjectClick queues a press followed by a release at the same point.
func (q *EventQueue) InjectClick(w *Window, x, y float64) {
	q.InjectPress(w, x, y)
	q.InjectRelease(w, x, y)
}

// InjectDrag queues a full drag: press at (fromX, fromY), frames-2 linearly
// interpolated moves, and release at (toX, toY). Minimum frames is 2.
func (q *EventQueue) InjectDrag(w *Window, fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	q.InjectPress(w, fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		q.InjectMove(w, fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	q.InjectRelease(w, toX, toY)
}

// InjectScroll queues a wheel event at (x, y).
func (q *EventQueue) InjectScroll(w *Window, x, y, delta float64) {
	q.Push(Event{Type: EventScroll, Window: w, X: x, Y: y, ScrollY: delta})
}

// InjectKey queues a key press.
func (q *EventQueue) InjectKey(w *Window, k Key) {
	q.Push(Event{Type: EventKeyDown, Window: w, Key: k})
}
