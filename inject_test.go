package geoview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain returns the queued events without dispatching them to anyone.
func drain(q *EventQueue) []Event {
	var out []Event
	q.Dispatch([]EventHandler{EventHandlerFunc(func(ev *Event) { out = append(out, *ev) })})
	return out
}

func TestInjectClick(t *testing.T) {
	var q EventQueue
	w := &Window{ID: 3}
	q.InjectClick(w, 100, 200)

	evs := drain(&q)
	require.Len(t, evs, 2)
	assert.Equal(t, Event{Type: EventPointerDown, Window: w, X: 100, Y: 200, Button: MouseButtonLeft}, evs[0])
	assert.Equal(t, Event{Type: EventPointerUp, Window: w, X: 100, Y: 200, Button: MouseButtonLeft}, evs[1])
}

func TestInjectDrag(t *testing.T) {
	var q EventQueue
	q.InjectDrag(nil, 0, 0, 100, 50, 5)

	evs := drain(&q)
	require.Len(t, evs, 5)
	assert.Equal(t, EventPointerDown, evs[0].Type)
	for i := 1; i <= 3; i++ {
		assert.Equal(t, EventPointerMove, evs[i].Type)
		assert.InDelta(t, float64(i)*25, evs[i].X, 1e-9)
		assert.InDelta(t, float64(i)*12.5, evs[i].Y, 1e-9)
	}
	assert.Equal(t, EventPointerUp, evs[4].Type)
	assert.Equal(t, 100.0, evs[4].X)
}

func TestInjectDrag_MinFrames(t *testing.T) {
	var q EventQueue
	q.InjectDrag(nil, 0, 0, 10, 10, 0)
	evs := drain(&q)
	require.Len(t, evs, 2)
	assert.Equal(t, EventPointerDown, evs[0].Type)
	assert.Equal(t, EventPointerUp, evs[1].Type)
}

func TestInjectScrollAndKey(t *testing.T) {
	var q EventQueue
	q.InjectScroll(nil, 5, 6, -2)
	q.InjectKey(nil, KeyHome)

	evs := drain(&q)
	require.Len(t, evs, 2)
	assert.Equal(t, EventScroll, evs[0].Type)
	assert.Equal(t, -2.0, evs[0].ScrollY)
	assert.Equal(t, EventKeyDown, evs[1].Type)
	assert.Equal(t, KeyHome, evs[1].Key)
}
