package ecs

import (
	"testing"

	"github.com/phanxgames/geoview"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewEventBridge(t *testing.T) {
	world := donburi.NewWorld()
	bridge := NewEventBridge(world)
	if bridge == nil {
		t.Fatal("NewEventBridge returned nil")
	}
}

func TestEventBridge_HandleEvent(t *testing.T) {
	world := donburi.NewWorld()
	bridge := NewEventBridge(world)

	var received []geoview.Event
	InputEventType.Subscribe(world, func(w donburi.World, e geoview.Event) {
		received = append(received, e)
	})

	bridge.HandleEvent(&geoview.Event{
		Type:   geoview.EventPointerDown,
		X:      100,
		Y:      200,
		Button: geoview.MouseButtonLeft,
	})
	bridge.HandleEvent(&geoview.Event{Type: geoview.EventFrame})
	bridge.HandleEvent(&geoview.Event{Type: geoview.EventKeyDown, Key: geoview.KeySpace})

	// Events are queued; process them.
	InputEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}

	e0 := received[0]
	if e0.Type != geoview.EventPointerDown || e0.Button != geoview.MouseButtonLeft {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.X != 100 || e0.Y != 200 {
		t.Errorf("event 0 position: (%v,%v)", e0.X, e0.Y)
	}

	e1 := received[1]
	if e1.Type != geoview.EventKeyDown || e1.Key != geoview.KeySpace {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestEventBridge_ImplementsEventHandler(t *testing.T) {
	world := donburi.NewWorld()
	var h geoview.EventHandler = NewEventBridge(world)
	_ = h // compile-time interface check
}

func TestEventBridge_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	bridge := NewEventBridge(world)

	var count1, count2 int
	InputEventType.Subscribe(world, func(w donburi.World, e geoview.Event) {
		count1++
	})
	InputEventType.Subscribe(world, func(w donburi.World, e geoview.Event) {
		count2++
	})

	bridge.HandleEvent(&geoview.Event{Type: geoview.EventScroll, ScrollY: 1})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
