package ecs

import (
	"github.com/phanxgames/geoview"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InputEventType is the Donburi event type for geoview input events.
// Subscribe to this in your ECS systems to receive pointer, scroll and key
// events.
var InputEventType = events.NewEventType[geoview.Event]()

// EventBridge is a geoview event handler that publishes input events into a
// Donburi world. Per-frame events are not forwarded. Events are queued until
// the world's events are processed, which MotionSystem does every frame.
type EventBridge struct {
	world donburi.World
}

// NewEventBridge creates a bridge publishing into world.
func NewEventBridge(world donburi.World) *EventBridge {
	return &EventBridge{world: world}
}

// HandleEvent implements geoview.EventHandler.
func (b *EventBridge) HandleEvent(ev *geoview.Event) {
	if ev.Type == geoview.EventFrame {
		return
	}
	InputEventType.Publish(b.world, *ev)
}
