// Package ecs plugs a [Donburi] world into a geoview application.
//
// [NewMotionSystem] moves geographic entities each frame as part of the
// application's domain update pass, and [NewEventBridge] republishes
// geoview input events into the world as typed events. Subscribe to
// [InputEventType] in your ECS systems to receive them.
//
// Usage:
//
//	world := donburi.NewWorld()
//	app.Systems = append(app.Systems, ecs.NewMotionSystem(world, app.MapNode.Ellipsoid))
//	app.Viewer().AddEventHandler(ecs.NewEventBridge(world))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
