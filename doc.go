// Package geoview runs a map application across several windows, each
// showing one or more views of the same scene.
//
// An [Application] owns the scene, a [Viewer] built by a [Backend], and a
// registry of windows and views. Each window has a [CommandGraph]: an
// ordered list of [RenderGraph] passes, one per view plus any pre-render
// passes. Each view has its own [Camera] and [MapManipulator].
//
// # Quick start
//
//	app := geoview.NewApplication(geoview.NewEbitenBackend("screenshots"), nil)
//	w := app.AddWindow(geoview.NewWindowTraits(1280, 720, "Map")).Value()
//	inset := geoview.NewView(app.NewViewCamera(w, geoview.Rect{X: 880, Y: 20, Width: 380, Height: 240}))
//	app.AddView(w, inset, nil)
//	log.Fatal(geoview.RunEbiten(app))
//
// [NewEbitenBackend] renders with [Ebitengine]; the first window is the OS
// window and later ones are offscreen surfaces. With another backend, call
// [Application.Run] or drive [Application.Frame] from your own loop.
//
// # Changing the layout while running
//
// [Application.AddWindow], [Application.AddView], [Application.RemoveView],
// [Application.RefreshView] and [Application.AddPreRenderGraph] run
// immediately before the first frame. After that they are queued on the
// runtime's deferred update queue and applied during the next frame's
// update pass, after the device has gone idle. AddWindow and AddView return a
// [Future] that resolves once the change is in place:
//
//	f := app.AddView(w, v, nil)
//	// later, on the frame goroutine:
//	if f.Available() { ... }
//
// Any goroutine may queue its own work with [Runtime.RunDuringUpdate].
//
// # Frame order
//
// [Application.Frame] advances the viewer, runs the map update and the
// registered [System] values, calls UpdateFunc, dispatches input to event
// handlers, drains the update queue, then records, submits and presents.
// Manipulators are ordered so that, within a window, the most recently added
// view sees input first.
//
// # Layout files and scripts
//
// [DisplayConfig] loads a YAML window and view layout, and
// [WatchDisplayConfig] reloads its viewports when the file changes.
// [ScriptRunner] plays a JSON script of registry operations, synthetic input
// and screenshots, one step per frame.
//
// [Ebitengine]: https://ebitengine.org
package geoview
