package geoview

// activateRenderGraph hooks a newly added render graph up to the viewer: it
// registers the graph's view with the compile manager, compiles the graph for
// that view only, and applies the result to the viewer when needed. It
// allocates GPU resources, so callers hold the device idle.
func (app *Application) activateRenderGraph(rg *RenderGraph, window *Window) {
	view := rg.View
	if view == nil {
		return
	}

	cm := app.viewer.CompileManager()
	cm.Add(window, view)

	result := cm.Compile(rg, func(ctx *CompileContext) bool {
		return ctx.View == view
	})
	if result.Err != nil {
		logger().Error("render graph compile failed", "view", view.ID, "err", result.Err)
	}

	if result.RequiresViewerUpdate() {
		app.viewer.UpdateViewer(result)
	}
}
