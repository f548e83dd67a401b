package geoview

// Registry operations. Each one is a typed task: run in place before
// realization, queued on the runtime's update queue after it.

func (app *Application) schedule(t Task) {
	if app.realized {
		app.Runtime.RunDuringUpdate(t)
		return
	}
	t.Run()
}

// AddWindow creates a window from traits, with its own command graph and a
// default view of the scene. Before realization the returned future is
// already resolved; afterwards it resolves during the next frame. Nil traits
// panic.
func (app *Application) AddWindow(traits *WindowTraits) Future[*Window] {
	if traits == nil {
		panic("geoview: AddWindow requires traits")
	}
	t := &addWindowTask{app: app, traits: *traits, result: NewFuture[*Window]()}
	app.schedule(t)
	return t.result
}

// AddView attaches view to window. onCreate, if set, is called with the
// window's command graph once the view is in place so callers can append
// their own render graphs. Nil window, view or camera panic.
func (app *Application) AddView(window *Window, view *View, onCreate func(*CommandGraph)) Future[*View] {
	if window == nil {
		panic("geoview: AddView requires a window")
	}
	if view == nil {
		panic("geoview: AddView requires a view")
	}
	if view.Camera == nil {
		panic("geoview: AddView requires a view with a camera")
	}
	t := &addViewTask{app: app, window: window, view: view, onCreate: onCreate, result: NewFuture[*View]()}
	app.schedule(t)
	return t.result
}

// RemoveView detaches view from its window. Removing an untracked view logs
// a warning and does nothing. A nil view panics.
func (app *Application) RemoveView(view *View) {
	if view == nil {
		panic("geoview: RemoveView requires a view")
	}
	app.schedule(&removeViewTask{app: app, view: view})
}

// RefreshView re-derives the render area of view's render graph from its
// camera viewport and rebuilds the render graph's pipelines. Call it after
// changing a viewport. Untracked views are ignored with a warning. A nil
// view panics.
func (app *Application) RefreshView(view *View) {
	if view == nil {
		panic("geoview: RefreshView requires a view")
	}
	app.schedule(&refreshViewTask{app: app, view: view})
}

// AddPreRenderGraph inserts rg ahead of every other render graph of window,
// for passes whose output the main views consume.
func (app *Application) AddPreRenderGraph(window *Window, rg *RenderGraph) {
	if window == nil || rg == nil {
		panic("geoview: AddPreRenderGraph requires a window and a render graph")
	}
	app.schedule(&addPreRenderGraphTask{app: app, window: window, renderGraph: rg})
}

// --- tasks ---

type addWindowTask struct {
	app    *Application
	traits WindowTraits
	result Future[*Window]
}

func (t *addWindowTask) String() string { return "addWindow" }

func (t *addWindowTask) Run() {
	app := t.app
	traits := &t.traits

	// Wait until the device is idle to avoid changing state while it's in use.
	app.viewer.DeviceWaitIdle()

	traits.DebugLayer = app.opts.Debug
	traits.APIDumpLayer = app.opts.APIDump
	if !app.opts.VSync {
		traits.VSync = false
	}
	if traits.DebugLayer && traits.DebugMessenger == nil {
		traits.DebugMessenger = app.DebugMessenger
	}
	if len(app.windows) > 0 {
		traits.Device = app.windows[0].Device()
	}

	window, err := app.backend.NewWindow(traits)
	if err != nil {
		logger().Error("window creation failed", "title", traits.Title, "err", err)
		t.result.Fail(err)
		return
	}

	app.commandGraphs[window] = NewCommandGraph(window)
	app.windows = append(app.windows, window)

	// Windows may record concurrently once there is more than one; the
	// terrain has to guard its record path.
	if len(app.windows) > 1 {
		app.MapNode.TerrainSettings().SupportMultiThreadedRecord = true
	}

	camera := defaultCamera(traits.Width, traits.Height, app.MapNode.Ellipsoid.SemiMajorAxis)
	view := NewView(camera, app.MainScene)
	view.Name = traits.Title
	app.addViewNow(window, view, nil, NewFuture[*View]())

	app.viewer.AddWindow(window)

	if app.realized {
		// The viewer's record/present assignment is rebuilt next frame.
		app.viewerDirty = true
	}

	logger().Info("window added", "id", window.ID, "title", traits.Title,
		"width", traits.Width, "height", traits.Height)
	t.result.Resolve(window)
}

type addViewTask struct {
	app      *Application
	window   *Window
	view     *View
	onCreate func(*CommandGraph)
	result   Future[*View]
}

func (t *addViewTask) String() string { return "addView" }

func (t *addViewTask) Run() {
	t.app.addViewNow(t.window, t.view, t.onCreate, t.result)
}

func (app *Application) addViewNow(window *Window, view *View, onCreate func(*CommandGraph), result Future[*View]) {
	if app.realized {
		app.viewer.DeviceWaitIdle()
	}

	cg := app.commandGraphs[window]
	if !softAssert(cg != nil, "AddView on a window without a command graph", "window", window.ID) {
		result.Fail(ErrUnknownWindow)
		return
	}
	if _, dup := app.viewData[view]; !softAssert(!dup, "AddView on an attached view", "view", view.ID) {
		result.Resolve(view)
		return
	}

	if view.NumChildren() == 0 {
		view.AddChild(app.Root)
	}

	rg := NewRenderGraph(window, view)
	rg.ClearColor = DefaultClearColor
	cg.AddChild(rg)

	app.viewData[view] = &viewData{renderGraph: rg}
	app.views[window] = append(app.views[window], view)

	app.activateRenderGraph(rg, window)
	app.installManipulator(window, view)

	if onCreate != nil {
		onCreate(cg)
	}
	logger().Debug("view added", "view", view.ID, "window", window.ID)
	result.Resolve(view)
}

type removeViewTask struct {
	app  *Application
	view *View
}

func (t *removeViewTask) String() string { return "removeView" }

func (t *removeViewTask) Run() {
	app := t.app
	view := t.view

	app.viewer.DeviceWaitIdle()

	window := app.Window(view)
	if !softAssert(window != nil, "RemoveView on an untracked view", "view", view.ID) {
		return
	}
	cg := app.commandGraphs[window]
	if !softAssert(cg != nil, "RemoveView on a window without a command graph", "window", window.ID) {
		return
	}
	vd, ok := app.viewData[view]
	if !softAssert(ok, "RemoveView on a view without a render graph", "view", view.ID) {
		return
	}

	cg.RemoveChild(vd.renderGraph)

	delete(app.viewData, view)
	views := app.views[window]
	kept := views[:0]
	for _, v := range views {
		if v != view {
			kept = append(kept, v)
		}
	}
	for i := len(kept); i < len(views); i++ {
		views[i] = nil
	}
	app.views[window] = kept

	delete(app.manipulators, view)
	app.reorderManipulators()
	logger().Debug("view removed", "view", view.ID, "window", window.ID)
}

type refreshViewTask struct {
	app  *Application
	view *View
}

func (t *refreshViewTask) String() string { return "refreshView" }

func (t *refreshViewTask) Run() {
	t.app.refreshViewNow(t.view)
}

// refreshViewNow is RefreshView for callers already running on the frame
// goroutine, so the render area follows the viewport in the same frame.
func (app *Application) refreshViewNow(view *View) {
	vd, ok := app.viewData[view]
	if !softAssert(ok, "RefreshView on an untracked view", "view", view.ID) {
		return
	}

	app.viewer.DeviceWaitIdle()

	rg := vd.renderGraph
	rg.RenderArea = view.Camera.Viewport
	app.viewer.CompileManager().RebuildPipelines(rg)
}

type addPreRenderGraphTask struct {
	app         *Application
	window      *Window
	renderGraph *RenderGraph
}

func (t *addPreRenderGraphTask) String() string { return "addPreRenderGraph" }

func (t *addPreRenderGraphTask) Run() {
	app := t.app
	cg := app.commandGraphs[t.window]
	if !softAssert(cg != nil, "AddPreRenderGraph on a window without a command graph", "window", t.window.ID) {
		return
	}
	if !softAssert(len(cg.Children()) > 0, "AddPreRenderGraph on an empty command graph", "window", t.window.ID) {
		return
	}

	if app.realized {
		app.viewer.DeviceWaitIdle()
	}
	cg.InsertFront(t.renderGraph)
	app.activateRenderGraph(t.renderGraph, t.window)
}
