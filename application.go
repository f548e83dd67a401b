package geoview

import (
	"fmt"
	"runtime/debug"
)

// System is a domain update collaborator run once per frame, before the user
// update function.
type System interface {
	Update(stamp FrameStamp)
}

// SystemInitializer is implemented by systems that need the runtime before
// the first frame.
type SystemInitializer interface {
	Initialize(rt *Runtime)
}

// shaderDefinesSetter is implemented by viewers that pass shader defines to
// compile hooks.
type shaderDefinesSetter interface {
	SetShaderDefines(fn func() []string)
}

// viewData is the per-view side table entry.
type viewData struct {
	renderGraph *RenderGraph
}

// Application owns the scene, the viewer and the window/view registry, and
// drives the frame loop.
//
// Registry operations issued before the first frame run immediately. After
// that they are queued on the runtime's deferred update queue and run at a
// fixed point of the next frame, after a device-idle barrier, so they never
// touch a command graph the GPU is still consuming.
type Application struct {
	// Root is attached to every view that has no children of its own.
	Root *Node
	// MainScene holds the map and application content.
	MainScene *Node
	MapNode   *MapNode
	Runtime   *Runtime

	// Systems run in the domain update pass.
	Systems []System
	// UpdateFunc is called once per frame after the domain update.
	UpdateFunc func()
	// StatsObserver, when set, receives each frame's stats.
	StatsObserver StatsObserver
	// DebugMessenger receives device validation messages for windows created
	// with the debug layer.
	DebugMessenger func(msg string)

	// Stats holds the timing of the most recent frame.
	Stats FrameStats

	opts    Options
	backend Backend
	viewer  Viewer

	realized           bool
	viewerDirty        bool
	systemsInitialized bool

	windows       []*Window
	commandGraphs map[*Window]*CommandGraph
	views         map[*Window][]*View
	viewData      map[*View]*viewData
	manipulators  map[*View]*MapManipulator
}

// NewApplication creates an application on backend. A nil opts uses
// NewOptions defaults.
func NewApplication(backend Backend, opts *Options) *Application {
	if backend == nil {
		panic("geoview: NewApplication requires a backend")
	}
	if opts == nil {
		opts = NewOptions()
	}

	app := &Application{
		Root:          NewGroup("root"),
		MainScene:     NewGroup("main"),
		MapNode:       NewMapNode(),
		opts:          *opts,
		backend:       backend,
		commandGraphs: make(map[*Window]*CommandGraph),
		views:         make(map[*Window][]*View),
		viewData:      make(map[*View]*viewData),
		manipulators:  make(map[*View]*MapManipulator),
	}
	app.Root.AddChild(app.MainScene)

	ts := app.MapNode.TerrainSettings()
	ts.Concurrency = opts.TerrainConcurrency
	ts.SkirtRatio = 0.025
	ts.MinLevelOfDetail = 1
	ts.ScreenSpaceError = 135
	app.MainScene.AddChild(app.MapNode.Node)
	app.MapNode.AddChild(NewGraticule(app.MapNode.Ellipsoid, 15))

	app.Runtime = NewRuntime(ts.Concurrency)
	// Lighting is always on; shaders rely on the light count.
	app.Runtime.DefineShader("GV_LIGHTING")
	if opts.Wireframe {
		app.Runtime.DefineShader("GV_WIREFRAME_OVERLAY")
	}

	app.DebugMessenger = func(msg string) {
		logger().Warn("device", "msg", msg)
	}

	app.setViewer(backend.NewViewer())
	app.SetDebugMode(opts.Debug)
	return app
}

func (app *Application) setViewer(v Viewer) {
	app.viewer = v
	app.Runtime.setViewer(v)
	if s, ok := v.(shaderDefinesSetter); ok {
		s.SetShaderDefines(app.Runtime.ShaderDefines)
	}
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree warnings are logged and per-frame timing is logged at
// debug level.
func (app *Application) SetDebugMode(enabled bool) {
	app.opts.Debug = enabled
	globalDebug = enabled
}

// Viewer returns the current viewer. It changes when a window added after
// realization forces the viewer to be rebuilt.
func (app *Application) Viewer() Viewer {
	return app.viewer
}

// Realized reports whether the first frame has run.
func (app *Application) Realized() bool {
	return app.realized
}

// Windows returns the windows in registry order. The returned slice MUST NOT
// be mutated.
func (app *Application) Windows() []*Window {
	return app.windows
}

// Views returns the views attached to w, in attachment order.
func (app *Application) Views(w *Window) []*View {
	return app.views[w]
}

// CommandGraph returns w's command graph, or nil for an unknown window.
func (app *Application) CommandGraph(w *Window) *CommandGraph {
	return app.commandGraphs[w]
}

// Window returns the window view is attached to, or nil.
func (app *Application) Window(view *View) *Window {
	for _, w := range app.windows {
		for _, v := range app.views[w] {
			if v == view {
				return w
			}
		}
	}
	return nil
}

// RenderGraph returns the render graph hosting view, or nil.
func (app *Application) RenderGraph(view *View) *RenderGraph {
	if vd, ok := app.viewData[view]; ok {
		return vd.renderGraph
	}
	return nil
}

// NewViewCamera returns a camera for an extra view on w: the same framing a
// window's default view gets, fitted to viewport.
func (app *Application) NewViewCamera(w *Window, viewport Rect) *Camera {
	width, height := w.Size()
	c := defaultCamera(width, height, app.MapNode.Ellipsoid.SemiMajorAxis)
	c.SetViewport(viewport)
	return c
}

// Realize performs the one-time transition to the running state: it makes a
// default 1920x1080 window when none exists, assigns every command graph to
// the viewer and compiles them. Frame calls it on the first frame. Calling it
// twice panics.
func (app *Application) Realize() {
	if app.realized {
		panic("geoview: application realized twice")
	}

	if len(app.viewer.Windows()) == 0 {
		app.AddWindow(NewWindowTraits(1920, 1080, "Main Window"))
	}

	if !app.systemsInitialized {
		for _, s := range app.Systems {
			if si, ok := s.(SystemInitializer); ok {
				si.Initialize(app.Runtime)
			}
		}
		app.systemsInitialized = true
	}

	app.setupViewer(app.viewer)

	// From here on registry changes take the deferred path.
	app.realized = true
	logger().Info("application realized", "windows", len(app.windows))
}

// setupViewer installs the close handler ahead of the manipulators and
// assigns each window's command graph for recording, submission and
// presentation. v must be the current viewer.
func (app *Application) setupViewer(v Viewer) {
	if !hasCloseHandler(v.EventHandlers()) {
		v.AddEventHandler(NewCloseHandler(v))
	}
	app.reorderManipulators()

	graphs := make([]*CommandGraph, 0, len(app.windows))
	for _, w := range app.windows {
		graphs = append(graphs, app.commandGraphs[w])
	}
	v.AssignRecordAndSubmit(graphs)

	if err := v.Compile(ResourceHints{NumDescriptorSets: 1}); err != nil {
		logger().Error("viewer compile failed", "err", err)
	}
}

// recreateViewer replaces the viewer with a new one built from the registry,
// keeping the event handlers.
func (app *Application) recreateViewer() {
	old := app.viewer
	handlers := old.EventHandlers()

	old.DeviceWaitIdle()

	v := app.backend.NewViewer()
	for _, w := range app.windows {
		v.AddWindow(w)
	}
	for _, h := range handlers {
		// The close handler is bound to the old viewer.
		if _, ok := h.(*CloseHandler); ok {
			continue
		}
		v.AddEventHandler(h)
	}

	// Compiled nodes are not reported again, so the new viewer inherits
	// what the old one absorbed.
	if dynamic := old.DynamicNodes(); len(dynamic) > 0 {
		v.UpdateViewer(CompileResult{DynamicNodes: dynamic})
	}

	app.setViewer(v)
	app.setupViewer(v)
	logger().Info("viewer recreated", "windows", len(app.windows))
}

// Close stops background work. The viewer is closed too so a running loop
// ends on the next frame.
func (app *Application) Close() {
	app.Runtime.Close()
	app.viewer.Close()
}

// About returns the module and dependency versions the binary was built with.
func (app *Application) About() []string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return []string{"geoview (unknown build)"}
	}
	out := []string{fmt.Sprintf("%s %s", info.Main.Path, info.Main.Version)}
	for _, d := range info.Deps {
		out = append(out, fmt.Sprintf("%s %s", d.Path, d.Version))
	}
	return out
}
