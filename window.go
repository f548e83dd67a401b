package geoview

// WindowTraits describes a window to create.
type WindowTraits struct {
	Width, Height int
	Title         string

	// VSync selects a vsynced present mode. When false the backend presents
	// immediately.
	VSync bool
	// DebugLayer enables validation output from the device.
	DebugLayer bool
	// APIDumpLayer enables API call tracing.
	APIDumpLayer bool

	// DebugMessenger receives validation messages when DebugLayer is set.
	DebugMessenger func(msg string)

	// Device, when set, makes the new window share an existing device.
	Device Device
}

// NewWindowTraits returns traits for a vsynced window of the given size.
func NewWindowTraits(width, height int, title string) *WindowTraits {
	return &WindowTraits{
		Width:  width,
		Height: height,
		Title:  title,
		VSync:  true,
	}
}

// Device is the GPU device a window renders with. Windows created after the
// first share its device.
type Device interface {
	// WaitIdle blocks until no submitted work is in flight.
	WaitIdle()
}

// Surface is the backend-owned presentation surface of a window.
type Surface interface {
	Size() (width, height int)
}

var windowIDCounter uint32

// Window is a presentation surface. It owns exactly one CommandGraph, which
// the application creates when the window is added.
type Window struct {
	ID     uint32
	Traits WindowTraits

	device  Device
	surface Surface

	screenshotQueue []string
}

// NewWindow wraps a backend surface. Backends call this from their window
// factory.
func NewWindow(traits *WindowTraits, device Device, surface Surface) *Window {
	windowIDCounter++
	return &Window{
		ID:      windowIDCounter,
		Traits:  *traits,
		device:  device,
		surface: surface,
	}
}

// Device returns the device the window renders with.
func (w *Window) Device() Device {
	return w.device
}

// Surface returns the backend surface.
func (w *Window) Surface() Surface {
	return w.surface
}

// Size returns the surface size in pixels.
func (w *Window) Size() (int, int) {
	if w.surface == nil {
		return w.Traits.Width, w.Traits.Height
	}
	return w.surface.Size()
}

// CommandGraph is the ordered list of render graphs recorded and submitted
// for one window each frame.
type CommandGraph struct {
	Window   *Window
	children []*RenderGraph
}

// NewCommandGraph creates an empty command graph for w.
func NewCommandGraph(w *Window) *CommandGraph {
	return &CommandGraph{Window: w}
}

// Children returns the render graphs in submission order. The returned slice
// MUST NOT be mutated.
func (cg *CommandGraph) Children() []*RenderGraph {
	return cg.children
}

// AddChild appends a render graph.
func (cg *CommandGraph) AddChild(rg *RenderGraph) {
	cg.children = append(cg.children, rg)
}

// InsertFront puts rg ahead of every other render graph.
func (cg *CommandGraph) InsertFront(rg *RenderGraph) {
	cg.children = append(cg.children, nil)
	copy(cg.children[1:], cg.children)
	cg.children[0] = rg
}

// RemoveChild removes every occurrence of rg by identity and reports whether
// any was found.
func (cg *CommandGraph) RemoveChild(rg *RenderGraph) bool {
	kept := cg.children[:0]
	found := false
	for _, c := range cg.children {
		if c == rg {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(cg.children); i++ {
		cg.children[i] = nil
	}
	cg.children = kept
	return found
}

// RenderGraph is one render pass targeting a window: a clear followed by the
// recording of a view's scene, or of a custom hook.
type RenderGraph struct {
	Window *Window
	// View is nil for passes that record only through OnRecord.
	View       *View
	ClearColor Color
	// RenderArea is the window rectangle the pass renders into.
	RenderArea Rect
	// OnRecord, when set, is called after the view's scene is recorded.
	OnRecord func(*RecordContext)

	// PipelineRevision counts pipeline rebuilds for this pass.
	PipelineRevision uint64
}

// NewRenderGraph creates a render graph for view on w, with a render area
// matching the view's viewport.
func NewRenderGraph(w *Window, view *View) *RenderGraph {
	rg := &RenderGraph{
		Window:     w,
		View:       view,
		ClearColor: DefaultClearColor,
	}
	if view != nil && view.Camera != nil {
		rg.RenderArea = view.Camera.Viewport
	} else if w != nil {
		width, height := w.Size()
		rg.RenderArea = Rect{Width: float64(width), Height: float64(height)}
	}
	return rg
}
