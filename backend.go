package geoview

import "time"

// FrameStamp identifies a frame for the domain update pass.
type FrameStamp struct {
	FrameCount uint64
	// SimulationTime is seconds since the first frame.
	SimulationTime float64
	Time           time.Time
}

// ResourceHints sizes up-front GPU allocations made by Viewer.Compile.
type ResourceHints struct {
	// NumDescriptorSets is the maximum number of descriptor sets per pool.
	NumDescriptorSets int
}

// Backend creates viewers and windows. The Ebitengine backend is the
// production implementation.
type Backend interface {
	NewViewer() Viewer
	NewWindow(traits *WindowTraits) (*Window, error)
}

// Viewer is the GPU compile/record/submit/present collaborator.
type Viewer interface {
	AddWindow(w *Window)
	Windows() []*Window

	// AdvanceToNextFrame starts a frame. It returns false once the viewer
	// can no longer present (closed window).
	AdvanceToNextFrame() bool
	FrameStamp() FrameStamp

	// HandleEvents dispatches pending input events to the event handlers,
	// in handler order.
	HandleEvents()
	EventHandlers() []EventHandler
	SetEventHandlers(handlers []EventHandler)
	AddEventHandler(h EventHandler)

	// AddUpdateOperation queues work for the viewer's own update pass.
	AddUpdateOperation(t Task)
	// Update runs the viewer's queued update operations.
	Update()

	AssignRecordAndSubmit(graphs []*CommandGraph)
	Compile(hints ResourceHints) error
	CompileManager() CompileManager
	// UpdateViewer absorbs a compile result that requires viewer changes.
	UpdateViewer(result CompileResult)
	// DynamicNodes lists the nodes absorbed through UpdateViewer.
	DynamicNodes() []*Node

	RecordAndSubmit()
	Present()
	DeviceWaitIdle()

	Active() bool
	Close()
}

// CompileResult reports what a compile pass did.
type CompileResult struct {
	// Compiled is the number of nodes whose OnCompile hook ran.
	Compiled int
	// DynamicNodes lists compiled nodes marked Dynamic.
	DynamicNodes []*Node
	Err          error
}

// RequiresViewerUpdate reports whether the viewer must absorb the result.
func (r CompileResult) RequiresViewerUpdate() bool {
	return len(r.DynamicNodes) > 0
}

// Add merges o into r.
func (r *CompileResult) Add(o CompileResult) {
	r.Compiled += o.Compiled
	r.DynamicNodes = append(r.DynamicNodes, o.DynamicNodes...)
	if r.Err == nil {
		r.Err = o.Err
	}
}

// CompileManager compiles GPU resources for render graphs and nodes.
type CompileManager interface {
	// Add registers a (window, view) pair for compilation.
	Add(w *Window, view *View)
	// Compile compiles rg's scene for every registered context that match
	// accepts.
	Compile(rg *RenderGraph, match func(*CompileContext) bool) CompileResult
	// CompileNode compiles n for every registered context.
	CompileNode(n *Node) CompileResult
	// RebuildPipelines rebuilds rg's pipelines after a camera or viewport
	// change.
	RebuildPipelines(rg *RenderGraph)
}
