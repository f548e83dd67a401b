package geoview

import (
	"slices"
	"time"
)

// ViewerBase holds the backend-independent half of a Viewer: windows, event
// handlers, assigned command graphs, update operations, the frame stamp and a
// compile manager. Backends embed it and supply advance, record, present and
// device synchronization.
type ViewerBase struct {
	windows  []*Window
	handlers []EventHandler
	graphs   []*CommandGraph
	ops      UpdateQueue
	events   EventQueue
	compiler *compileManager

	stamp   FrameStamp
	start   time.Time
	closed  bool
	dynamic []*Node

	// ShaderDefines, when set, supplies the defines passed to OnCompile.
	ShaderDefines func() []string
}

// AddWindow adds w. Adding the same window twice is a no-op.
func (b *ViewerBase) AddWindow(w *Window) {
	for _, existing := range b.windows {
		if existing == w {
			return
		}
	}
	b.windows = append(b.windows, w)
}

// Windows returns the viewer's windows in the order they were added.
func (b *ViewerBase) Windows() []*Window {
	return b.windows
}

// FrameStamp returns the current frame stamp.
func (b *ViewerBase) FrameStamp() FrameStamp {
	return b.stamp
}

// advance bumps the frame stamp; it reports false once the viewer is closed.
func (b *ViewerBase) advance(now time.Time) bool {
	if b.closed {
		return false
	}
	if b.start.IsZero() {
		b.start = now
	}
	b.stamp = FrameStamp{
		FrameCount:     b.stamp.FrameCount + 1,
		SimulationTime: now.Sub(b.start).Seconds(),
		Time:           now,
	}
	return true
}

// EventHandlers returns the handler list in dispatch order.
func (b *ViewerBase) EventHandlers() []EventHandler {
	return b.handlers
}

// SetEventHandlers replaces the handler list.
func (b *ViewerBase) SetEventHandlers(handlers []EventHandler) {
	b.handlers = handlers
}

// AddEventHandler appends h to the handler list.
func (b *ViewerBase) AddEventHandler(h EventHandler) {
	b.handlers = append(b.handlers, h)
}

// Events returns the viewer's pending event queue, used for injection.
func (b *ViewerBase) Events() *EventQueue {
	return &b.events
}

// HandleEvents dispatches every pending event to the handlers, followed by
// one EventFrame carrying the current stamp.
func (b *ViewerBase) HandleEvents() {
	b.events.Dispatch(b.handlers)
	ev := Event{Type: EventFrame, Frame: b.stamp}
	for _, h := range b.handlers {
		h.HandleEvent(&ev)
	}
}

// AddUpdateOperation queues t for the next Update.
func (b *ViewerBase) AddUpdateOperation(t Task) {
	b.ops.Push(t)
}

// Update runs queued update operations.
func (b *ViewerBase) Update() {
	b.ops.Drain()
}

// AssignRecordAndSubmit sets the command graphs recorded each frame.
func (b *ViewerBase) AssignRecordAndSubmit(graphs []*CommandGraph) {
	b.graphs = graphs
}

// CommandGraphs returns the assigned command graphs.
func (b *ViewerBase) CommandGraphs() []*CommandGraph {
	return b.graphs
}

// RecordGraphs walks the assigned command graphs in order and records each
// render graph: every visible node of its view, then the graph's own hook.
// prepare, if set, clears the pass and returns its backend target.
func (b *ViewerBase) RecordGraphs(prepare func(rg *RenderGraph) any) {
	b.TransferDynamic()
	for _, cg := range b.graphs {
		for _, rg := range cg.Children() {
			ctx := &RecordContext{
				Window:     cg.Window,
				View:       rg.View,
				RenderArea: rg.RenderArea,
				Frame:      b.stamp,
			}
			if prepare != nil {
				ctx.Target = prepare(rg)
			}
			if rg.View != nil {
				ctx.Camera = rg.View.Camera
				rg.View.Walk(func(n *Node) bool {
					if n.OnRecord != nil {
						n.OnRecord(ctx)
					}
					return true
				})
			}
			if rg.OnRecord != nil {
				rg.OnRecord(ctx)
			}
		}
	}
}

// CompileManager returns the viewer's compile manager.
func (b *ViewerBase) CompileManager() CompileManager {
	if b.compiler == nil {
		b.compiler = &compileManager{defines: b.ShaderDefines}
	}
	return b.compiler
}

// SetShaderDefines sets the source of the defines passed to OnCompile hooks.
func (b *ViewerBase) SetShaderDefines(fn func() []string) {
	b.ShaderDefines = fn
	if b.compiler != nil {
		b.compiler.defines = fn
	}
}

// Compile registers every view of the assigned command graphs and compiles
// all of them.
func (b *ViewerBase) Compile(hints ResourceHints) error {
	cm := b.CompileManager()
	var total CompileResult
	for _, cg := range b.graphs {
		for _, rg := range cg.Children() {
			if rg.View != nil {
				cm.Add(cg.Window, rg.View)
			}
		}
	}
	for _, cg := range b.graphs {
		for _, rg := range cg.Children() {
			total.Add(cm.Compile(rg, nil))
		}
	}
	if total.RequiresViewerUpdate() {
		b.UpdateViewer(total)
	}
	logger().Debug("viewer compiled",
		"graphs", len(b.graphs), "nodes", total.Compiled,
		"descriptorSets", hints.NumDescriptorSets)
	return total.Err
}

// UpdateViewer records the result's dynamic nodes. A node reported by
// several views is tracked once.
func (b *ViewerBase) UpdateViewer(result CompileResult) {
	for _, n := range result.DynamicNodes {
		if !slices.Contains(b.dynamic, n) {
			b.dynamic = append(b.dynamic, n)
		}
	}
}

// DynamicNodes returns nodes absorbed through UpdateViewer.
func (b *ViewerBase) DynamicNodes() []*Node {
	return b.dynamic
}

// TransferDynamic drops disposed dynamic nodes and runs OnTransfer on the
// rest. RecordGraphs calls it before recording.
func (b *ViewerBase) TransferDynamic() {
	b.dynamic = slices.DeleteFunc(b.dynamic, (*Node).IsDisposed)
	for _, n := range b.dynamic {
		if n.OnTransfer != nil {
			n.OnTransfer(b.stamp)
		}
	}
}

// Active reports whether the viewer is still running.
func (b *ViewerBase) Active() bool {
	return !b.closed
}

// Close stops the viewer; the next AdvanceToNextFrame returns false.
func (b *ViewerBase) Close() {
	b.closed = true
}

// compileManager is the shared CompileManager used by ViewerBase.
type compileManager struct {
	contexts []*CompileContext
	defines  func() []string
}

func (cm *compileManager) Add(w *Window, view *View) {
	for _, c := range cm.contexts {
		if c.Window == w && c.View == view {
			return
		}
	}
	cm.contexts = append(cm.contexts, &CompileContext{Window: w, View: view})
}

func (cm *compileManager) Compile(rg *RenderGraph, match func(*CompileContext) bool) CompileResult {
	var res CompileResult
	if rg == nil || rg.View == nil {
		return res
	}
	for _, ctx := range cm.contexts {
		if ctx.View != rg.View {
			continue
		}
		if match != nil && !match(ctx) {
			continue
		}
		cm.refreshDefines(ctx)
		rg.View.Walk(func(n *Node) bool {
			res.Add(compileNode(n, ctx))
			return true
		})
	}
	return res
}

func (cm *compileManager) CompileNode(n *Node) CompileResult {
	var res CompileResult
	for _, ctx := range cm.contexts {
		cm.refreshDefines(ctx)
		n.Walk(func(c *Node) bool {
			res.Add(compileNode(c, ctx))
			return true
		})
	}
	return res
}

func (cm *compileManager) RebuildPipelines(rg *RenderGraph) {
	rg.PipelineRevision++
}

func (cm *compileManager) refreshDefines(ctx *CompileContext) {
	if cm.defines != nil {
		ctx.ShaderDefines = cm.defines()
	}
}

func compileNode(n *Node, ctx *CompileContext) CompileResult {
	var res CompileResult
	ran, err := n.compileFor(ctx)
	if err != nil {
		res.Err = err
		return res
	}
	if ran {
		res.Compiled++
	}
	// Nodes without a compile hook have nothing to compile but still need
	// per-frame transfer.
	if n.Dynamic && (ran || n.OnCompile == nil) {
		res.DynamicNodes = append(res.DynamicNodes, n)
	}
	return res
}
