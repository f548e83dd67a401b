package geoview

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"
)

// disposeDelay is how many update passes a disposed node survives, so that
// frames already recorded against it finish first.
const disposeDelay = 3

type pendingDisposal struct {
	node    *Node
	release uint64
}

// Runtime is the per-application link between the scene and the viewer: the
// deferred update queue, compilation of new scene data, deferred disposal
// and shared shader settings.
type Runtime struct {
	// AsyncCompile defers Compile calls to the next Update. When false,
	// Compile runs immediately on the calling goroutine.
	AsyncCompile bool

	viewer Viewer
	queue  UpdateQueue

	compileMu sync.Mutex
	toCompile []*Node

	updates   uint64
	disposals []pendingDisposal

	definesMu      sync.Mutex
	shaderDefines  map[string]struct{}
	shaderRevision uint64

	jobs   *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRuntime creates a runtime whose background jobs run at most concurrency
// at a time.
func NewRuntime(concurrency uint) *Runtime {
	if concurrency == 0 {
		concurrency = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runtime{
		AsyncCompile:  true,
		shaderDefines: make(map[string]struct{}),
		jobs:          semaphore.NewWeighted(int64(concurrency)),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Viewer returns the viewer the runtime currently compiles for.
func (rt *Runtime) Viewer() Viewer {
	return rt.viewer
}

func (rt *Runtime) setViewer(v Viewer) {
	rt.viewer = v
}

// Queue returns the deferred update queue.
func (rt *Runtime) Queue() *UpdateQueue {
	return &rt.queue
}

// RunDuringUpdate queues t to run during the next update pass. This is the
// safe way to modify the scene or create GPU objects once the application is
// running. It may be called from any goroutine.
func (rt *Runtime) RunDuringUpdate(t Task) {
	rt.queue.Push(t)
}

// Compile compiles n for every registered view, now or during the next
// update depending on AsyncCompile. Only call it with AsyncCompile false
// from the frame goroutine.
func (rt *Runtime) Compile(n *Node) {
	if n == nil {
		return
	}
	if rt.AsyncCompile || rt.viewer == nil {
		rt.compileMu.Lock()
		rt.toCompile = append(rt.toCompile, n)
		rt.compileMu.Unlock()
		return
	}
	rt.compileNow(n)
}

func (rt *Runtime) compileNow(n *Node) {
	res := rt.viewer.CompileManager().CompileNode(n)
	if res.Err != nil {
		logger().Error("compile failed", "node", n.Name, "err", res.Err)
	}
	if res.RequiresViewerUpdate() {
		rt.viewer.UpdateViewer(res)
	}
}

// Dispose releases n after a few update passes. Replaced GPU objects must go
// through here rather than being released while a recorded frame may still
// reference them.
func (rt *Runtime) Dispose(n *Node) {
	if n == nil {
		return
	}
	rt.disposals = append(rt.disposals, pendingDisposal{node: n, release: rt.updates + disposeDelay})
}

// PendingDisposals returns the number of nodes waiting to be released.
func (rt *Runtime) PendingDisposals() int {
	return len(rt.disposals)
}

// DefineShader adds a shader define and bumps the shader revision.
func (rt *Runtime) DefineShader(name string) {
	rt.definesMu.Lock()
	defer rt.definesMu.Unlock()
	if _, ok := rt.shaderDefines[name]; ok {
		return
	}
	rt.shaderDefines[name] = struct{}{}
	rt.shaderRevision++
}

// ShaderDefines returns the shader defines in sorted order.
func (rt *Runtime) ShaderDefines() []string {
	rt.definesMu.Lock()
	defer rt.definesMu.Unlock()
	out := make([]string, 0, len(rt.shaderDefines))
	for d := range rt.shaderDefines {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// DirtyShaders signals that shader settings changed; clients poll
// ShaderRevision to regenerate their pipelines.
func (rt *Runtime) DirtyShaders() {
	rt.definesMu.Lock()
	rt.shaderRevision++
	rt.definesMu.Unlock()
}

// ShaderRevision returns the shader settings revision.
func (rt *Runtime) ShaderRevision() uint64 {
	rt.definesMu.Lock()
	defer rt.definesMu.Unlock()
	return rt.shaderRevision
}

// CompileAndAddChild runs factory on a background goroutine, then compiles
// the node it returns and adds it to parent during an update pass. The
// future resolves true once the child is in the scene, false when the
// factory returned nil, or fails with the factory's error.
func (rt *Runtime) CompileAndAddChild(parent *Node, factory func(context.Context) (*Node, error)) Future[bool] {
	result := NewFuture[bool]()
	if parent == nil || factory == nil {
		panic("geoview: CompileAndAddChild requires a parent and a factory")
	}
	go func() {
		if err := rt.jobs.Acquire(rt.ctx, 1); err != nil {
			result.Fail(err)
			return
		}
		node, err := factory(rt.ctx)
		rt.jobs.Release(1)
		if err != nil {
			result.Fail(fmt.Errorf("create child of %q: %w", parent.Name, err))
			return
		}
		if node == nil {
			result.Resolve(false)
			return
		}
		rt.RunDuringUpdate(TaskFunc(func() {
			if rt.viewer != nil {
				rt.compileNow(node)
			}
			parent.AddChild(node)
			result.Resolve(true)
		}))
	}()
	return result
}

// RemoveNode removes the child at index from parent during the next update
// pass and disposes it once in-flight frames are done with it.
func (rt *Runtime) RemoveNode(parent *Node, index int) {
	rt.RunDuringUpdate(TaskFunc(func() {
		if !softAssert(index >= 0 && index < parent.NumChildren(),
			"RemoveNode index out of range", "parent", parent.Name, "index", index) {
			return
		}
		rt.Dispose(parent.RemoveChildAt(index))
	}))
}

// Update runs the deferred update queue, integrates pending compiles and
// releases expired disposals. The frame driver calls it once per frame.
func (rt *Runtime) Update() {
	rt.queue.Drain()

	if rt.viewer != nil {
		rt.compileMu.Lock()
		pending := rt.toCompile
		rt.toCompile = nil
		rt.compileMu.Unlock()
		for _, n := range pending {
			if !n.IsDisposed() {
				rt.compileNow(n)
			}
		}
	}

	rt.updates++
	kept := rt.disposals[:0]
	for _, d := range rt.disposals {
		if d.release <= rt.updates {
			d.node.Dispose()
			continue
		}
		kept = append(kept, d)
	}
	for i := len(kept); i < len(rt.disposals); i++ {
		rt.disposals[i] = pendingDisposal{}
	}
	rt.disposals = kept
}

// Close cancels background jobs that have not started.
func (rt *Runtime) Close() {
	rt.cancel()
}
