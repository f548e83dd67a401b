package geoview

// --- ID counter ---

// nodeIDCounter is a plain counter; nodes are created on the frame goroutine
// or before the loop starts.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// RecordContext carries per-render-graph state to a node's OnRecord hook.
type RecordContext struct {
	Window *Window
	View   *View
	Camera *Camera
	// RenderArea is the window rectangle being recorded into.
	RenderArea Rect
	// Target is backend specific (an *ebiten.Image for the Ebitengine
	// backend).
	Target any
	Frame  FrameStamp
}

// CompileContext carries per-view state to a node's OnCompile hook.
type CompileContext struct {
	Window *Window
	View   *View
	// ShaderDefines is a snapshot of the runtime's shader defines.
	ShaderDefines []string
}

// Node is the scene graph element. A single flat struct is used for all node
// kinds; behavior is attached through the hook fields.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	Visible bool

	// Dynamic marks nodes whose GPU data changes after compilation; the
	// viewer tracks them for per-frame transfer.
	Dynamic bool

	// Metadata
	UserData any

	// OnCompile is called once per view the node is reachable from, when
	// the view's render graph is compiled.
	OnCompile func(*CompileContext) error
	// OnRecord is called every frame for every render graph that reaches
	// the node.
	OnRecord func(*RecordContext)
	// OnDispose is called when a deferred disposal finally releases the
	// node.
	OnDispose func()
	// OnTransfer is called once per frame, before recording, on Dynamic
	// nodes the viewer has absorbed.
	OnTransfer func(FrameStamp)

	compiled map[*View]bool
	disposed bool
}

// NewGroup creates a node with no behavior of its own.
func NewGroup(name string) *Node {
	return &Node{ID: nextNodeID(), Name: name, Visible: true}
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("geoview: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("geoview: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("geoview: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("geoview: adding child would create a cycle")
	}
	if index < 0 || index > len(n.children) {
		panic("geoview: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("geoview: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("geoview: child index out of range")
	}
	child := n.children[index]
	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.Parent = nil
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Walk calls fn for n and every visible descendant in depth-first order.
// Returning false from fn skips that node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !n.Visible || n.disposed {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	if n.OnDispose != nil {
		n.OnDispose()
	}
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.UserData = nil
	n.compiled = nil
	n.OnCompile = nil
	n.OnRecord = nil
	n.OnDispose = nil
	n.OnTransfer = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// compileFor runs the OnCompile hook once per view. It reports whether the
// hook ran.
func (n *Node) compileFor(ctx *CompileContext) (bool, error) {
	if n.OnCompile == nil || n.compiled[ctx.View] {
		return false, nil
	}
	if err := n.OnCompile(ctx); err != nil {
		return false, err
	}
	if n.compiled == nil {
		n.compiled = make(map[*View]bool)
	}
	n.compiled[ctx.View] = true
	return true, nil
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
