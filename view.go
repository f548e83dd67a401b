package geoview

var viewIDCounter uint32

// View is a camera plus an attachment point for scene subgraphs. Children
// are not owned: the same scene root is shared by every view.
type View struct {
	ID       uint32
	Name     string
	Camera   *Camera
	children []*Node
}

// NewView creates a view with the given camera and optional children.
func NewView(camera *Camera, children ...*Node) *View {
	viewIDCounter++
	v := &View{ID: viewIDCounter, Camera: camera}
	for _, c := range children {
		v.AddChild(c)
	}
	return v
}

// AddChild attaches a scene subgraph to the view. Nil is ignored.
func (v *View) AddChild(n *Node) {
	if n == nil {
		return
	}
	v.children = append(v.children, n)
}

// RemoveChild detaches n from the view. It reports whether n was attached.
func (v *View) RemoveChild(n *Node) bool {
	for i, c := range v.children {
		if c == n {
			copy(v.children[i:], v.children[i+1:])
			v.children[len(v.children)-1] = nil
			v.children = v.children[:len(v.children)-1]
			return true
		}
	}
	return false
}

// Children returns the attached subgraphs. The returned slice MUST NOT be
// mutated.
func (v *View) Children() []*Node {
	return v.children
}

// NumChildren returns the number of attached subgraphs.
func (v *View) NumChildren() int {
	return len(v.children)
}

// Walk visits every visible node reachable from the view.
func (v *View) Walk(fn func(*Node) bool) {
	for _, c := range v.children {
		c.Walk(fn)
	}
}
