package geoview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewView(t *testing.T) {
	cam := NewCamera(Perspective{}, LookAt{}, Rect{})
	a := NewGroup("a")
	v := NewView(cam, a, nil)
	w := NewView(cam)

	assert.NotEqual(t, v.ID, w.ID)
	assert.Same(t, cam, v.Camera)
	assert.Equal(t, []*Node{a}, v.Children())
}

func TestViewRemoveChild(t *testing.T) {
	a, b := NewGroup("a"), NewGroup("b")
	v := NewView(nil, a, b)

	assert.True(t, v.RemoveChild(a))
	assert.False(t, v.RemoveChild(a))
	assert.Equal(t, 1, v.NumChildren())
	assert.Same(t, b, v.Children()[0])
}

func TestViewSharesChildrenWithoutReparenting(t *testing.T) {
	root := NewGroup("root")
	v1 := NewView(nil, root)
	v2 := NewView(nil, root)

	assert.Nil(t, root.Parent)
	var n1, n2 int
	v1.Walk(func(*Node) bool { n1++; return true })
	v2.Walk(func(*Node) bool { n2++; return true })
	assert.Equal(t, 1, n1)
	assert.Equal(t, 1, n2)
}
