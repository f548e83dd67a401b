package geoview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeDisposeAgesOut(t *testing.T) {
	rt := NewRuntime(1)
	n := NewGroup("old")
	rt.Dispose(n)
	rt.Dispose(nil)
	require.Equal(t, 1, rt.PendingDisposals())

	for i := 0; i < disposeDelay-1; i++ {
		rt.Update()
		assert.False(t, n.IsDisposed(), "update %d", i)
	}
	rt.Update()
	assert.True(t, n.IsDisposed())
	assert.Zero(t, rt.PendingDisposals())
}

func TestRuntimeShaderDefines(t *testing.T) {
	rt := NewRuntime(1)
	rev := rt.ShaderRevision()

	rt.DefineShader("B")
	rt.DefineShader("A")
	rt.DefineShader("A")

	assert.Equal(t, []string{"A", "B"}, rt.ShaderDefines())
	assert.Equal(t, rev+2, rt.ShaderRevision())

	rt.DirtyShaders()
	assert.Equal(t, rev+3, rt.ShaderRevision())
}

func TestRuntimeCompileAsyncWaitsForUpdate(t *testing.T) {
	app, _ := newTestApp()
	app.Frame()

	calls := 0
	n := NewGroup("late")
	n.OnCompile = func(*CompileContext) error { calls++; return nil }

	app.Runtime.Compile(n)
	assert.Zero(t, calls)
	app.Runtime.Update()
	assert.Equal(t, 1, calls, "one registered view")
}

func TestRuntimeCompileSync(t *testing.T) {
	app, _ := newTestApp()
	app.Frame()
	app.Runtime.AsyncCompile = false

	n := NewGroup("now")
	n.Dynamic = true
	var defines []string
	n.OnCompile = func(ctx *CompileContext) error { defines = ctx.ShaderDefines; return nil }

	app.Runtime.Compile(n)

	assert.Contains(t, defines, "GV_LIGHTING")
	assert.Contains(t, current(app).DynamicNodes(), n)
}

func TestRuntimeCompileBeforeViewerKeepsNode(t *testing.T) {
	rt := NewRuntime(1)
	calls := 0
	n := NewGroup("n")
	n.OnCompile = func(*CompileContext) error { calls++; return nil }
	rt.Compile(n)
	rt.Update()

	app, _ := newTestApp()
	app.Frame()
	rt.setViewer(app.Viewer())
	rt.Update()
	assert.Equal(t, 1, calls)
}

func TestRuntimeCompileAndAddChild(t *testing.T) {
	app, _ := newTestApp()
	app.Frame()

	compiled := false
	f := app.Runtime.CompileAndAddChild(app.MainScene, func(context.Context) (*Node, error) {
		n := NewGroup("tile")
		n.OnCompile = func(*CompileContext) error { compiled = true; return nil }
		return n, nil
	})

	require.Eventually(t, func() bool { return app.Runtime.Queue().Len() == 1 },
		time.Second, time.Millisecond)
	assert.False(t, f.Available(), "added only during an update pass")

	app.Runtime.Update()

	ok, err := f.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, compiled)
	last := app.MainScene.ChildAt(app.MainScene.NumChildren() - 1)
	assert.Equal(t, "tile", last.Name)
}

func TestRuntimeCompileAndAddChildNilAndError(t *testing.T) {
	rt := NewRuntime(2)
	parent := NewGroup("p")
	boom := errors.New("boom")

	none := rt.CompileAndAddChild(parent, func(context.Context) (*Node, error) { return nil, nil })
	failed := rt.CompileAndAddChild(parent, func(context.Context) (*Node, error) { return nil, boom })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ok, err := none.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = failed.Get(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, parent.NumChildren())
}

func TestRuntimeCloseCancelsPendingJobs(t *testing.T) {
	rt := NewRuntime(1)
	release := make(chan struct{})
	started := make(chan struct{})
	first := rt.CompileAndAddChild(NewGroup("p"), func(context.Context) (*Node, error) {
		close(started)
		<-release
		return nil, nil
	})
	<-started
	second := rt.CompileAndAddChild(NewGroup("p"), func(ctx context.Context) (*Node, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return NewGroup("never"), nil
	})

	rt.Close()
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := second.Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = first.Get(ctx)
	assert.NoError(t, err)
}

func TestRuntimeRemoveNode(t *testing.T) {
	rt := NewRuntime(1)
	parent := NewGroup("p")
	a := NewGroup("a")
	parent.AddChild(a)

	rt.RemoveNode(parent, 0)
	rt.RemoveNode(parent, 5)
	assert.Equal(t, 1, parent.NumChildren(), "removal waits for the update pass")

	rt.Update()
	assert.Zero(t, parent.NumChildren())
	assert.False(t, a.IsDisposed(), "disposal is delayed")

	for i := 0; i < disposeDelay; i++ {
		rt.Update()
	}
	assert.True(t, a.IsDisposed())
}
