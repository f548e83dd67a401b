package geoview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureResolve(t *testing.T) {
	f := NewFuture[int]()
	assert.False(t, f.Available())
	assert.Zero(t, f.Value())

	f.Resolve(7)

	assert.True(t, f.Available())
	assert.Equal(t, 7, f.Value())
	v, err := f.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestFutureCopiesShareCell(t *testing.T) {
	f := NewFuture[string]()
	g := f
	f.Resolve("x")
	assert.Equal(t, "x", g.Value())
}

func TestFutureResolveTwicePanics(t *testing.T) {
	f := ResolvedFuture(1)
	assert.PanicsWithValue(t, "geoview: future resolved twice", func() { f.Resolve(2) })
	assert.Equal(t, 1, f.Value())
}

func TestFutureFail(t *testing.T) {
	boom := errors.New("boom")
	f := NewFuture[*Window]()
	f.Fail(boom)

	assert.True(t, f.Available())
	assert.Nil(t, f.Value())
	_, err := f.Get(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Panics(t, func() { f.Resolve(nil) })
}

func TestFutureEmpty(t *testing.T) {
	var f Future[int]
	assert.True(t, f.Empty())
	assert.False(t, f.Available())
	assert.Nil(t, f.Done())

	_, err := f.Get(context.Background())
	assert.ErrorIs(t, err, ErrEmptyFuture)
	assert.Panics(t, func() { f.Resolve(1) })
}

func TestFutureGetWaits(t *testing.T) {
	f := NewFuture[int]()
	var wg sync.WaitGroup
	var got int
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, _ = f.Get(context.Background())
	}()
	f.Resolve(42)
	wg.Wait()
	assert.Equal(t, 42, got)
}

func TestFutureGetContextDone(t *testing.T) {
	f := NewFuture[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Get(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, f.Available())
}
