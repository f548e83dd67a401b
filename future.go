package geoview

import (
	"context"
	"sync"
)

// Future is a single-assignment result cell used to hand back resources that
// are created on the frame goroutine after the caller asked for them. The
// zero Future is empty: it never resolves.
//
// A Future is a small handle; copies share the same cell.
type Future[T any] struct {
	c *futureCell[T]
}

type futureCell[T any] struct {
	mu       sync.Mutex
	done     chan struct{}
	resolved bool
	value    T
	err      error
}

// NewFuture returns an unresolved Future.
func NewFuture[T any]() Future[T] {
	return Future[T]{c: &futureCell[T]{done: make(chan struct{})}}
}

// ResolvedFuture returns a Future already holding v.
func ResolvedFuture[T any](v T) Future[T] {
	f := NewFuture[T]()
	f.Resolve(v)
	return f
}

// Resolve stores v and wakes every waiter. Resolving a Future twice is a
// programmer error and panics; the stored value is never overwritten.
func (f Future[T]) Resolve(v T) {
	f.settle(v, nil)
}

// Fail resolves the Future with an error instead of a value. The same
// single-assignment rule as Resolve applies.
func (f Future[T]) Fail(err error) {
	var zero T
	f.settle(zero, err)
}

func (f Future[T]) settle(v T, err error) {
	if f.c == nil {
		panic("geoview: resolve on empty future")
	}
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if f.c.resolved {
		panic("geoview: future resolved twice")
	}
	f.c.value = v
	f.c.err = err
	f.c.resolved = true
	close(f.c.done)
}

// Available reports whether the Future has been resolved or failed.
func (f Future[T]) Available() bool {
	if f.c == nil {
		return false
	}
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	return f.c.resolved
}

// Empty reports whether f is the zero Future.
func (f Future[T]) Empty() bool {
	return f.c == nil
}

// Done returns a channel closed once the Future settles. The zero Future
// returns nil, which blocks forever in a select.
func (f Future[T]) Done() <-chan struct{} {
	if f.c == nil {
		return nil
	}
	return f.c.done
}

// Value returns the resolved value without blocking. It returns the zero
// value while the Future is pending or when it failed.
func (f Future[T]) Value() T {
	var zero T
	if f.c == nil {
		return zero
	}
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if !f.c.resolved || f.c.err != nil {
		return zero
	}
	return f.c.value
}

// Get blocks until the Future settles or ctx is done.
//
// Registry futures settle during the next queue drain on the frame
// goroutine, so calling Get from the frame goroutine itself before that
// drain deadlocks; use Available or Value there.
func (f Future[T]) Get(ctx context.Context) (T, error) {
	var zero T
	if f.c == nil {
		return zero, ErrEmptyFuture
	}
	select {
	case <-f.c.done:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	return f.c.value, f.c.err
}
