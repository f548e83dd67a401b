package geoview

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type namedTask struct {
	name string
	log  *[]string
}

func (t namedTask) Run()           { *t.log = append(*t.log, t.name) }
func (t namedTask) String() string { return t.name }

type anonTask struct{}

func (anonTask) Run() {}

func TestQueueFIFO(t *testing.T) {
	var q UpdateQueue
	var log []string
	for _, n := range []string{"a", "b", "c"} {
		q.Push(namedTask{n, &log})
	}

	assert.Equal(t, 3, q.Drain())
	assert.Equal(t, []string{"a", "b", "c"}, log)
	assert.Zero(t, q.Len())
}

func TestQueuePushDuringDrainRunsNextDrain(t *testing.T) {
	var q UpdateQueue
	var log []string
	q.Push(TaskFunc(func() {
		log = append(log, "first")
		q.Push(TaskFunc(func() { log = append(log, "second") }))
	}))

	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, []string{"first"}, log)
	assert.Equal(t, 1, q.Len())

	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, []string{"first", "second"}, log)
}

func TestQueueIgnoresNil(t *testing.T) {
	var q UpdateQueue
	q.Push(nil)
	assert.Zero(t, q.Len())
}

func TestQueuePending(t *testing.T) {
	var q UpdateQueue
	var log []string
	q.Push(namedTask{"addView", &log})
	q.Push(TaskFunc(func() {}))
	q.Push(anonTask{})

	assert.Equal(t, []string{"addView", "func", "geoview.anonTask"}, q.Pending())
}

func TestQueueConcurrentPush(t *testing.T) {
	var q UpdateQueue
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(anonTask{})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, q.Drain())
}
