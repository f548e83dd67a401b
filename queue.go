package geoview

import (
	"fmt"
	"sync"
)

// Task is a unit of deferred work run on the frame goroutine.
type Task interface {
	Run()
}

// TaskFunc adapts a plain function to a Task.
type TaskFunc func()

// Run calls f.
func (f TaskFunc) Run() { f() }

func (f TaskFunc) String() string { return "func" }

// UpdateQueue is the deferred update queue. Push may be called from any
// goroutine; Drain is called once per frame by the frame driver.
type UpdateQueue struct {
	mu    sync.Mutex
	tasks []Task
	spare []Task
}

// Push appends t to the queue. Nil tasks are ignored.
func (q *UpdateQueue) Push(t Task) {
	if t == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()
}

// Len returns the number of pending tasks.
func (q *UpdateQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Pending returns a description of every pending task, in run order.
func (q *UpdateQueue) Pending() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, len(q.tasks))
	for i, t := range q.tasks {
		out[i] = taskName(t)
	}
	return out
}

// Drain runs every task queued at the moment draining begins, in FIFO order,
// and returns how many ran. Tasks pushed while draining run on the next
// Drain.
func (q *UpdateQueue) Drain() int {
	q.mu.Lock()
	batch := q.tasks
	q.tasks = q.spare[:0]
	q.spare = nil
	q.mu.Unlock()

	for i, t := range batch {
		t.Run()
		batch[i] = nil
	}

	q.mu.Lock()
	q.spare = batch[:0]
	q.mu.Unlock()
	return len(batch)
}

func taskName(t Task) string {
	if s, ok := t.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", t)
}
