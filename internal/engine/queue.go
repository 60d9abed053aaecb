package engine

import (
	"sync"

	"github.com/roach88/arbor/internal/fiber"
)

// taskKind distinguishes queued tasks.
type taskKind int

const (
	// taskMount starts a build from a new root element.
	taskMount taskKind = iota + 1
	// taskUpdate starts a build from a copy of the current root.
	taskUpdate
	// taskWork resumes the work loop.
	taskWork
	// taskCall runs a Dispatch callback.
	taskCall
)

func (k taskKind) String() string {
	switch k {
	case taskMount:
		return "mount"
	case taskUpdate:
		return "update"
	case taskWork:
		return "work"
	case taskCall:
		return "call"
	default:
		return "unknown"
	}
}

// task is one unit of driver-loop work.
type task struct {
	kind      taskKind
	element   fiber.Element
	container fiber.Handle
	fn        func()
}

// taskQueue is a thread-safe FIFO queue for tasks.
//
// Thread-safety is provided for external enqueuing (Render, Dispatch,
// setters on other goroutines) while the driver loop dequeues.
//
// The queue uses a channel for signaling to enable context-aware waiting
// in the Run loop.
type taskQueue struct {
	mu     sync.Mutex
	tasks  []task
	closed bool
	signal chan struct{} // Signals task availability (buffered, size 1)
}

func newTaskQueue() *taskQueue {
	return &taskQueue{
		tasks:  make([]task, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds a task to the back of the queue.
// Returns false if the queue is closed.
func (q *taskQueue) Enqueue(t task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.tasks = append(q.tasks, t)

	// Non-blocking: buffer of 1 coalesces multiple signals
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue attempts to dequeue without blocking.
// Returns (task{}, false) if the queue is empty.
func (q *taskQueue) TryDequeue() (task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return task{}, false
	}

	t := q.tasks[0]

	// Drop references held by the backing array.
	q.tasks[0] = task{}

	if len(q.tasks) == 1 {
		q.tasks = q.tasks[:0]
	} else {
		q.tasks = q.tasks[1:]
	}

	return t, true
}

// Wait returns a channel that signals when tasks may be available.
// The channel is closed when the queue is closed.
func (q *taskQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Closed reports whether Close has been called.
func (q *taskQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close signals that no more tasks will be enqueued.
// Wakes any blocked waiters by closing the signal channel.
func (q *taskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
