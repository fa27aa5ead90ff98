package msgqueue

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Task is one unit of serialized work
type Task func(ctx context.Context) error

// Queue runs posted tasks strictly in post order, one at a time, on a
// single goroutine. It backs the editor/view protocol's ordering
// guarantee: no reordering, no concurrent handlers. Host commands that
// touch the editor go through the same queue, so the draft is only
// ever mutated from one goroutine.
type Queue struct {
	ch   chan Task
	done chan struct{}
}

// New creates a queue. Run must be called before posted tasks execute.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 64
	}
	return &Queue{
		ch:   make(chan Task, capacity),
		done: make(chan struct{}),
	}
}

// Post enqueues a task. It fails when the queue is full or closed
// rather than blocking the caller.
func (q *Queue) Post(task Task) error {
	select {
	case <-q.done:
		return goerr.New("message queue is closed")
	default:
	}

	select {
	case q.ch <- task:
		return nil
	default:
		return goerr.New("message queue is full")
	}
}

// Run consumes tasks until the context is cancelled. Task panics and
// errors are logged, never propagated, so one bad message cannot stall
// the session.
func (q *Queue) Run(ctx context.Context) {
	defer close(q.done)

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-q.ch:
			q.dispatch(ctx, task)
		}
	}
}

func (q *Queue) dispatch(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.From(ctx).Error("panic in queued task",
				"recover", r,
				"stack", string(debug.Stack()))
		}
	}()

	if err := task(ctx); err != nil {
		ctxlog.From(ctx).Error("error in queued task", "error", err)
	}
}
