package worker

import (
	"context"
	"runtime"
	"strconv"
	"sync/atomic"

	"github.com/viant/multiproc/errors"
	"github.com/viant/multiproc/progress"
	"github.com/viant/multiproc/tracing"
)

// Task is the work a thread runs. It is not cancellable: Run is expected to
// return once its work is done, whatever happens to ctx.
type Task interface {
	Run(ctx context.Context, t *Thread) error
}

// TaskFunc adapts a function to Task.
type TaskFunc func(ctx context.Context, t *Thread) error

// Run calls f.
func (f TaskFunc) Run(ctx context.Context, t *Thread) error {
	return f(ctx, t)
}

// Thread runs a task on a goroutine locked to its own OS thread.
type Thread struct {
	ID int

	task    Task
	cpu     int
	state   int32
	started int32
	done    chan struct{}
	err     error
}

// New creates a thread in the Created state.
func New(id int, task Task, opts ...Option) *Thread {
	t := &Thread{ID: id, task: task, cpu: -1, done: make(chan struct{})}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns the current state.
func (t *Thread) State() State {
	return State(atomic.LoadInt32(&t.state))
}

// Start launches the thread and returns once it is running. It fails with
// ErrThreadCreationFailed when the thread was already started or could not
// be placed on its CPU.
func (t *Thread) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&t.started, 0, 1) {
		return errors.Newf(errors.ErrThreadCreationFailed, "thread %d already started", t.ID)
	}
	ready := make(chan error, 1)
	go t.run(ctx, ready)
	if err := <-ready; err != nil {
		return errors.WrapCode(err, errors.ErrThreadCreationFailed, "start thread "+strconv.Itoa(t.ID))
	}
	return nil
}

func (t *Thread) run(ctx context.Context, ready chan<- error) {
	defer close(t.done)
	// The OS thread is never unlocked: when the goroutine exits the runtime
	// discards it together with its affinity mask.
	runtime.LockOSThread()
	if t.cpu >= 0 {
		if err := pin(t.cpu); err != nil {
			t.err = err
			ready <- err
			return
		}
	}
	ctx, span := tracing.StartSpan(ctx, "thread.Run")
	span.WithAttributes(map[string]string{"thread.id": strconv.Itoa(t.ID)})
	progress.UpdateCtx(ctx, progress.Delta{Created: 1})
	t.Advance(ctx, Running)
	ready <- nil

	err := t.task.Run(ctx, t)
	t.err = err
	t.Advance(ctx, Finished)
	tracing.EndSpan(span, err)
}

// Advance moves the thread to state and records the transition in the
// progress tracker carried by ctx. Tasks call it for intermediate states.
func (t *Thread) Advance(ctx context.Context, state State) {
	prev := State(atomic.SwapInt32(&t.state, int32(state)))
	if prev == state {
		return
	}
	var delta progress.Delta
	switch state {
	case Running:
		delta.Running++
	case ReportWritten:
		delta.Reports++
	case Finished:
		delta.Finished++
		if prev != Created {
			delta.Running--
		}
	}
	progress.UpdateCtx(ctx, delta)
}

// Wait blocks until the thread finished and returns the task error.
func (t *Thread) Wait() error {
	if atomic.LoadInt32(&t.started) == 0 {
		return errors.Newf(errors.ErrThreadCreationFailed, "thread %d was never started", t.ID)
	}
	<-t.done
	return t.err
}

// Detach starts task on a new thread and forgets it. Only a start failure is
// reported; the outcome of the task is observable through its side effects.
func Detach(ctx context.Context, id int, task Task, opts ...Option) error {
	return New(id, task, opts...).Start(ctx)
}
