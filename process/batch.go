package process

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"github.com/viant/multiproc/errors"
	"github.com/viant/multiproc/internal/clock"
	"github.com/viant/multiproc/internal/console"
	"github.com/viant/multiproc/logger"
	"github.com/viant/multiproc/progress"
	"github.com/viant/multiproc/tracing"
	"github.com/viant/multiproc/worker"
)

// Batch is the worker process of the threads mode: it starts Threads
// simulated threads, waits for all of them and reports completion.
type Batch struct {
	ID       int
	Threads  int
	Duration time.Duration
	// PinThreads pins thread i of process p to CPU (p*Threads+i) mod CPUs.
	PinThreads bool
	// CPUs is the number of logical CPUs to place threads on, runtime.NumCPU
	// when 0.
	CPUs   int
	Out    *console.Console
	Logger logger.Logger

	start func(ctx context.Context, thread *worker.Thread) error
}

// Run starts the threads and blocks until every one has finished. A thread
// that fails to start fails the batch with ErrThreadCreationFailed; threads
// already started are left to finish on their own.
func (b *Batch) Run(ctx context.Context) (err error) {
	ctx, span := tracing.StartSpan(ctx, "process.Run")
	span.WithAttributes(map[string]string{"process.id": strconv.Itoa(b.ID), "process.role": string(RoleThreads)})
	defer func() { tracing.EndSpan(span, err) }()
	log := b.logger()
	ctx, tracker := progress.WithNewTracker(ctx, b.ID, func(counts progress.Counts) {
		log.Debugf("process %d: %d created, %d running, %d finished", b.ID, counts.Created, counts.Running, counts.Finished)
	})
	start := b.start
	if start == nil {
		start = func(ctx context.Context, thread *worker.Thread) error { return thread.Start(ctx) }
	}

	cpus := b.CPUs
	if cpus <= 0 {
		cpus = runtime.NumCPU()
	}
	b.Out.Linef("Prozess %d startet.", b.ID)
	task := &worker.Sleep{Duration: b.Duration, Out: b.Out}
	threads := make([]*worker.Thread, 0, b.Threads)
	for i := 0; i < b.Threads; i++ {
		var options []worker.Option
		if b.PinThreads {
			options = append(options, worker.WithCPU((b.ID*b.Threads+i)%cpus))
		}
		thread := worker.New(i, task, options...)
		if err = start(ctx, thread); err != nil {
			log.Errorf("process %d: %v", b.ID, err)
			return err
		}
		threads = append(threads, thread)
	}
	for _, thread := range threads {
		if wErr := thread.Wait(); wErr != nil && err == nil {
			err = wErr
		}
	}
	if err != nil {
		return err
	}
	counts := tracker.Snapshot()
	if !counts.Done() || counts.Finished != b.Threads {
		return errors.Newf(errors.ErrUncoded, "process %d: %d of %d threads finished", b.ID, counts.Finished, b.Threads)
	}
	log.Debugf("process %d: %d threads joined after %v", b.ID, b.Threads, clock.Since(counts.StartedAt))
	b.Out.Linef("Prozess %d beendet.", b.ID)
	return nil
}

func (b *Batch) logger() logger.Logger {
	if b.Logger == nil {
		return logger.NopLogger
	}
	return b.Logger
}
