package process

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/viant/multiproc/errors"
	"github.com/viant/multiproc/internal/console"
	"github.com/viant/multiproc/logger"
	"github.com/viant/multiproc/progress"
	"github.com/viant/multiproc/tracing"
	"github.com/viant/multiproc/worker"
)

// DefaultRefresh is the display refresh period.
const DefaultRefresh = 100 * time.Millisecond

// Counter is the shared counter as seen by a display.
type Counter interface {
	Increment(delta int32) error
	Decrement(delta int32) error
	Reset() error
	Value() (int32, error)
}

// Inbox is the channel a display reads its peer's report from.
type Inbox interface {
	ReadTrimmed() (string, error)
}

// Display is the worker process of the counter and report modes.
type Display struct {
	ID    int
	Role  Role
	Title string
	// Peer is the process whose reports arrive in Inbox.
	Peer     int
	Counter  Counter
	Inbox    Inbox
	Outbox   worker.ReportWriter
	Refresh  time.Duration
	Duration time.Duration
	Script   []Action
	// Input, when set, supplies interactive actions; its EOF ends the loop.
	Input      io.Reader
	Iterations int
	Checkpoint int
	Out        *console.Console
	Logger     logger.Logger

	render  *renderer
	tracker *progress.Progress
	reports int
}

// Run renders the counter and the inbound report every Refresh and
// dispatches actions until quit, Duration elapsing, EOF of Input or ctx
// being done.
func (d *Display) Run(ctx context.Context) (err error) {
	ctx, span := tracing.StartSpan(ctx, "process.Run")
	span.WithAttributes(map[string]string{"process.id": strconv.Itoa(d.ID), "process.role": string(d.Role)})
	defer func() { tracing.EndSpan(span, err) }()
	if err = d.Role.Check(d.Script); err != nil {
		return err
	}
	if d.Outbox == nil && d.Role == RoleReporter {
		return errors.Newf(errors.ErrInvalidConfig, "process %d: reporter without an outbound channel", d.ID)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if d.Duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, d.Duration)
		defer cancel()
	}
	ctx, d.tracker = progress.WithNewTracker(ctx, d.ID, nil)
	d.render = &renderer{title: d.title(), peer: d.Peer, out: d.Out}
	log := d.logger()

	d.Out.Linef("Prozess %d startet.", d.ID)
	if err = d.refresh(); err != nil {
		return err
	}
	script := Play(ctx, d.Script)
	var input <-chan Action
	if d.Input != nil {
		input = Listen(ctx, d.Input, log)
	}
	refresh := d.Refresh
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	for {
		var action Action
		var ok bool
		select {
		case <-ctx.Done():
			d.Out.Linef("Prozess %d beendet.", d.ID)
			return nil
		case <-ticker.C:
			if err = d.refresh(); err != nil {
				return err
			}
			continue
		case action, ok = <-script:
			if !ok {
				script = nil
				continue
			}
		case action, ok = <-input:
			if !ok {
				log.Debugf("process %d: input closed", d.ID)
				d.Out.Linef("Prozess %d beendet.", d.ID)
				return nil
			}
		}
		stop, dErr := d.dispatch(ctx, action)
		if errors.Is(dErr, errors.ErrActionNotAllowed) {
			log.Warnf("process %d: %v", d.ID, dErr)
			continue
		}
		if dErr != nil {
			return dErr
		}
		if stop {
			d.Out.Linef("Prozess %d beendet.", d.ID)
			return nil
		}
	}
}

func (d *Display) dispatch(ctx context.Context, action Action) (stop bool, err error) {
	if !d.Role.Allows(action.Kind) {
		return false, errors.Newf(errors.ErrActionNotAllowed, "%v may not run %q", d.Role, action.Kind)
	}
	d.logger().Debugf("process %d: %v", d.ID, action)
	switch action.Kind {
	case Inc:
		err = d.Counter.Increment(action.N)
	case Dec:
		err = d.Counter.Decrement(action.N)
	case Reset:
		err = d.Counter.Reset()
	case Report:
		task := &worker.Compute{ProcessID: d.ID, Iterations: d.Iterations, Checkpoint: d.Checkpoint, Channel: d.Outbox}
		err = worker.Detach(ctx, d.reports, task)
		d.reports++
	case Quit:
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, d.refresh()
}

// refresh reads shared state and renders whatever changed.
func (d *Display) refresh() error {
	value, err := d.Counter.Value()
	if err != nil {
		return err
	}
	d.render.counter(value)
	if d.Inbox != nil {
		report, err := d.Inbox.ReadTrimmed()
		if err != nil {
			return err
		}
		d.render.inbound(report)
	}
	d.render.written(d.tracker.Snapshot().Reports)
	return nil
}

func (d *Display) title() string {
	if d.Title != "" {
		return d.Title
	}
	return "Prozess " + strconv.Itoa(d.ID)
}

func (d *Display) logger() logger.Logger {
	if d.Logger == nil {
		return logger.NopLogger
	}
	return d.Logger
}
