package multiproc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/viant/multiproc/counter"
	"github.com/viant/multiproc/errors"
	"github.com/viant/multiproc/process"
	"github.com/viant/multiproc/shm"
	"github.com/viant/multiproc/spawn"
	"github.com/viant/multiproc/textchan"
	"github.com/viant/multiproc/tracing"
)

// RunWorker runs the worker process described by spec: it maps the shared
// region and runs a batch or a display depending on the role.
func RunWorker(ctx context.Context, spec *spawn.Spec, opts ...Option) (err error) {
	o := newOptions(opts)
	cfg := DefaultConfig()
	if len(spec.Config) > 0 {
		if err = json.Unmarshal(spec.Config, cfg); err != nil {
			return errors.WrapCode(err, errors.ErrInvalidConfig, "decode worker config")
		}
	}
	if spec.Trace != "" {
		if tErr := tracing.Init(Name, Version, spec.Trace); tErr != nil {
			o.logger.Warnf("tracing disabled: %v", tErr)
		}
		defer func() { _ = tracing.Shutdown(ctx) }()
	}
	role, err := process.ParseRole(spec.Role)
	if err != nil {
		return err
	}
	log := o.logger.WithPrefix(fmt.Sprintf("[process %d] ", spec.ProcessID))
	out := o.console

	region, err := shm.Open(ctx, spec.Region)
	if err != nil {
		return err
	}
	defer region.Close()

	if role == process.RoleThreads {
		batch := &process.Batch{
			ID:         spec.ProcessID,
			Threads:    cfg.Threads,
			Duration:   cfg.TaskDuration,
			PinThreads: cfg.PinThreads,
			Out:        out,
			Logger:     log,
		}
		if cfg.PinThreads {
			if logical, cErr := cpu.Counts(true); cErr == nil {
				batch.CPUs = logical
			} else {
				log.Warnf("count CPUs: %v", cErr)
			}
		}
		return batch.Run(ctx)
	}

	script, err := process.LoadScripts(ctx, o.fs, spec.Script)
	if err != nil {
		return err
	}
	display := &process.Display{
		ID:         spec.ProcessID,
		Role:       role,
		Title:      spec.Title,
		Peer:       spec.Peer,
		Counter:    counter.New(region),
		Refresh:    cfg.Refresh,
		Duration:   cfg.Duration,
		Script:     script,
		Iterations: cfg.Iterations,
		Checkpoint: cfg.Checkpoint,
		Out:        out,
		Logger:     log,
	}
	if spec.Inbox >= 0 {
		if display.Inbox, err = textchan.New(region, spec.Inbox); err != nil {
			return err
		}
	}
	if spec.Outbox >= 0 {
		if display.Outbox, err = textchan.New(region, spec.Outbox); err != nil {
			return err
		}
	}
	if spec.Interactive {
		display.Input = o.stdin
	}
	return display.Run(ctx)
}
