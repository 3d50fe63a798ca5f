package multiproc

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/viant/multiproc/errors"
	"github.com/viant/multiproc/process"
	"github.com/viant/multiproc/shm"
	"github.com/viant/multiproc/spawn"
	"github.com/viant/multiproc/tracing"
	"golang.org/x/sync/errgroup"
)

// TerminateGrace is how long workers get to exit after the orchestrator was
// told to stop before they are killed.
const TerminateGrace = 5 * time.Second

// Orchestrator runs one multi-process demo.
type Orchestrator struct {
	config *Config
	*options
}

// New creates an orchestrator for config.
func New(config *Config, opts ...Option) *Orchestrator {
	return &Orchestrator{config: config, options: newOptions(opts)}
}

// Run creates the shared region, starts every worker process with the
// region handle, waits for all of them, prints the completion line and
// destroys the region. A failing worker does not stop the others; Run
// returns the first failure once every worker has exited. When ctx is done
// every worker is sent SIGTERM, and killed if it is still running after
// TerminateGrace.
func (o *Orchestrator) Run(ctx context.Context) (err error) {
	if err = o.config.Validate(); err != nil {
		return err
	}
	if o.config.Trace != "" {
		if tErr := tracing.Init(Name, Version, o.config.Trace); tErr != nil {
			o.logger.Warnf("tracing disabled: %v", tErr)
		}
		defer func() { _ = tracing.Shutdown(context.WithoutCancel(ctx)) }()
	}
	ctx, span := tracing.StartSpan(ctx, "orchestrator.Run")
	span.WithAttributes(map[string]string{"mode": string(o.config.Mode)})
	defer func() { tracing.EndSpan(span, err) }()

	if logical, cErr := cpu.Counts(true); cErr == nil {
		o.logger.Debugf("%d logical CPUs available", logical)
	}
	mode := modes[o.config.Mode]
	regionOptions := []shm.Option{shm.WithChannels(mode.Channels, o.config.ChannelCapacity), shm.WithFS(o.fs)}
	if o.config.SharedDir != "" {
		regionOptions = append(regionOptions, shm.WithDir(o.config.SharedDir))
	}
	region, err := shm.Create(ctx, regionOptions...)
	if err != nil {
		return err
	}
	o.logger.Debugf("created region %v", region.Path())
	defer func() {
		if dErr := region.Destroy(context.WithoutCancel(ctx)); dErr != nil && err == nil {
			err = dErr
		}
	}()

	specs, err := o.plan(region.Path())
	if err != nil {
		return err
	}
	group := errgroup.Group{}
	var started []*spawn.Process
	for _, spec := range specs {
		proc, sErr := o.spawner.Start(ctx, spec)
		if sErr != nil {
			o.logger.Errorf("%v", sErr)
			err = sErr
			break
		}
		started = append(started, proc)
		group.Go(func() error {
			wErr := proc.Wait()
			if wErr != nil {
				o.logger.Errorf("%v", wErr)
			}
			return wErr
		})
	}
	joined := make(chan struct{})
	go o.terminate(ctx, started, joined)
	wErr := group.Wait()
	close(joined)
	if err == nil {
		err = wErr
	}
	if err != nil {
		return err
	}
	o.console.Linef("%s", mode.Completion)
	return nil
}

// terminate forwards cancellation of ctx to the started workers until they
// are joined.
func (o *Orchestrator) terminate(ctx context.Context, started []*spawn.Process, joined <-chan struct{}) {
	select {
	case <-joined:
		return
	case <-ctx.Done():
	}
	o.logger.Infof("stopping %d processes: %v", len(started), context.Cause(ctx))
	o.signal(started, syscall.SIGTERM)
	timer := time.NewTimer(TerminateGrace)
	defer timer.Stop()
	select {
	case <-joined:
	case <-timer.C:
		o.logger.Warnf("processes still running after %v, killing", TerminateGrace)
		o.signal(started, os.Kill)
	}
}

func (o *Orchestrator) signal(started []*spawn.Process, sig os.Signal) {
	for _, proc := range started {
		if err := proc.Signal(sig); err != nil {
			o.logger.Warnf("%v", err)
		}
	}
}

// plan returns the launch description of every worker process of the configured mode.
func (o *Orchestrator) plan(regionPath string) ([]*spawn.Spec, error) {
	cfg := o.config
	encoded, err := json.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "encode config")
	}
	mode := modes[cfg.Mode]
	count := cfg.processCount()
	specs := make([]*spawn.Spec, count)
	for i := 0; i < count; i++ {
		spec := &spawn.Spec{
			ProcessID:   i,
			Role:        string(process.RoleThreads),
			Region:      regionPath,
			Peer:        (i + 1) % count,
			Inbox:       -1,
			Outbox:      -1,
			Interactive: cfg.Interactive == i,
			Verbose:     cfg.Verbose,
			Config:      encoded,
		}
		if len(mode.Roles) > 0 {
			spec.Role = string(mode.Roles[i])
			spec.Title = "Anzeige " + strconv.Itoa(i+1)
		}
		if mode.Channels > 0 {
			// channel i carries process i's reports to its peer
			spec.Outbox = i
			spec.Inbox = spec.Peer
		}
		if i < len(cfg.Scripts) && cfg.Scripts[i] != "" {
			spec.Script = []string{cfg.Scripts[i]}
		}
		if cfg.Trace != "" {
			spec.Trace = cfg.Trace + ".process-" + strconv.Itoa(i)
		}
		specs[i] = spec
	}
	return specs, nil
}
