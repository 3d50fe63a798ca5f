package multiproc

import (
	"io"
	"os"

	"github.com/viant/afs"
	"github.com/viant/multiproc/internal/console"
	"github.com/viant/multiproc/logger"
	"github.com/viant/multiproc/spawn"
)

// Option configures an Orchestrator or RunWorker.
type Option func(o *options)

type options struct {
	logger  logger.Logger
	out     io.Writer
	errOut  io.Writer
	stdin   io.Reader
	fs      afs.Service
	spawner *spawn.Spawner
	// console guards out for every writer of this process and its children.
	console *console.Console
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.NopLogger
	}
	if o.out == nil {
		o.out = os.Stdout
	}
	if o.errOut == nil {
		o.errOut = os.Stderr
	}
	o.console = console.New(o.out)
	if o.stdin == nil {
		o.stdin = os.Stdin
	}
	if o.fs == nil {
		o.fs = afs.New()
	}
	if o.spawner == nil {
		o.spawner = &spawn.Spawner{}
	}
	if o.spawner.Logger == nil {
		o.spawner.Logger = o.logger
	}
	if o.spawner.Stdout == nil {
		o.spawner.Stdout = o.console
	}
	if o.spawner.Stderr == nil {
		o.spawner.Stderr = o.errOut
	}
	if o.spawner.Stdin == nil {
		o.spawner.Stdin = o.stdin
	}
	return o
}

// WithLogger sets the diagnostics logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithOutput sets where program output lines go.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithErrorOutput sets where worker processes write their diagnostics.
func WithErrorOutput(w io.Writer) Option {
	return func(o *options) {
		o.errOut = w
	}
}

// WithInput sets the interactive input of a worker.
func WithInput(r io.Reader) Option {
	return func(o *options) {
		o.stdin = r
	}
}

// WithFS sets the storage service for scripts and region removal.
func WithFS(fs afs.Service) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithSpawner sets how worker processes are started.
func WithSpawner(s *spawn.Spawner) Option {
	return func(o *options) {
		o.spawner = s
	}
}
