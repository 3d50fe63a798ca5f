// Package multiproc demonstrates process and thread level parallelism
// around a counter and two report channels living in shared memory.
//
// The Orchestrator creates the shared region, re-executes the running
// binary once per worker process, waits for all of them and removes the
// region. A worker process runs either a batch of threads or a display loop
// (see package process):
//
//	orchestrator := multiproc.New(multiproc.DefaultConfig())
//	err := orchestrator.Run(ctx)
//
// The binary must route the worker invocation to RunWorker, as cmd does.
package multiproc

const (
	// Name is the service name reported to tracing.
	Name = "multiproc"
	// Version is the module version reported to tracing.
	Version = "0.1.0"
)
