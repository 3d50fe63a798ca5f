package cmd

import (
	"github.com/spf13/pflag"
	"github.com/viant/multiproc"
)

// bindConfigFlags defines one flag per configuration field, named like its
// YAML key, with cfg's values as defaults.
func bindConfigFlags(flags *pflag.FlagSet, cfg *multiproc.Config) {
	flags.StringVarP((*string)(&cfg.Mode), "mode", "m", string(cfg.Mode), "Run mode: threads, counter or report.")
	flags.IntVarP(&cfg.Processes, "processes", "p", cfg.Processes, "Number of batch processes in threads mode.")
	flags.IntVarP(&cfg.Threads, "threads", "t", cfg.Threads, "Number of threads per batch process.")
	flags.DurationVar(&cfg.TaskDuration, "taskDuration", cfg.TaskDuration, "Duration of each simulated thread task.")
	flags.BoolVar(&cfg.PinThreads, "pinThreads", cfg.PinThreads, "Pin every batch thread to a CPU.")
	flags.IntVar(&cfg.ChannelCapacity, "channelCapacity", cfg.ChannelCapacity, "Capacity of each report channel, in characters.")
	flags.DurationVar(&cfg.Refresh, "refreshInterval", cfg.Refresh, "Display refresh interval.")
	flags.DurationVarP(&cfg.Duration, "duration", "d", cfg.Duration, "Stop the displays after this long; 0 runs until quit or interrupt.")
	flags.IntVar(&cfg.Iterations, "iterations", cfg.Iterations, "Iterations of a report computation.")
	flags.IntVar(&cfg.Checkpoint, "checkpoint", cfg.Checkpoint, "Iterations between report progress markers.")
	flags.StringSliceVarP(&cfg.Scripts, "scripts", "s", cfg.Scripts, "Action script per display process, in process order; '@path' loads a file.")
	flags.IntVarP(&cfg.Interactive, "interactive", "i", cfg.Interactive, "Display process reading actions from stdin, -1 for none.")
	flags.StringVar(&cfg.SharedDir, "sharedDir", cfg.SharedDir, "Directory of the shared region file (default /dev/shm or the temp dir).")
	flags.StringVar(&cfg.Trace, "trace", cfg.Trace, "Write OpenTelemetry spans to this file; workers append .process-<id>.")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Enable debug logging.")
}
