package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/viant/multiproc"
	"github.com/viant/multiproc/logger"
)

func newRunCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cfg := multiproc.DefaultConfig()
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the demo.",
		Long: `run creates the shared region, starts the worker processes of the
selected mode, waits for all of them and prints the completion line.

Display scripts are statements separated by ';' or newlines:
  inc [n], dec [n], reset, report, wait <duration>, quit
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := multiproc.ParseMode(string(cfg.Mode))
			if err != nil {
				return err
			}
			cfg.Mode = mode
			log := newLogger(stderr, cfg.Verbose)
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			orchestrator := multiproc.New(cfg,
				multiproc.WithLogger(log),
				multiproc.WithOutput(stdout),
				multiproc.WithErrorOutput(stderr),
				multiproc.WithInput(stdin),
			)
			return orchestrator.Run(ctx)
		},
	}
	bindConfigFlags(runCmd.Flags(), cfg)
	return runCmd
}

func newLogger(w io.Writer, verbose bool) logger.Logger {
	if verbose {
		return logger.NewVerboseLogger(w)
	}
	return logger.NewStandardLogger(w)
}
