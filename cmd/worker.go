package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/viant/multiproc"
	"github.com/viant/multiproc/errors"
	"github.com/viant/multiproc/spawn"
)

func newWorkerCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:    "worker",
		Short:  "Run one worker process (started by run).",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := spawn.FromEnv()
			if err != nil {
				return err
			}
			if spec == nil {
				return errors.Newf(errors.ErrInvalidConfig, "%v is not set", spawn.EnvKey)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return multiproc.RunWorker(ctx, spec,
				multiproc.WithLogger(newLogger(stderr, spec.Verbose)),
				multiproc.WithOutput(stdout),
				multiproc.WithInput(stdin),
			)
		},
	}
}
