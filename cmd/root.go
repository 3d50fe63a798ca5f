package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/viant/multiproc"
)

// envPrefix prefixes the environment variables read for every flag.
const envPrefix = "MULTIPROC"

// NewRootCommand returns the multiproc command tree.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	rc := &cobra.Command{
		Use:   "multiproc",
		Short: "Process and thread parallelism around a shared counter.",
		Long: `multiproc starts worker processes that share a lock protected counter
and, in report mode, two bounded text channels placed in shared memory.

Modes:
  threads  every process runs a batch of simulated threads
  counter  a mutator and a monitor display update and show the counter
  report   two reporter displays exchange computed reports

Configuration is read from flags, MULTIPROC_* environment variables and
a YAML file given with --config, in that priority order.
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setAllConfig(cmd.Context(), viper.New(), cmd.Flags())
		},
	}
	rc.PersistentFlags().StringP("config", "c", "", "Configuration file to read from.")

	rc.AddCommand(newRunCommand(stdin, stdout, stderr))
	rc.AddCommand(newConfigCommand(stdin, stdout, stderr))
	rc.AddCommand(newWorkerCommand(stdin, stdout, stderr))

	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// setAllConfig takes a FlagSet to be the definition of all configuration
// options, as well as their defaults. It then reads from the command line,
// the environment, and a config file (if specified), and applies the
// configuration in that priority order. Each flag holds a pointer to where
// its value is stored, so setAllConfig modifies the configuration directly.
//
// Environment variables are the upper-cased flag names prefixed with
// envPrefix and an underscore, e.g. MULTIPROC_TASKDURATION.
func setAllConfig(ctx context.Context, v *viper.Viper, flags *pflag.FlagSet) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	validTags := make(map[string]bool)
	flags.VisitAll(func(f *pflag.Flag) {
		validTags[strings.ToLower(f.Name)] = true
	})

	if c := v.GetString("config"); c != "" {
		cfg, err := multiproc.LoadConfig(ctx, c)
		if err != nil {
			return fmt.Errorf("error reading configuration file '%s': %v", c, err)
		}
		settings, err := cfg.Settings()
		if err != nil {
			return err
		}
		for key := range settings {
			if !validTags[strings.ToLower(key)] {
				delete(settings, key)
			}
		}
		if err = v.MergeConfigMap(settings); err != nil {
			return err
		}
	}

	var flagErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil || f.Changed {
			// a flag set on the command line has the highest priority
			return
		}
		var value string
		if f.Value.Type() == "stringSlice" {
			// v.GetString returns "" for a list from the config file
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		} else {
			value = v.GetString(f.Name)
		}
		if f.Value.Type() == "stringSlice" && value == "" {
			return
		}
		flagErr = f.Value.Set(value)
	})
	return flagErr
}
