package cmd

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/viant/multiproc"
	"gopkg.in/yaml.v3"
)

func newConfigCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cfg := multiproc.DefaultConfig()
	confCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration.",
		Long: `config prints the configuration run would use, after merging flags,
environment and the configuration file, as YAML.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			encoder := yaml.NewEncoder(stdout)
			encoder.SetIndent(2)
			if err := encoder.Encode(cfg); err != nil {
				return err
			}
			return encoder.Close()
		},
	}
	bindConfigFlags(confCmd.Flags(), cfg)
	return confCmd
}
