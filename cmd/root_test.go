package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/multiproc"
	"github.com/viant/multiproc/cmd"
	"gopkg.in/yaml.v3"
)

// execConfig runs the config command with args and decodes what it prints.
func execConfig(t *testing.T, args ...string) *multiproc.Config {
	stdout := &bytes.Buffer{}
	rc := cmd.NewRootCommand(strings.NewReader(""), stdout, &bytes.Buffer{})
	rc.SetArgs(append([]string{"config"}, args...))
	require.NoError(t, rc.Execute())
	cfg := &multiproc.Config{}
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), cfg), stdout.String())
	return cfg
}

func TestConfigCommand_Defaults(t *testing.T) {
	assert.Equal(t, multiproc.DefaultConfig(), execConfig(t))
}

func TestConfigCommand_Priority(t *testing.T) {
	location := filepath.Join(t.TempDir(), "multiproc.yaml")
	require.NoError(t, os.WriteFile(location, []byte(`mode: report
threads: 5
iterations: 1000
scripts:
  - "report; wait 2s; quit"
  - "quit"
`), 0644))
	t.Setenv("MULTIPROC_THREADS", "7")
	t.Setenv("MULTIPROC_REFRESHINTERVAL", "250ms")

	cfg := execConfig(t, "--config", location, "--iterations", "42")
	assert.Equal(t, multiproc.ModeReport, cfg.Mode)
	assert.Equal(t, 7, cfg.Threads)
	assert.Equal(t, 42, cfg.Iterations)
	assert.Equal(t, "250ms", cfg.Refresh.String())
	assert.Equal(t, []string{"report; wait 2s; quit", "quit"}, cfg.Scripts)
}

func TestConfigCommand_Invalid(t *testing.T) {
	rc := cmd.NewRootCommand(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	rc.SetArgs([]string{"config", "--threads", "0"})
	assert.Error(t, rc.Execute())

	location := filepath.Join(t.TempDir(), "multiproc.yaml")
	require.NoError(t, os.WriteFile(location, []byte("colour: blue\n"), 0644))
	rc = cmd.NewRootCommand(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	rc.SetArgs([]string{"config", "--config", location})
	assert.Error(t, rc.Execute())
}

func TestWorkerCommand_WithoutSpec(t *testing.T) {
	t.Setenv("MULTIPROC_WORKER", "")
	rc := cmd.NewRootCommand(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	rc.SetArgs([]string{"worker"})
	assert.Error(t, rc.Execute())
}
