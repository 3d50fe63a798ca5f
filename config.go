package multiproc

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/multiproc/errors"
	"github.com/viant/multiproc/internal/envexpr"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of a run. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	Mode Mode `json:"mode" yaml:"mode"`
	// Processes is the number of batch processes in threads mode; the
	// display modes always run two.
	Processes    int           `json:"processes" yaml:"processes"`
	Threads      int           `json:"threads" yaml:"threads"`
	TaskDuration time.Duration `json:"taskDuration" yaml:"taskDuration"`
	PinThreads   bool          `json:"pinThreads" yaml:"pinThreads"`

	ChannelCapacity int           `json:"channelCapacity" yaml:"channelCapacity"`
	Refresh         time.Duration `json:"refreshInterval" yaml:"refreshInterval"`
	// Duration ends the display loops after the given time; 0 runs until
	// quit or interrupt.
	Duration   time.Duration `json:"duration" yaml:"duration"`
	Iterations int           `json:"iterations" yaml:"iterations"`
	Checkpoint int           `json:"checkpoint" yaml:"checkpoint"`
	// Scripts holds the action script of each display process, by process
	// id. An entry starting with '@' names a script file.
	Scripts []string `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	// Interactive is the id of the display process reading actions from
	// standard input, -1 for none.
	Interactive int `json:"interactive" yaml:"interactive"`

	SharedDir string `json:"sharedDir,omitempty" yaml:"sharedDir,omitempty"`
	Trace     string `json:"trace,omitempty" yaml:"trace,omitempty"`
	Verbose   bool   `json:"verbose" yaml:"verbose"`
}

// DefaultConfig returns the configuration of the plain threads demo.
func DefaultConfig() *Config {
	return &Config{
		Mode:            ModeThreads,
		Processes:       2,
		Threads:         3,
		TaskDuration:    2 * time.Second,
		ChannelCapacity: 10000,
		Refresh:         100 * time.Millisecond,
		Iterations:      10000000,
		Checkpoint:      1000000,
		Interactive:     -1,
	}
}

// Validate returns an ErrInvalidConfig error describing the first invalid
// setting, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New(errors.ErrInvalidConfig, "config is nil")
	}
	mode, ok := modes[c.Mode]
	switch {
	case !ok:
		return errors.Newf(errors.ErrInvalidConfig, "unknown mode %q", c.Mode)
	case c.Mode == ModeThreads && c.Processes <= 0:
		return errors.New(errors.ErrInvalidConfig, "processes must be > 0")
	case c.Mode == ModeThreads && c.Threads <= 0:
		return errors.New(errors.ErrInvalidConfig, "threads must be > 0")
	case c.TaskDuration < 0:
		return errors.New(errors.ErrInvalidConfig, "taskDuration must be >= 0")
	case mode.Channels > 0 && c.ChannelCapacity <= 0:
		return errors.New(errors.ErrInvalidConfig, "channelCapacity must be > 0")
	case c.Refresh <= 0:
		return errors.New(errors.ErrInvalidConfig, "refreshInterval must be > 0")
	case c.Duration < 0:
		return errors.New(errors.ErrInvalidConfig, "duration must be >= 0")
	case c.Iterations < 0 || c.Checkpoint < 0:
		return errors.New(errors.ErrInvalidConfig, "iterations and checkpoint must be >= 0")
	case len(c.Scripts) > c.processCount():
		return errors.Newf(errors.ErrInvalidConfig, "%d scripts for %d processes", len(c.Scripts), c.processCount())
	case c.Interactive >= c.processCount() || c.Interactive < -1:
		return errors.Newf(errors.ErrInvalidConfig, "interactive process %d out of range", c.Interactive)
	case c.Interactive >= 0 && c.Mode == ModeThreads:
		return errors.New(errors.ErrInvalidConfig, "threads mode has no interactive process")
	}
	return nil
}

func (c *Config) processCount() int {
	if c.Mode == ModeThreads {
		return c.Processes
	}
	return len(modes[c.Mode].Roles)
}

// LoadConfig reads a YAML configuration from URL over DefaultConfig.
// ${env.KEY} references are expanded before decoding; unknown keys are
// rejected.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "load config %v", URL)
	}
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(strings.NewReader(envexpr.Expand(string(data))))
	decoder.KnownFields(true)
	if err = decoder.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.WrapCode(err, errors.ErrInvalidConfig, "decode config "+URL)
	}
	return cfg, nil
}

// Settings returns the configuration as a map keyed like the YAML file.
func (c *Config) Settings() (map[string]interface{}, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "encode config")
	}
	ret := map[string]interface{}{}
	if err = yaml.Unmarshal(data, &ret); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	return ret, nil
}
