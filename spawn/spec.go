// Package spawn starts worker processes by re-executing the running binary
// with a worker argument. Everything the child needs, including the shared
// region handle, travels in one environment variable as JSON.
package spawn

import (
	"encoding/json"
	"os"

	"github.com/viant/multiproc/errors"
)

// EnvKey is the environment variable holding the worker Spec.
const EnvKey = "MULTIPROC_WORKER"

// Spec describes one worker process.
type Spec struct {
	ProcessID int    `json:"processId"`
	Role      string `json:"role"`
	Title     string `json:"title,omitempty"`
	// Region is the path of the shared region file.
	Region string `json:"region"`
	// Peer is the process whose reports arrive in Inbox.
	Peer int `json:"peer"`
	// Inbox and Outbox are text channel indexes, -1 when unused.
	Inbox       int             `json:"inbox"`
	Outbox      int             `json:"outbox"`
	Interactive bool            `json:"interactive,omitempty"`
	Script      []string        `json:"script,omitempty"`
	Trace       string          `json:"trace,omitempty"`
	Verbose     bool            `json:"verbose,omitempty"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Encode returns the environment entry carrying s.
func (s *Spec) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", errors.Wrapf(err, "encode worker %d", s.ProcessID)
	}
	return EnvKey + "=" + string(data), nil
}

// FromEnv returns the Spec of the current process, or nil when the process
// was not started as a worker.
func FromEnv() (*Spec, error) {
	value, ok := os.LookupEnv(EnvKey)
	if !ok || value == "" {
		return nil, nil
	}
	spec := &Spec{}
	if err := json.Unmarshal([]byte(value), spec); err != nil {
		return nil, errors.WrapCode(err, errors.ErrInvalidConfig, "decode "+EnvKey)
	}
	return spec, nil
}
