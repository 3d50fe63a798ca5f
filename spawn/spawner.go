package spawn

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/viant/multiproc/errors"
	"github.com/viant/multiproc/internal/console"
	"github.com/viant/multiproc/logger"
)

// Spawner starts worker processes. Output of all children is merged line by
// line into Stdout and Stderr.
type Spawner struct {
	// Executable defaults to the running binary.
	Executable string
	// Args default to "worker".
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
	// Stdin is given to interactive workers only.
	Stdin  io.Reader
	Logger logger.Logger

	once   sync.Once
	stdout *console.Console
	stderr *console.Console
}

// Process is a started worker.
type Process struct {
	Spec   *Spec
	cmd    *exec.Cmd
	stdout *console.LineWriter
	stderr *console.LineWriter
}

// Pid returns the operating system process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Signal sends sig to the worker. Signalling an exited worker is not an
// error.
func (p *Process) Signal(sig os.Signal) error {
	if err := p.cmd.Process.Signal(sig); err != nil && err != os.ErrProcessDone {
		return errors.Wrapf(err, "signal process %d", p.Spec.ProcessID)
	}
	return nil
}

// Wait blocks until the worker exits. A non-zero exit is an error.
func (p *Process) Wait() error {
	err := p.cmd.Wait()
	_ = p.stdout.Flush()
	_ = p.stderr.Flush()
	if err != nil {
		return errors.Wrapf(err, "process %d (%v)", p.Spec.ProcessID, p.Spec.Role)
	}
	return nil
}

// Start launches a worker for spec. The child inherits the parent
// environment plus the encoded spec. Nothing is started once ctx is done.
func (s *Spawner) Start(ctx context.Context, spec *Spec) (*Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapCode(err, errors.ErrProcessSpawnFailed, "start process "+strconv.Itoa(spec.ProcessID))
	}
	s.once.Do(func() {
		s.stdout = consoleOf(s.Stdout, os.Stdout)
		s.stderr = consoleOf(s.Stderr, os.Stderr)
	})
	executable := s.Executable
	if executable == "" {
		var err error
		if executable, err = os.Executable(); err != nil {
			return nil, errors.WrapCode(err, errors.ErrProcessSpawnFailed, "locate executable")
		}
	}
	args := s.Args
	if len(args) == 0 {
		args = []string{"worker"}
	}
	entry, err := spec.Encode()
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(executable, args...)
	cmd.Env = append(environ(), entry)
	proc := &Process{Spec: spec, cmd: cmd, stdout: s.stdout.Lines(), stderr: s.stderr.Lines()}
	cmd.Stdout = proc.stdout
	cmd.Stderr = proc.stderr
	if spec.Interactive {
		cmd.Stdin = s.Stdin
		if cmd.Stdin == nil {
			cmd.Stdin = os.Stdin
		}
	}
	if err = cmd.Start(); err != nil {
		return nil, errors.WrapCode(err, errors.ErrProcessSpawnFailed, "start process "+strconv.Itoa(spec.ProcessID))
	}
	if s.Logger != nil {
		s.Logger.Debugf("started process %d (%v) pid %d", spec.ProcessID, spec.Role, cmd.Process.Pid)
	}
	return proc, nil
}

// environ returns the parent environment without a stale worker spec.
func environ() []string {
	var ret []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, EnvKey+"=") {
			continue
		}
		ret = append(ret, kv)
	}
	return ret
}

func consoleOf(w io.Writer, fallback io.Writer) *console.Console {
	if c, ok := w.(*console.Console); ok {
		return c
	}
	if w == nil {
		w = fallback
	}
	return console.New(w)
}
