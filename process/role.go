package process

import (
	"strings"

	"github.com/viant/multiproc/errors"
)

// Role is what a worker process does.
type Role string

const (
	// RoleThreads runs a batch of simulated threads.
	RoleThreads Role = "threads"
	// RoleMutator displays the counter and increments or decrements it.
	RoleMutator Role = "mutator"
	// RoleMonitor displays the counter and resets it.
	RoleMonitor Role = "monitor"
	// RoleReporter displays the counter and the peer's report, and may run
	// every action including report.
	RoleReporter Role = "reporter"
)

// ParseRole returns the role named s.
func ParseRole(s string) (Role, error) {
	switch role := Role(strings.ToLower(strings.TrimSpace(s))); role {
	case RoleThreads, RoleMutator, RoleMonitor, RoleReporter:
		return role, nil
	}
	return "", errors.Newf(errors.ErrInvalidConfig, "unknown role %q", s)
}

// IsDisplay reports whether the role runs a display loop.
func (r Role) IsDisplay() bool {
	return r == RoleMutator || r == RoleMonitor || r == RoleReporter
}

// Allows reports whether the role may run an action of kind k. Wait and
// quit are always allowed to a display.
func (r Role) Allows(k Kind) bool {
	if !r.IsDisplay() {
		return false
	}
	switch k {
	case Wait, Quit:
		return true
	case Inc, Dec:
		return r == RoleMutator || r == RoleReporter
	case Reset:
		return r == RoleMonitor || r == RoleReporter
	case Report:
		return r == RoleReporter
	}
	return false
}

// Check returns ErrActionNotAllowed for the first action the role may not
// run.
func (r Role) Check(actions []Action) error {
	for _, action := range actions {
		if !r.Allows(action.Kind) {
			return errors.Newf(errors.ErrActionNotAllowed, "%v may not run %q", r, action.Kind)
		}
	}
	return nil
}
