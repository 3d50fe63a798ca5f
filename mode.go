package multiproc

import (
	"strings"

	"github.com/viant/multiproc/errors"
	"github.com/viant/multiproc/process"
)

// Mode selects which worker processes a run starts.
type Mode string

const (
	// ModeThreads runs batches of simulated threads.
	ModeThreads Mode = "threads"
	// ModeCounter runs a mutator and a monitor display over the counter.
	ModeCounter Mode = "counter"
	// ModeReport runs two reporter displays exchanging reports.
	ModeReport Mode = "report"
)

type modeSpec struct {
	// Roles lists the display roles by process id; empty for threads.
	Roles []process.Role
	// Channels is the number of text channels in the region.
	Channels   int
	Completion string
}

var modes = map[Mode]modeSpec{
	ModeThreads: {Completion: "Alle Prozesse und Threads beendet."},
	ModeCounter: {
		Roles:      []process.Role{process.RoleMutator, process.RoleMonitor},
		Completion: "Beide Anzeigen wurden beendet.",
	},
	ModeReport: {
		Roles:      []process.Role{process.RoleReporter, process.RoleReporter},
		Channels:   2,
		Completion: "Beide Anzeigen wurden beendet.",
	},
}

// ParseMode returns the mode named s.
func ParseMode(s string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := modes[mode]; !ok {
		return "", errors.Newf(errors.ErrInvalidConfig, "unknown mode %q", s)
	}
	return mode, nil
}
