package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/viant/multiproc/internal/console"
	"github.com/viant/multiproc/tracing"
)

// Sleep is the simulated task: it announces itself, blocks for Duration and
// announces its end.
type Sleep struct {
	Duration time.Duration
	Out      *console.Console
}

// Run implements Task.
func (s *Sleep) Run(ctx context.Context, t *Thread) error {
	s.Out.Linef("Thread %d startet.", t.ID)
	time.Sleep(s.Duration)
	s.Out.Linef("Thread %d beendet.", t.ID)
	return nil
}

// ReportWriter receives a finished report.
type ReportWriter interface {
	Write(text string) error
}

// Compute is the CPU-bound task. It runs Iterations steps of arithmetic,
// adds a progress marker to its report every Checkpoint steps and publishes
// the report through Channel.
type Compute struct {
	ProcessID  int
	Iterations int
	Checkpoint int
	Channel    ReportWriter
}

// Run implements Task.
func (c *Compute) Run(ctx context.Context, t *Thread) error {
	ctx, span := tracing.StartSpan(ctx, "report.Run")
	err := c.Channel.Write(c.Report(t.ID))
	if err == nil {
		t.Advance(ctx, ReportWritten)
	}
	tracing.EndSpan(span, err)
	return err
}

// Report computes and returns the report text of thread threadID.
func (c *Compute) Report(threadID int) string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "Prozess %d, Thread %d: %d Iterationen\n", c.ProcessID, threadID, c.Iterations)
	var acc uint64
	for i := 1; i <= c.Iterations; i++ {
		acc += uint64(i) * uint64(i) % 7919
		if c.Checkpoint > 0 && i%c.Checkpoint == 0 {
			fmt.Fprintf(&sb, "Fortschritt: %d/%d\n", i, c.Iterations)
		}
	}
	fmt.Fprintf(&sb, "Ergebnis: %d", acc)
	return sb.String()
}
