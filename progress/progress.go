// Package progress keeps per-process counters of worker threads by state
// (created, running, finished) and of written reports. The tracker travels
// in the context, so a thread updates it without a global registry.
package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/multiproc/internal/clock"
)

// Delta represents an incremental counter change emitted by a thread state
// transition. The fields are signed: moving from running to finished is
// {Running: -1, Finished: 1}.
type Delta struct {
	Created  int
	Running  int
	Finished int
	Reports  int
}

// Counts is a point-in-time copy of a tracker.
type Counts struct {
	ProcessID int
	StartedAt time.Time

	Created  int
	Running  int
	Finished int
	Reports  int
}

// Done reports whether every created thread has finished.
func (c Counts) Done() bool {
	return c.Running == 0 && c.Finished == c.Created
}

// Progress keeps aggregated thread counters for one worker process. It is
// safe for concurrent use.
type Progress struct {
	counts   Counts
	mu       sync.Mutex
	onChange func(Counts)
}

// Update applies the supplied delta to the tracker. It is safe to call from
// multiple goroutines. The onChange callback, if any, receives a copy taken
// under the lock and runs outside it.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.mu.Lock()
	p.counts.Created += d.Created
	p.counts.Running += d.Running
	p.counts.Finished += d.Finished
	p.counts.Reports += d.Reports
	snapshot := p.counts
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Counts {
	if p == nil {
		return Counts{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a new tracker for processID, embeds it in a derived
// context and returns both. onChange, if not nil, receives every change.
func WithNewTracker(ctx context.Context, processID int, onChange func(Counts)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		counts:   Counts{ProcessID: processID, StartedAt: clock.Now()},
		onChange: onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx looks up the tracker in ctx (if any) and applies the delta.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
