package worker

// Option configures a Thread.
type Option func(t *Thread)

// WithCPU pins the thread to cpu. A negative cpu leaves placement to the
// scheduler.
func WithCPU(cpu int) Option {
	return func(t *Thread) {
		t.cpu = cpu
	}
}
