//go:build unix

// Package counter implements the shared counter: a signed 32-bit value in a
// shared region, read and written only while holding the region lock, so
// that updates from any thread of any process are never lost or torn.
package counter

import (
	"github.com/viant/multiproc/shm"
)

// Counter is a view of the counter in one process's mapping of a region.
// It is safe for concurrent use.
type Counter struct {
	region *shm.Region
}

// New returns the counter stored in region.
func New(region *shm.Region) *Counter {
	return &Counter{region: region}
}

// Increment adds delta to the counter. The addition wraps on int32 overflow.
func (c *Counter) Increment(delta int32) error {
	return c.update(func(v *int32) {
		*v += delta
	})
}

// Decrement subtracts delta from the counter.
func (c *Counter) Decrement(delta int32) error {
	return c.Increment(-delta)
}

// Reset sets the counter to zero.
func (c *Counter) Reset() error {
	return c.update(func(v *int32) {
		*v = 0
	})
}

// Value returns the current value. The read takes the lock as well, so it
// never depends on the platform's word-size atomicity.
func (c *Counter) Value() (int32, error) {
	var ret int32
	err := c.update(func(v *int32) {
		ret = *v
	})
	return ret, err
}

func (c *Counter) update(fn func(v *int32)) error {
	release, err := c.region.Use()
	if err != nil {
		return err
	}
	defer release()
	lock := c.region.Lock()
	lock.Lock()
	fn(c.region.Value())
	lock.Unlock()
	return nil
}
