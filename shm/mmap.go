//go:build unix

package shm

import (
	"sync/atomic"

	"github.com/viant/multiproc/errors"
	"golang.org/x/sys/unix"
)

var mapCount uint64

// MaxMapCount caps the number of regions a single process may have mapped at
// once.
var MaxMapCount uint64 = 1024

// mmap increments the global map count, and then maps length bytes of fd
// shared and read-write. It decrements the count again if the limit was hit
// or the syscall failed.
func mmap(fd int, length int) ([]byte, error) {
	if newCount := atomic.AddUint64(&mapCount, 1); newCount > MaxMapCount {
		atomic.AddUint64(&mapCount, ^uint64(0)) // decrement
		return nil, errors.Errorf("maximum map count reached: %d", MaxMapCount)
	}
	data, err := unix.Mmap(fd, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		atomic.AddUint64(&mapCount, ^uint64(0)) // decrement
		return nil, errors.Wrap(err, "mmap")
	}
	return data, nil
}

// munmap unmaps b and decrements the global map count if there was no error.
func munmap(b []byte) error {
	err := unix.Munmap(b)
	if err == nil {
		atomic.AddUint64(&mapCount, ^uint64(0)) // decrement
	}
	return err
}

// MapCount returns the number of regions currently mapped by this process.
func MapCount() uint64 {
	return atomic.LoadUint64(&mapCount)
}
