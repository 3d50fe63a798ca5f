//go:build unix

package shm

import (
	"runtime"
	"sync/atomic"
)

const (
	unlocked  int32 = 0
	locked    int32 = 1
	contended int32 = 2

	// polls before a waiter parks on the futex
	spinBudget = 64
)

// Lock is a mutual-exclusion lock whose state is a single int32 word in a
// shared region, so it excludes goroutines of this process and of every
// other process that mapped the same region. There is no timeout: a holder
// that never unlocks blocks everyone else indefinitely.
type Lock struct {
	word *int32
}

// Lock acquires the lock, blocking until it is available.
func (l *Lock) Lock() {
	for i := 0; i < spinBudget; i++ {
		if atomic.CompareAndSwapInt32(l.word, unlocked, locked) {
			return
		}
		runtime.Gosched()
	}
	// 2 marks "held, possibly with waiters" so that Unlock knows to wake.
	for atomic.SwapInt32(l.word, contended) != unlocked {
		futexWait(l.word, contended)
	}
}

// TryLock acquires the lock only if it is free.
func (l *Lock) TryLock() bool {
	return atomic.CompareAndSwapInt32(l.word, unlocked, locked)
}

// Unlock releases the lock and wakes one waiter if there may be any.
func (l *Lock) Unlock() {
	if atomic.SwapInt32(l.word, unlocked) == contended {
		futexWake(l.word, 1)
	}
}
