//go:build unix && !linux

package shm

import "time"

// Without futexes a waiter backs off and re-checks the word.
const backoff = 50 * time.Microsecond

func futexWait(addr *int32, val int32) {
	time.Sleep(backoff)
}

func futexWake(addr *int32, n int) {}
