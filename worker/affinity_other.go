//go:build !linux

package worker

// pin is a no-op where thread affinity is not exposed.
func pin(cpu int) error {
	return nil
}
