// Package process implements the two kinds of worker process.
//
// A Batch starts a fixed set of simulated threads and joins them. A Display
// runs a single-goroutine loop that polls the shared counter and the
// inbound report channel on a timer, renders changes and dispatches actions
// coming from a script or from standard input.
package process
