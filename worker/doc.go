// Package worker runs tasks on dedicated OS threads.
//
// A Thread wraps one task and moves through Created, Running and Finished
// (with ReportWritten in between for tasks that publish a report). Each
// thread runs on its own goroutine locked to an OS thread and can be pinned
// to a CPU. Batches join their threads with Wait; Detach starts a thread and
// drops the handle, leaving the task's side effect as the only completion
// signal.
package worker
