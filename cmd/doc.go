// Package cmd contains the cobra commands of the multiproc binary: run,
// config and the hidden worker entry used by re-executed child processes.
package cmd
