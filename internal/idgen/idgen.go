// Package idgen generates run identifiers. Region and trace files are named
// after them, so they must not collide between concurrent runs on one host.
package idgen

import "github.com/google/uuid"

// NewFunc is replaced in tests that need predictable names.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new run identifier.
func New() string { return NewFunc() }
