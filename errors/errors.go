// Package errors wraps pkg/errors and adds error codes, so that callers in
// any process can classify a failure without matching on message text.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code is an error code which can be used to check against a given error. For
// example, see the Is() method.
type Code string

const (
	ErrUncoded Code = "Uncoded"

	// ErrSharedResourceUnavailable is returned by counter and channel
	// operations once the shared region was closed locally or torn down by
	// its owner.
	ErrSharedResourceUnavailable Code = "SharedResourceUnavailable"
	// ErrThreadCreationFailed is returned when a worker thread cannot be
	// started.
	ErrThreadCreationFailed Code = "ThreadCreationFailed"
	// ErrProcessSpawnFailed is returned when a worker process cannot be
	// started.
	ErrProcessSpawnFailed Code = "ProcessSpawnFailed"

	ErrInvalidConfig    Code = "InvalidConfig"
	ErrInvalidScript    Code = "InvalidScript"
	ErrActionNotAllowed Code = "ActionNotAllowed"
	ErrRegionCorrupt    Code = "RegionCorrupt"
)

func New(code Code, message string) error {
	return errors.WithStack(codedError{
		Code:    code,
		Message: message,
	})
}

// Newf is New with a formatted message.
func Newf(code Code, format string, args ...interface{}) error {
	return New(code, fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// Is reports whether any error in err's chain carries the target code.
func Is(err error, target Code) bool {
	match := codedError{
		Code: target,
	}
	return errors.Is(err, match)
}

// CodeOf returns the code of the first coded error in err's chain, or the
// empty code when there is none.
func CodeOf(err error) Code {
	var ce codedError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

func Wrapf(err error, fmt string, args ...interface{}) error {
	return errors.Wrapf(err, fmt, args...)
}

// WrapCode wraps err with message and tags the result with code, keeping err
// reachable through Unwrap.
func WrapCode(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(codedError{
		Code:    code,
		Message: message + ": " + err.Error(),
		cause:   err,
	})
}

// codedError is the fundamental type used by this package to provide coded
// errors.
type codedError struct {
	Code    Code
	Message string
	cause   error
}

func (ce codedError) Error() string {
	return ce.Message
}

func (ce codedError) Unwrap() error {
	return ce.cause
}

func (ce codedError) Is(err error) bool {
	if e, ok := err.(codedError); ok && ce.Code == e.Code {
		return true
	}
	return false
}
