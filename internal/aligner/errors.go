package aligner

import (
	"errors"
	"fmt"
)

var (
	// ErrExecutableNotFound indicates the aligner binary could not be located.
	ErrExecutableNotFound = errors.New("aligner executable not found")

	// ErrInvocationFailed matches every *InvocationError via errors.Is.
	ErrInvocationFailed = errors.New("external alignment invocation failed")
)

// InvocationError reports a failed aligner pass. ExitCode is -1 when the
// process never started or was killed by a signal.
type InvocationError struct {
	Job      Job
	ExitCode int
	Err      error
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("%v: %s → %s: exit status %d", ErrInvocationFailed, e.Job.Query, e.Job.Target, e.ExitCode)
	}
	return fmt.Sprintf("%v: %s → %s: %v", ErrInvocationFailed, e.Job.Query, e.Job.Target, e.Err)
}

// Unwrap returns the underlying cause.
func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvocationFailed.
func (e *InvocationError) Is(target error) bool {
	return target == ErrInvocationFailed
}
