package domain

import "fmt"

// RunNotFoundError indicates that no run with the given GUID exists.
type RunNotFoundError struct {
	GUID string
}

// Error implements the error interface.
func (e *RunNotFoundError) Error() string {
	return fmt.Sprintf("run not found: guid=%q", e.GUID)
}
