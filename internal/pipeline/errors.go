package pipeline

import "fmt"

// UsageError indicates a missing required input.
type UsageError struct {
	Field string
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return fmt.Sprintf("missing required input: %s", e.Field)
}
