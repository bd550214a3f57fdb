package bbh

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyHitTable indicates an aligner output file with no data rows.
	ErrEmptyHitTable = errors.New("hit table has no rows")

	// ErrFieldCount indicates a row without exactly the expected columns.
	ErrFieldCount = errors.New("unexpected number of fields")

	// ErrBadHeader indicates a BBH table whose header row is not
	// [orgA, orgB, Similarity_orgA.to.orgB, Similarity_orgB.to.orgA].
	ErrBadHeader = errors.New("malformed BBH table header")

	// ErrSameOrganism indicates both inputs resolve to the same organism
	// identifier, which would make every column label ambiguous.
	ErrSameOrganism = errors.New("both inputs have the same organism identifier")

	// ErrOrganismMismatch indicates a forward and reverse table that do not
	// describe the same two organisms in opposite directions.
	ErrOrganismMismatch = errors.New("hit tables do not mirror each other")
)

// ParseError describes a failure to read a hit or BBH table.
// Line is 1-based and zero when the error is not tied to a line.
type ParseError struct {
	File string
	Line int
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	name := e.File
	if name == "" {
		name = "<input>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %v", name, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", name, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}
