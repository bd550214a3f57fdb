package bbh

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/jgbaldwinbrown/csvh"
)

// tsvReader yields tab-separated records with the line each started on.
// Empty lines are skipped.
type tsvReader struct {
	cr *csv.Reader
}

func newTSVReader(r io.Reader) *tsvReader {
	return &tsvReader{cr: csvh.CsvIn(r)}
}

// next returns the next record and its 1-based line number. At end of input
// it returns io.EOF; any other error is a *ParseError.
func (t *tsvReader) next() ([]string, int, error) {
	rec, err := t.cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, io.EOF
	}
	if err != nil {
		var ce *csv.ParseError
		if errors.As(err, &ce) {
			return nil, ce.Line, &ParseError{Line: ce.Line, Err: ce.Err}
		}
		return nil, 0, &ParseError{Err: err}
	}
	line, _ := t.cr.FieldPos(0)
	return rec, line, nil
}
