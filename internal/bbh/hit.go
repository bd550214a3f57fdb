package bbh

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jgbaldwinbrown/csvh"
)

// Hit is one aligner output row: the best target for a query gene and the
// percent similarity the aligner reported for that alignment.
type Hit struct {
	Query      string
	Target     string
	Similarity float64
}

// HitTable is the ordered output of one aligner pass.
type HitTable struct {
	QueryOrg  string
	TargetOrg string
	Hits      []Hit
}

// Columns returns the column labels of the table.
func (t *HitTable) Columns() []string {
	return []string{t.QueryOrg, t.TargetOrg, SimilarityLabel(t.QueryOrg, t.TargetOrg)}
}

// ReadHitTable parses header-less "query<TAB>target<TAB>similarity" lines.
// Blank lines are ignored. A table without any rows is an error.
func ReadHitTable(r io.Reader, queryOrg, targetOrg string) (*HitTable, error) {
	t := &HitTable{QueryOrg: queryOrg, TargetOrg: targetOrg}

	tr := newTSVReader(r)
	for {
		rec, line, err := tr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) != 3 {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("%w: got %d, want 3", ErrFieldCount, len(rec))}
		}
		var h Hit
		if _, err := csvh.Scan(rec, &h.Query, &h.Target, &h.Similarity); err != nil {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("similarity %q: %w", rec[2], err)}
		}
		t.Hits = append(t.Hits, h)
	}
	if len(t.Hits) == 0 {
		return nil, &ParseError{Err: ErrEmptyHitTable}
	}
	return t, nil
}

// ReadHitTableFile reads a hit table from path. Parse errors carry the path.
func ReadHitTableFile(path, queryOrg, targetOrg string) (*HitTable, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is built from the output directory
	if err != nil {
		return nil, fmt.Errorf("opening hit table: %w", err)
	}
	defer func() { _ = f.Close() }()

	t, err := ReadHitTable(f, queryOrg, targetOrg)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return nil, err
	}
	return t, nil
}
