package bbh

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/jgbaldwinbrown/csvh"
)

// Pair is one bidirectional best hit. GeneA belongs to the table's OrgA and
// GeneB to OrgB. Forward is the similarity reported aligning A against B,
// Reverse the one reported aligning B against A.
type Pair struct {
	GeneA   string
	GeneB   string
	Forward float64
	Reverse float64
}

// Table is the ordered set of bidirectional best hits between two organisms.
type Table struct {
	OrgA  string
	OrgB  string
	Pairs []Pair
}

// Columns returns the header row written by WriteTSV.
func (t *Table) Columns() []string {
	return []string{t.OrgA, t.OrgB, SimilarityLabel(t.OrgA, t.OrgB), SimilarityLabel(t.OrgB, t.OrgA)}
}

// Len returns the number of pairs.
func (t *Table) Len() int {
	return len(t.Pairs)
}

// Join intersects a forward and a reverse hit table. A forward hit x→y and a
// reverse hit y→x produce the pair (x, y). Duplicate keys on either side are
// combined like a relational inner join. The result is ordered by
// (GeneA, GeneB); call SortBySimilarity for the published order.
func Join(forward, reverse *HitTable) (*Table, error) {
	if forward.QueryOrg == forward.TargetOrg {
		return nil, fmt.Errorf("%w: %q", ErrSameOrganism, forward.QueryOrg)
	}
	if forward.QueryOrg != reverse.TargetOrg || forward.TargetOrg != reverse.QueryOrg {
		return nil, fmt.Errorf("%w: forward %s→%s, reverse %s→%s", ErrOrganismMismatch,
			forward.QueryOrg, forward.TargetOrg, reverse.QueryOrg, reverse.TargetOrg)
	}

	type key struct{ a, b string }
	back := make(map[key][]float64, len(reverse.Hits))
	for _, h := range reverse.Hits {
		k := key{a: h.Target, b: h.Query}
		back[k] = append(back[k], h.Similarity)
	}

	t := &Table{OrgA: forward.QueryOrg, OrgB: forward.TargetOrg, Pairs: []Pair{}}
	for _, h := range forward.Hits {
		for _, rev := range back[key{a: h.Query, b: h.Target}] {
			t.Pairs = append(t.Pairs, Pair{GeneA: h.Query, GeneB: h.Target, Forward: h.Similarity, Reverse: rev})
		}
	}

	slices.SortStableFunc(t.Pairs, func(x, y Pair) int {
		if c := cmp.Compare(x.GeneA, y.GeneA); c != 0 {
			return c
		}
		return cmp.Compare(x.GeneB, y.GeneB)
	})
	return t, nil
}

// SortBySimilarity orders pairs by forward similarity, highest first.
// The sort is stable, so equal similarities keep their current order.
func (t *Table) SortBySimilarity() {
	slices.SortStableFunc(t.Pairs, func(x, y Pair) int {
		return cmp.Compare(y.Forward, x.Forward)
	})
}

// WriteTSV writes the header row followed by one row per pair.
func (t *Table) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(t.Columns(), "\t") + "\n"); err != nil {
		return err
	}
	for _, p := range t.Pairs {
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%s\t%s\n",
			p.GeneA, p.GeneB, FormatSimilarity(p.Forward), FormatSimilarity(p.Reverse)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteTSVFile truncates path and writes the table to it.
func WriteTSVFile(path string, t *Table) error {
	return writeFile(path, t.WriteTSV)
}

// ReadTable parses a table previously written by WriteTSV.
func ReadTable(r io.Reader) (*Table, error) {
	tr := newTSVReader(r)

	header, _, err := tr.next()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Line: 1, Err: ErrBadHeader}
	}
	if err != nil {
		return nil, err
	}
	if len(header) != 4 ||
		header[2] != SimilarityLabel(header[0], header[1]) ||
		header[3] != SimilarityLabel(header[1], header[0]) {
		return nil, &ParseError{Line: 1, Err: ErrBadHeader}
	}

	t := &Table{OrgA: header[0], OrgB: header[1], Pairs: []Pair{}}
	for {
		rec, line, err := tr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) != 4 {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("%w: got %d, want 4", ErrFieldCount, len(rec))}
		}
		var p Pair
		if _, err := csvh.Scan(rec, &p.GeneA, &p.GeneB, &p.Forward, &p.Reverse); err != nil {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("similarities %q, %q: %w", rec[2], rec[3], err)}
		}
		t.Pairs = append(t.Pairs, p)
	}
	return t, nil
}

// ReadTableFile reads a BBH table from path.
func ReadTableFile(path string) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // G304: user-supplied table path
	if err != nil {
		return nil, fmt.Errorf("opening BBH table: %w", err)
	}
	defer func() { _ = f.Close() }()

	t, err := ReadTable(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return nil, err
	}
	return t, nil
}

// FormatSimilarity prints v in its shortest round-trip form, keeping a
// fractional part for whole numbers (95 → "95.0").
func FormatSimilarity(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.ContainsAny(s, ".NI") {
		return s
	}
	return s + ".0"
}

func writeFile(path string, write func(io.Writer) error) (retErr error) {
	f, err := os.Create(path) //nolint:gosec // G304: path is built from the output directory
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && retErr == nil {
			retErr = closeErr
		}
	}()
	return write(f)
}
