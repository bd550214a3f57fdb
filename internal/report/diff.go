package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/bbh/internal/bbh"
)

// ChangeKind says whether a pair appeared or disappeared.
type ChangeKind int

const (
	Removed ChangeKind = iota
	Added
)

// Change is one pair present in only one of two tables.
type Change struct {
	Kind  ChangeKind
	GeneA string
	GeneB string
}

// Diff lists the pairs removed from before and added in after. Similarity values
// are ignored; only pair membership is compared. Both tables must describe
// the same two organisms.
func Diff(before, after *bbh.Table) ([]Change, error) {
	if before.OrgA != after.OrgA || before.OrgB != after.OrgB {
		return nil, fmt.Errorf("tables compare different organisms: %s/%s and %s/%s",
			before.OrgA, before.OrgB, after.OrgA, after.OrgB)
	}

	dmp := diffmatchpatch.New()
	// A timed-out diff is not minimal and would report unchanged pairs.
	dmp.DiffTimeout = 0
	a, b, lines := dmp.DiffLinesToChars(pairLines(before), pairLines(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var changes []Change
	for _, d := range diffs {
		var kind ChangeKind
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			kind = Removed
		case diffmatchpatch.DiffInsert:
			kind = Added
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			geneA, geneB, ok := strings.Cut(line, "\t")
			if !ok {
				continue
			}
			changes = append(changes, Change{Kind: kind, GeneA: geneA, GeneB: geneB})
		}
	}
	return changes, nil
}

// FormatDiff prints one "+ geneA geneB" or "- geneA geneB" line per change.
func FormatDiff(changes []Change) string {
	var b strings.Builder
	for _, c := range changes {
		sign := "-"
		if c.Kind == Added {
			sign = "+"
		}
		fmt.Fprintf(&b, "%s %s\t%s\n", sign, c.GeneA, c.GeneB)
	}
	return b.String()
}

// pairLines returns one "geneA\tgeneB\n" line per distinct pair, sorted, so
// the line diff reduces to a set difference.
func pairLines(t *bbh.Table) string {
	lines := make([]string, 0, len(t.Pairs))
	for _, p := range t.Pairs {
		lines = append(lines, p.GeneA+"\t"+p.GeneB+"\n")
	}
	slices.Sort(lines)
	return strings.Join(slices.Compact(lines), "")
}
