package bbh

import (
	"io"
	"strings"
)

// WriteSexp writes the table as a Lisp form binding *bbh* to the list of
// (GeneA GeneB) pairs, one pair per line:
//
//	(setq *bbh* '((g1 h2)
//	(g7 h3)))
//
// Identifiers are written verbatim. See UnsafeSexpIDs.
func (t *Table) WriteSexp(w io.Writer) error {
	var b strings.Builder
	b.WriteString("(setq *bbh* '(")
	for i, p := range t.Pairs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteByte('(')
		b.WriteString(p.GeneA)
		b.WriteByte(' ')
		b.WriteString(p.GeneB)
		b.WriteByte(')')
	}
	b.WriteString("))")
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSexpFile truncates path and writes the s-expression form to it.
func WriteSexpFile(path string, t *Table) error {
	return writeFile(path, t.WriteSexp)
}

// UnsafeSexpIDs returns, in table order and without repeats, the identifiers
// that would not read back as a single Lisp symbol.
func (t *Table) UnsafeSexpIDs() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range t.Pairs {
		for _, id := range [2]string{p.GeneA, p.GeneB} {
			if seen[id] {
				continue
			}
			seen[id] = true
			if id == "" || strings.ContainsAny(id, " \t\n\r()\"';`|") {
				out = append(out, id)
			}
		}
	}
	return out
}
