// Package bbh holds the bidirectional best hit data model: organism
// identifiers, per-direction hit tables, the reciprocal join and the two
// output serializations (tab-separated table and Lisp s-expression).
//
// A forward table lists, for every query gene of organism A, the single best
// target gene of organism B. The reverse table does the same from B to A.
// A pair (x, y) is a bidirectional best hit when the forward table has x→y
// and the reverse table has y→x:
//
//	fwd, _ := bbh.ReadHitTableFile("out/ecoli.to.styphi.tab", "ecoli", "styphi")
//	rev, _ := bbh.ReadHitTableFile("out/styphi.to.ecoli.tab", "styphi", "ecoli")
//	table, _ := bbh.Join(fwd, rev)
//	table.SortBySimilarity()
package bbh
