// Package pipeline runs a complete bidirectional best hit computation:
//
//  1. align A against B, stdout → {orgA}.to.{orgB}.tab
//  2. align B against A, stdout → {orgB}.to.{orgA}.tab (after 1 has exited)
//  3. read both tables and keep the pairs present in both directions
//  4. sort by forward similarity, highest first
//  5. write {orgA}_and_{orgB}_BBH.tab and {orgA}-and-{orgB}-BBH.lisp
//
// Steps never overlap and nothing is retried. A failure at any step aborts
// the run and leaves files from earlier steps in place.
package pipeline
