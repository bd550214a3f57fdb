// Package aligner runs the external pairwise aligner (exonerate) for one
// direction of a bidirectional best hit computation.
//
// # CLI Requirements
//
// The "exonerate" command must be available in PATH or in one of the known
// install locations (~/.local/bin, /opt/homebrew/bin, /usr/local/bin,
// /usr/bin). A different executable can be configured with aligner.executable.
//
// # Invocation
//
// Each pass aligns every query sequence against the target file and keeps
// only the single best target per query:
//
//	exonerate --query A.faa --target B.faa --bestn 1 \
//	    --ryo "%qi\t%ti\t%ps\n" --showvulgar no --verbose 0 --showalignment no
//
// Standard output, one "query<TAB>target<TAB>similarity" line per hit, is
// written to the job's output file. Standard error passes through.
package aligner
