package bbh

import (
	"path/filepath"
	"strings"
)

// OrganismID derives an organism label from a sequence file path by dropping
// the directory and the final extension. Leading dots of the file name never
// start an extension.
//
//	OrganismID("/data/org1.fasta") == "org1"
//	OrganismID("x/a.b.faa")        == "a.b"
//	OrganismID("/data/.ecoli")     == ".ecoli"
func OrganismID(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimLeft(base, ".")
	if i := strings.LastIndexByte(stem, '.'); i >= 0 {
		return base[:len(base)-len(stem)+i]
	}
	return base
}

// HitFileName is the intermediate aligner output name for one direction.
func HitFileName(queryOrg, targetOrg string) string {
	return queryOrg + ".to." + targetOrg + ".tab"
}

// TableFileName is the tab-separated BBH output name.
func TableFileName(orgA, orgB string) string {
	return orgA + "_and_" + orgB + "_BBH.tab"
}

// SexpFileName is the s-expression BBH output name.
func SexpFileName(orgA, orgB string) string {
	return orgA + "-and-" + orgB + "-BBH.lisp"
}

// SimilarityLabel is the column label of the similarity reported when
// aligning queryOrg against targetOrg.
func SimilarityLabel(queryOrg, targetOrg string) string {
	return "Similarity_" + queryOrg + ".to." + targetOrg
}
