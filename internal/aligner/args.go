package aligner

// RyoFormat is the exonerate --ryo template: query id, target id and
// percent similarity, tab separated.
const RyoFormat = "%qi\t%ti\t%ps\n"

// BuildArgs constructs the exonerate command line for one pass:
//
//	exonerate --query <q> --target <t> --bestn 1 --ryo "%qi\t%ti\t%ps\n" \
//	    --showvulgar no --verbose 0 --showalignment no [--model <m>] [extra...]
func BuildArgs(cfg Config, job Job) []string {
	args := []string{
		"--query", job.Query,
		"--target", job.Target,
		"--bestn", "1",
		"--ryo", RyoFormat,
		"--showvulgar", "no",
		"--verbose", "0",
		"--showalignment", "no",
	}

	if cfg.Model != "" {
		args = append(args, "--model", cfg.Model)
	}

	return append(args, cfg.ExtraArgs...)
}
