package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/bbh/internal/bbh"
	"github.com/zjrosen/bbh/internal/report"
)

var diffCmd = &cobra.Command{
	Use:   "diff OLD NEW",
	Short: "Show pairs gained or lost between two BBH tables",
	Long: `diff compares the pairs of two BBH tables for the same organisms. Lines
starting with "-" are pairs only in OLD, "+" pairs only in NEW. Similarity
changes are not reported.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	before, err := bbh.ReadTableFile(args[0])
	if err != nil {
		return err
	}
	after, err := bbh.ReadTableFile(args[1])
	if err != nil {
		return err
	}

	changes, err := report.Diff(before, after)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(changes) == 0 {
		fmt.Fprintln(out, "No differences")
		return nil
	}

	var added int
	for _, c := range changes {
		if c.Kind == report.Added {
			added++
		}
	}
	fmt.Fprint(out, report.FormatDiff(changes))
	fmt.Fprintf(out, "%d removed, %d added\n", len(changes)-added, added)
	return nil
}
