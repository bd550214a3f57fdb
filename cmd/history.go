package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/bbh/internal/infrastructure/sqlite"
	"github.com/zjrosen/bbh/internal/paths"
	"github.com/zjrosen/bbh/internal/report"
)

// ErrHistoryDisabled is returned by the history command when history.enabled is false.
var ErrHistoryDisabled = errors.New("run history is disabled (set history.enabled: true)")

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [RUN]",
	Short: "List recorded runs, newest first, or show one run in detail",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "show at most N runs (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if !cfg.History.Enabled {
		return ErrHistoryDisabled
	}

	db, err := sqlite.NewDB(paths.ResolveHistoryPath(cfg.History.Path))
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer func() { _ = db.Close() }()

	repo := db.RunRepository()
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		run, err := repo.FindByGUID(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(out, report.RenderRun(run))
		return nil
	}

	runs, err := repo.List(historyLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}
	fmt.Fprint(out, report.RenderRuns(runs))
	return nil
}
