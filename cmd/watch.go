package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/zjrosen/bbh/internal/log"
	"github.com/zjrosen/bbh/internal/watch"
)

var watchFlags inputFlags

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run whenever either FASTA file changes",
	Long: `watch runs the pipeline once, then again each time --fasta1 or --fasta2 is
written. Changes arriving within watch.debounce of each other trigger a
single run. A failed run is logged and watching continues. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchFlags.register(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	req := watchFlags.request()
	if err := req.Validate(); err != nil {
		return err
	}

	p, closeFn, err := newPipeline(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeFn()

	w, err := watch.New([]string{req.FastaA, req.FastaB}, cfg.Watch.Debounce, func(ctx context.Context) error {
		res, err := p.Run(ctx, req)
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	})
	if err != nil {
		return err
	}

	log.Info(log.CatWatch, "Watching inputs", "fasta1", req.FastaA, "fasta2", req.FastaB, "debounce", cfg.Watch.Debounce)
	return w.Run(cmd.Context())
}
