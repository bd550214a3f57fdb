package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/bbh/internal/aligner"
	"github.com/zjrosen/bbh/internal/infrastructure/sqlite"
	"github.com/zjrosen/bbh/internal/log"
	"github.com/zjrosen/bbh/internal/paths"
	"github.com/zjrosen/bbh/internal/pipeline"
)

// inputFlags are shared by run and watch.
type inputFlags struct {
	fasta1 string
	fasta2 string
	outdir string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fasta1, "fasta1", "", "first FASTA file (organism A)")
	cmd.Flags().StringVar(&f.fasta2, "fasta2", "", "second FASTA file (organism B)")
	cmd.Flags().StringVar(&f.outdir, "outdir", "", "existing directory for all output files")
	_ = cmd.MarkFlagRequired("fasta1")
	_ = cmd.MarkFlagRequired("fasta2")
	_ = cmd.MarkFlagRequired("outdir")
}

func (f *inputFlags) request() pipeline.Request {
	return pipeline.Request{FastaA: f.fasta1, FastaB: f.fasta2, OutDir: f.outdir}
}

var runFlags inputFlags

var runCmd = &cobra.Command{
	Use:     "run",
	Short:   "Compute bidirectional best hits for two FASTA files",
	Example: `  bbh run --fasta1 data/ecoli.faa --fasta2 data/styphi.faa --outdir out/`,
	Args:    cobra.NoArgs,
	RunE:    runRun,
}

func init() {
	runFlags.register(runCmd)
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	p, closeFn, err := newPipeline(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := p.Run(cmd.Context(), runFlags.request())
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

// newPipeline builds a pipeline from cfg. The returned close function
// releases the history database when one is opened.
func newPipeline(stderr io.Writer) (*pipeline.Pipeline, func(), error) {
	runner := aligner.NewExonerate(aligner.Config{
		Executable: cfg.Aligner.Executable,
		Model:      cfg.Aligner.Model,
		ExtraArgs:  cfg.Aligner.ExtraArgs,
	}, aligner.WithStderr(stderr))

	if !cfg.History.Enabled {
		return pipeline.New(runner), func() {}, nil
	}

	db, err := sqlite.NewDB(paths.ResolveHistoryPath(cfg.History.Path))
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	closeFn := func() {
		if err := db.Close(); err != nil {
			log.Warn(log.CatDB, "Closing history database failed", "error", err)
		}
	}
	rec := pipeline.NewHistoryRecorder(db.RunRepository())
	return pipeline.New(runner, pipeline.WithRecorder(rec)), closeFn, nil
}

func printResult(w io.Writer, res *pipeline.Result) {
	fmt.Fprintf(w, "Forward hits:  %s\n", res.ForwardPath)
	fmt.Fprintf(w, "Reverse hits:  %s\n", res.ReversePath)
	fmt.Fprintf(w, "BBH table:     %s\n", res.TablePath)
	fmt.Fprintf(w, "BBH sexp:      %s\n", res.SexpPath)
	fmt.Fprintf(w, "%d bidirectional best hits between %s and %s\n", res.Table.Len(), res.OrgA, res.OrgB)
}
