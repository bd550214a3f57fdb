package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/bbh/internal/bbh"
	"github.com/zjrosen/bbh/internal/history/domain"
	"github.com/zjrosen/bbh/internal/infrastructure/sqlite"
	"github.com/zjrosen/bbh/internal/paths"
)

// fakeExonerate prints a fixed forward or reverse hit table depending on
// which organism is the query.
const fakeExonerate = `#!/bin/sh
while [ $# -gt 0 ]; do
  case "$1" in --query) q="$2"; shift ;; esac
  shift
done
case "$q" in
  *ecoli*) printf 'b0001\tSTY0001\t95.0\nb0002\tSTY0002\t80.0\nb0003\tSTY0009\t60.0\n' ;;
  *) printf 'STY0001\tb0001\t94.5\nSTY0002\tb0002\t81.0\nSTY0009\tb0004\t55.0\n' ;;
esac
`

type env struct {
	home   string
	config string
}

// newEnv isolates a test from the user's home directory and config.
func newEnv(t *testing.T) env {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfgPath := filepath.Join(home, "bbh-config.yaml")
	t.Setenv(paths.ConfigEnvVar, cfgPath)
	return env{home: home, config: cfgPath}
}

func (e env) writeConfig(t *testing.T, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(e.config, []byte(body), 0600))
}

func (e env) fakeAligner(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script executables are not supported on windows")
	}
	script := filepath.Join(e.home, "exonerate")
	require.NoError(t, os.WriteFile(script, []byte(fakeExonerate), 0755))
	return script
}

// resetFlags restores every flag in the command tree to its default so
// values do not leak between tests.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err = rootCmd.ExecuteContext(context.Background())
	runCleanups()
	return out.String(), errOut.String(), err
}

// ============================================================================
// run
// ============================================================================

func TestRun_WritesOutputs(t *testing.T) {
	e := newEnv(t)
	e.writeConfig(t, "aligner:\n  executable: "+e.fakeAligner(t)+"\n")
	outDir := t.TempDir()

	stdout, _, err := execute(t, "run",
		"--fasta1", filepath.Join(e.home, "ecoli.faa"),
		"--fasta2", filepath.Join(e.home, "styphi.faa"),
		"--outdir", outDir)
	require.NoError(t, err)

	tablePath := filepath.Join(outDir, "ecoli_and_styphi_BBH.tab")
	sexpPath := filepath.Join(outDir, "ecoli-and-styphi-BBH.lisp")
	require.Contains(t, stdout, filepath.Join(outDir, "ecoli.to.styphi.tab"))
	require.Contains(t, stdout, filepath.Join(outDir, "styphi.to.ecoli.tab"))
	require.Contains(t, stdout, tablePath)
	require.Contains(t, stdout, sexpPath)
	require.Contains(t, stdout, "2 bidirectional best hits between ecoli and styphi")

	tbl, err := bbh.ReadTableFile(tablePath)
	require.NoError(t, err)
	require.Equal(t, []bbh.Pair{
		{GeneA: "b0001", GeneB: "STY0001", Forward: 95, Reverse: 94.5},
		{GeneA: "b0002", GeneB: "STY0002", Forward: 80, Reverse: 81},
	}, tbl.Pairs)

	sexp, err := os.ReadFile(sexpPath)
	require.NoError(t, err)
	require.Equal(t, "(setq *bbh* '((b0001 STY0001)\n(b0002 STY0002)))", string(sexp))
}

func TestRun_RequiresAllInputs(t *testing.T) {
	newEnv(t)

	_, _, err := execute(t, "run", "--fasta1", "a.faa", "--outdir", t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), `required flag(s) "fasta2" not set`)
}

func TestRun_MissingAligner(t *testing.T) {
	e := newEnv(t)
	e.writeConfig(t, "aligner:\n  executable: "+filepath.Join(e.home, "no-such-exonerate")+"\n")

	_, _, err := execute(t, "run", "--fasta1", "ecoli.faa", "--fasta2", "styphi.faa", "--outdir", t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "forward pass")
}

func TestRun_RecordsHistory(t *testing.T) {
	e := newEnv(t)
	e.writeConfig(t, "aligner:\n  executable: "+e.fakeAligner(t)+"\nhistory:\n  enabled: true\n")

	outDir := t.TempDir()
	_, _, err := execute(t, "run",
		"--fasta1", filepath.Join(e.home, "ecoli.faa"),
		"--fasta2", filepath.Join(e.home, "styphi.faa"),
		"--outdir", outDir)
	require.NoError(t, err)
	require.FileExists(t, paths.DefaultHistoryPath())

	stdout, _, err := execute(t, "history")
	require.NoError(t, err)
	require.Contains(t, stdout, "ecoli / styphi")
	require.Contains(t, stdout, "succeeded")

	db, err := sqlite.NewDB(paths.DefaultHistoryPath())
	require.NoError(t, err)
	runs, err := db.RunRepository().List(1)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.Len(t, runs, 1)
	guid := runs[0].GUID()
	require.Contains(t, stdout, guid)

	stdout, _, err = execute(t, "history", guid)
	require.NoError(t, err)
	require.Contains(t, stdout, guid)
	require.Contains(t, stdout, filepath.Join(outDir, "ecoli_and_styphi_BBH.tab"))
}

func TestHistory_UnknownRun(t *testing.T) {
	e := newEnv(t)
	e.writeConfig(t, "history:\n  enabled: true\n")

	_, _, err := execute(t, "history", "00000000-0000-0000-0000-000000000000")
	var notFound *domain.RunNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "00000000-0000-0000-0000-000000000000", notFound.GUID)
}

// ============================================================================
// config loading
// ============================================================================

func TestConfig_InvalidIsRejected(t *testing.T) {
	e := newEnv(t)
	e.writeConfig(t, "log:\n  level: verbose\n")

	_, _, err := execute(t, "show", "whatever.tab")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid config")
}

func TestConfig_ExplicitFileMustExist(t *testing.T) {
	newEnv(t)

	_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "history")
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading config")
}

func TestConfigShow_EnvOverridesFile(t *testing.T) {
	e := newEnv(t)
	e.writeConfig(t, "aligner:\n  executable: /opt/exonerate\n  model: affine:local\n")
	t.Setenv("BBH_ALIGNER_MODEL", "protein2genome")
	t.Setenv("BBH_WATCH_DEBOUNCE", "500ms")

	stdout, _, err := execute(t, "config", "show")
	require.NoError(t, err)
	require.Contains(t, stdout, "executable: /opt/exonerate")
	require.Contains(t, stdout, "model: protein2genome")
	require.Contains(t, stdout, "debounce: 500ms")
	require.Contains(t, stdout, "exporter: none")
}

func TestConfigShow_DebugFlag(t *testing.T) {
	newEnv(t)

	stdout, _, err := execute(t, "--debug", "config", "show")
	require.NoError(t, err)
	require.Contains(t, stdout, "level: debug")
}

func TestConfigInit(t *testing.T) {
	e := newEnv(t)

	stdout, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	require.Contains(t, stdout, e.config)
	require.FileExists(t, e.config)

	_, _, err = execute(t, "config", "init")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigInit_ExplicitPath(t *testing.T) {
	newEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "bbh.yaml")

	_, _, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	require.FileExists(t, path)

	// The written template must load and validate.
	_, _, err = execute(t, "--config", path, "history")
	require.ErrorIs(t, err, ErrHistoryDisabled)
}

// ============================================================================
// show / diff / history
// ============================================================================

func writeTable(t *testing.T, pairs ...bbh.Pair) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ecoli_and_styphi_BBH.tab")
	require.NoError(t, bbh.WriteTSVFile(path, &bbh.Table{OrgA: "ecoli", OrgB: "styphi", Pairs: pairs}))
	return path
}

func TestShow(t *testing.T) {
	newEnv(t)
	path := writeTable(t,
		bbh.Pair{GeneA: "b0001", GeneB: "STY0001", Forward: 95, Reverse: 94.5},
		bbh.Pair{GeneA: "b0002", GeneB: "STY0002", Forward: 80, Reverse: 81},
	)

	stdout, _, err := execute(t, "show", path)
	require.NoError(t, err)
	require.Contains(t, stdout, "Similarity_ecoli.to.styphi")
	require.Contains(t, stdout, "b0002")
	require.Contains(t, stdout, "94.5")

	stdout, _, err = execute(t, "show", "--limit", "1", path)
	require.NoError(t, err)
	require.NotContains(t, stdout, "b0002")
	require.Contains(t, stdout, "(showing 1)")
}

func TestShow_MissingFile(t *testing.T) {
	newEnv(t)
	_, _, err := execute(t, "show", filepath.Join(t.TempDir(), "nope.tab"))
	require.Error(t, err)
}

func TestDiff(t *testing.T) {
	newEnv(t)
	before := writeTable(t,
		bbh.Pair{GeneA: "b0001", GeneB: "STY0001", Forward: 95, Reverse: 94.5},
		bbh.Pair{GeneA: "b0002", GeneB: "STY0002", Forward: 80, Reverse: 81},
	)
	after := writeTable(t,
		bbh.Pair{GeneA: "b0001", GeneB: "STY0001", Forward: 96, Reverse: 94.5},
		bbh.Pair{GeneA: "b0003", GeneB: "STY0003", Forward: 70, Reverse: 71},
	)

	stdout, _, err := execute(t, "diff", before, after)
	require.NoError(t, err)
	require.Equal(t, "- b0002\tSTY0002\n+ b0003\tSTY0003\n1 removed, 1 added\n", stdout)

	stdout, _, err = execute(t, "diff", before, before)
	require.NoError(t, err)
	require.Equal(t, "No differences\n", stdout)
}

func TestHistory_Disabled(t *testing.T) {
	newEnv(t)
	_, _, err := execute(t, "history")
	require.ErrorIs(t, err, ErrHistoryDisabled)
}

func TestHistory_Empty(t *testing.T) {
	e := newEnv(t)
	e.writeConfig(t, "history:\n  enabled: true\n  path: "+filepath.Join(t.TempDir(), "h.db")+"\n")

	stdout, _, err := execute(t, "history")
	require.NoError(t, err)
	require.Equal(t, "No runs recorded\n", stdout)
}
