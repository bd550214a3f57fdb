// Package cmd implements the bbh command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/bbh/internal/config"
	"github.com/zjrosen/bbh/internal/log"
	"github.com/zjrosen/bbh/internal/paths"
	"github.com/zjrosen/bbh/internal/tracing"
)

// Exit codes returned by Execute.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitInterrupted = 130
)

var (
	cfgFile string
	debug   bool
	cfg     config.Config

	// cleanups run after the command finishes, including when it fails.
	cleanups []func()
)

var rootCmd = &cobra.Command{
	Use:   "bbh",
	Short: "Find bidirectional best hits between two sequence sets",
	Long: `bbh aligns two FASTA files against each other with exonerate and reports
every pair of sequences that are each other's best hit.

Outputs written to --outdir:
  {org1}.to.{org2}.tab        forward hit table
  {org2}.to.{org1}.tab        reverse hit table
  {org1}_and_{org2}_BBH.tab   BBH table
  {org1}-and-{org2}-BBH.lisp  BBH pairs as an s-expression`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default $"+paths.ConfigEnvVar+" or ~/.config/bbh/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	runCleanups()

	switch {
	case err == nil:
		return ExitOK
	case ctx.Err() != nil:
		fmt.Fprintln(os.Stderr, "interrupted")
		return ExitInterrupted
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		return ExitError
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	if err := loadConfig(true); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := initLogging(cmd.ErrOrStderr()); err != nil {
		return err
	}
	return initTracing(cmd.Context(), cmd.ErrOrStderr())
}

// loadConfig reads the config file, if any, and BBH_* environment overrides
// on top of config.Defaults into cfg. With strict set, a --config file that
// does not exist is an error.
func loadConfig(strict bool) error {
	v := viper.New()
	v.SetEnvPrefix("BBH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, config.Defaults())

	path := cfgFile
	if path == "" {
		path = paths.DefaultConfigPath()
	}
	v.SetConfigFile(paths.ExpandHome(path))
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if !missing || (strict && cfgFile != "") {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
		log.Debug(log.CatConfig, "No config file; using defaults", "path", path)
	} else {
		log.Debug(log.CatConfig, "Loaded config", "path", v.ConfigFileUsed())
	}

	c := config.Defaults()
	if err := v.Unmarshal(&c); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if debug {
		c.Log.Level = "debug"
	}
	cfg = c
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("aligner.executable", d.Aligner.Executable)
	v.SetDefault("aligner.model", d.Aligner.Model)
	v.SetDefault("aligner.extra_args", d.Aligner.ExtraArgs)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
}

func initLogging(stderr io.Writer) error {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	w := stderr
	if cfg.Log.File != "" {
		f, err := os.OpenFile(paths.ExpandHome(cfg.Log.File), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		cleanups = append(cleanups, func() { _ = f.Close() })
		w = f
	}
	log.Init(w, level)
	return nil
}

func initTracing(ctx context.Context, w io.Writer) error {
	shutdown, err := tracing.Setup(ctx, cfg.Tracing, w)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	cleanups = append(cleanups, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			log.Warn(log.CatConfig, "Tracing shutdown failed", "error", err)
		}
	})
	return nil
}

func runCleanups() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}
