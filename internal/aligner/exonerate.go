package aligner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/zjrosen/bbh/internal/log"
)

// DefaultExecutable is the aligner binary name used when none is configured.
const DefaultExecutable = "exonerate"

// waitDelay bounds how long Align waits for the aligner's output to close
// after the process is killed. Children left behind by a wrapper script
// would otherwise hold stderr open.
const waitDelay = time.Second

// Config holds the aligner settings shared by both passes.
type Config struct {
	Executable string   // name or path; defaults to DefaultExecutable
	Model      string   // optional exonerate --model
	ExtraArgs  []string // appended after the fixed arguments
}

// Job is one aligner pass: every sequence in Query aligned against Target,
// with standard output written to Output.
type Job struct {
	Query  string
	Target string
	Output string
}

// Runner runs one aligner pass to completion.
type Runner interface {
	Align(ctx context.Context, job Job) error
}

// Exonerate runs the exonerate CLI.
type Exonerate struct {
	cfg    Config
	stderr io.Writer
	finder *ExecutableFinder
}

// Option configures an Exonerate runner.
type Option func(*Exonerate)

// WithStderr sets where the aligner's standard error goes (default os.Stderr).
func WithStderr(w io.Writer) Option {
	return func(e *Exonerate) {
		e.stderr = w
	}
}

// WithFinder overrides executable discovery.
func WithFinder(f *ExecutableFinder) Option {
	return func(e *Exonerate) {
		e.finder = f
	}
}

// NewExonerate creates a runner for cfg.
func NewExonerate(cfg Config, opts ...Option) *Exonerate {
	if cfg.Executable == "" {
		cfg.Executable = DefaultExecutable
	}
	e := &Exonerate{cfg: cfg, stderr: os.Stderr}
	for _, opt := range opts {
		opt(e)
	}
	if e.finder == nil {
		e.finder = NewExecutableFinder(cfg.Executable,
			WithKnownPaths(DefaultKnownPaths...),
			WithCache(resolvedPaths),
		)
	}
	return e
}

// Align runs one pass and blocks until the process exits. The output file is
// created or truncated before the process starts. Every failure is returned
// as an *InvocationError.
func (e *Exonerate) Align(ctx context.Context, job Job) error {
	execPath, err := e.finder.Find()
	if err != nil {
		return &InvocationError{Job: job, ExitCode: -1, Err: err}
	}

	out, err := os.Create(job.Output)
	if err != nil {
		return &InvocationError{Job: job, ExitCode: -1, Err: fmt.Errorf("creating output: %w", err)}
	}

	args := BuildArgs(e.cfg, job)
	log.Debug(log.CatAligner, "spawning aligner",
		"path", execPath, "query", job.Query, "target", job.Target, "output", job.Output)

	cmd := exec.CommandContext(ctx, execPath, args...) //nolint:gosec // G204: executable comes from config
	cmd.Stdout = out
	cmd.Stderr = e.stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	runErr := cmd.Run()
	closeErr := out.Close()

	if runErr != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			code = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			runErr = errors.Join(runErr, ctxErr)
		}
		log.ErrorErr(log.CatAligner, "Aligner failed", runErr,
			"query", job.Query, "target", job.Target, "exitCode", code)
		return &InvocationError{Job: job, ExitCode: code, Err: runErr}
	}
	if closeErr != nil {
		return &InvocationError{Job: job, ExitCode: -1, Err: fmt.Errorf("closing output: %w", closeErr)}
	}

	log.Debug(log.CatAligner, "aligner finished",
		"query", job.Query, "target", job.Target, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// Ensure Exonerate implements Runner at compile time.
var _ Runner = (*Exonerate)(nil)
