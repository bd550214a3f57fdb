package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/bbh/internal/aligner"
	"github.com/zjrosen/bbh/internal/bbh"
	"github.com/zjrosen/bbh/internal/log"
	"github.com/zjrosen/bbh/internal/tracing"
)

// Request names the two sequence files and the directory that receives the
// intermediate and final tables.
type Request struct {
	FastaA string
	FastaB string
	OutDir string
}

// Result describes a completed run.
type Result struct {
	OrgA        string
	OrgB        string
	ForwardPath string
	ReversePath string
	TablePath   string
	SexpPath    string
	Table       *bbh.Table
}

// Pipeline runs BBH computations with a given aligner.
type Pipeline struct {
	runner   aligner.Runner
	recorder Recorder
	tracer   trace.Tracer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder records every run's start and outcome.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

// WithTracer overrides the tracer used for stage spans.
func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) {
		p.tracer = t
	}
}

// New creates a Pipeline that aligns with runner.
func New(runner aligner.Runner, opts ...Option) *Pipeline {
	p := &Pipeline{runner: runner}
	for _, opt := range opts {
		opt(p)
	}
	if p.tracer == nil {
		p.tracer = tracing.Tracer()
	}
	return p
}

// Validate checks that every input is present.
func (r Request) Validate() error {
	switch {
	case strings.TrimSpace(r.FastaA) == "":
		return &UsageError{Field: "fasta1"}
	case strings.TrimSpace(r.FastaB) == "":
		return &UsageError{Field: "fasta2"}
	case strings.TrimSpace(r.OutDir) == "":
		return &UsageError{Field: "outdir"}
	}
	return nil
}

// Run executes both aligner passes, joins their hit tables and writes the
// BBH table and s-expression into req.OutDir.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	orgA, orgB := bbh.OrganismID(req.FastaA), bbh.OrganismID(req.FastaB)
	if orgA == orgB {
		return nil, fmt.Errorf("%w: %q (%s, %s)", bbh.ErrSameOrganism, orgA, req.FastaA, req.FastaB)
	}

	ctx, span := p.tracer.Start(ctx, "bbh.run", trace.WithAttributes(
		attribute.String("bbh.org_a", orgA),
		attribute.String("bbh.org_b", orgB),
	))
	defer span.End()

	var runID string
	if p.recorder != nil {
		id, err := p.recorder.RunStarted(req, orgA, orgB)
		if err != nil {
			log.Warn(log.CatPipeline, "could not record run start", "error", err)
		}
		runID = id
	}

	res, err := p.run(ctx, req, orgA, orgB)

	if p.recorder != nil && runID != "" {
		pairs := 0
		if res != nil {
			pairs = res.Table.Len()
		}
		if recErr := p.recorder.RunFinished(runID, pairs, err); recErr != nil {
			log.Warn(log.CatPipeline, "could not record run outcome", "run", runID, "error", recErr)
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("bbh.pairs", res.Table.Len()))
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, req Request, orgA, orgB string) (*Result, error) {
	res := &Result{
		OrgA:        orgA,
		OrgB:        orgB,
		ForwardPath: filepath.Join(req.OutDir, bbh.HitFileName(orgA, orgB)),
		ReversePath: filepath.Join(req.OutDir, bbh.HitFileName(orgB, orgA)),
		TablePath:   filepath.Join(req.OutDir, bbh.TableFileName(orgA, orgB)),
		SexpPath:    filepath.Join(req.OutDir, bbh.SexpFileName(orgA, orgB)),
	}

	if err := p.align(ctx, "forward", aligner.Job{Query: req.FastaA, Target: req.FastaB, Output: res.ForwardPath}); err != nil {
		return nil, err
	}
	if err := p.align(ctx, "reverse", aligner.Job{Query: req.FastaB, Target: req.FastaA, Output: res.ReversePath}); err != nil {
		return nil, err
	}

	table, err := p.join(ctx, res, orgA, orgB)
	if err != nil {
		return nil, err
	}
	res.Table = table

	if err := p.write(ctx, res); err != nil {
		return nil, err
	}

	log.Info(log.CatPipeline, "BBH complete",
		"orgA", orgA, "orgB", orgB, "pairs", table.Len(), "table", res.TablePath)
	return res, nil
}

func (p *Pipeline) align(ctx context.Context, direction string, job aligner.Job) error {
	ctx, span := p.tracer.Start(ctx, "bbh.align", trace.WithAttributes(
		attribute.String("bbh.direction", direction),
		attribute.String("bbh.query", job.Query),
		attribute.String("bbh.target", job.Target),
	))
	defer span.End()

	log.Info(log.CatPipeline, "aligning", "direction", direction, "query", job.Query, "target", job.Target)
	if err := p.runner.Align(ctx, job); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s pass: %w", direction, err)
	}
	return nil
}

func (p *Pipeline) join(ctx context.Context, res *Result, orgA, orgB string) (*bbh.Table, error) {
	_, span := p.tracer.Start(ctx, "bbh.join")
	defer span.End()

	forward, err := bbh.ReadHitTableFile(res.ForwardPath, orgA, orgB)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	reverse, err := bbh.ReadHitTableFile(res.ReversePath, orgB, orgA)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	table, err := bbh.Join(forward, reverse)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	table.SortBySimilarity()

	span.SetAttributes(
		attribute.Int("bbh.forward_hits", len(forward.Hits)),
		attribute.Int("bbh.reverse_hits", len(reverse.Hits)),
		attribute.Int("bbh.pairs", table.Len()),
	)
	log.Debug(log.CatPipeline, "joined hit tables",
		"forwardHits", len(forward.Hits), "reverseHits", len(reverse.Hits), "pairs", table.Len())
	return table, nil
}

func (p *Pipeline) write(ctx context.Context, res *Result) error {
	_, span := p.tracer.Start(ctx, "bbh.write")
	defer span.End()

	if err := bbh.WriteTSVFile(res.TablePath, res.Table); err != nil {
		span.RecordError(err)
		return fmt.Errorf("writing BBH table: %w", err)
	}

	if unsafe := res.Table.UnsafeSexpIDs(); len(unsafe) > 0 {
		log.Warn(log.CatPipeline, "identifiers are not valid Lisp symbols and are written unescaped",
			"count", len(unsafe), "ids", unsafe)
	}
	if err := bbh.WriteSexpFile(res.SexpPath, res.Table); err != nil {
		span.RecordError(err)
		return fmt.Errorf("writing BBH s-expression: %w", err)
	}
	return nil
}
