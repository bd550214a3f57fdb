package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a Run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one recorded pipeline invocation.
type Run struct {
	id         int64
	guid       string
	orgA       string
	orgB       string
	fastaA     string
	fastaB     string
	outDir     string
	status     Status
	pairs      int
	errMsg     string
	startedAt  time.Time
	finishedAt time.Time
}

// NewRun creates a running Run with a fresh GUID.
func NewRun(orgA, orgB, fastaA, fastaB, outDir string, now time.Time) *Run {
	return &Run{
		guid:      uuid.NewString(),
		orgA:      orgA,
		orgB:      orgB,
		fastaA:    fastaA,
		fastaB:    fastaB,
		outDir:    outDir,
		status:    StatusRunning,
		startedAt: now,
	}
}

// RunSnapshot carries every field of a Run; repositories use it to rebuild
// entities from storage.
type RunSnapshot struct {
	ID         int64
	GUID       string
	OrgA       string
	OrgB       string
	FastaA     string
	FastaB     string
	OutDir     string
	Status     Status
	Pairs      int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// ReconstituteRun rebuilds a Run from stored values.
func ReconstituteRun(s RunSnapshot) *Run {
	return &Run{
		id:         s.ID,
		guid:       s.GUID,
		orgA:       s.OrgA,
		orgB:       s.OrgB,
		fastaA:     s.FastaA,
		fastaB:     s.FastaB,
		outDir:     s.OutDir,
		status:     s.Status,
		pairs:      s.Pairs,
		errMsg:     s.Error,
		startedAt:  s.StartedAt,
		finishedAt: s.FinishedAt,
	}
}

// Succeed marks the run finished with the number of BBH pairs written.
func (r *Run) Succeed(pairs int, now time.Time) {
	r.status = StatusSucceeded
	r.pairs = pairs
	r.errMsg = ""
	r.finishedAt = now
}

// Fail marks the run finished with an error.
func (r *Run) Fail(err error, now time.Time) {
	r.status = StatusFailed
	if err != nil {
		r.errMsg = err.Error()
	}
	r.finishedAt = now
}

// Snapshot returns a copy of every field.
func (r *Run) Snapshot() RunSnapshot {
	return RunSnapshot{
		ID:         r.id,
		GUID:       r.guid,
		OrgA:       r.orgA,
		OrgB:       r.orgB,
		FastaA:     r.fastaA,
		FastaB:     r.fastaB,
		OutDir:     r.outDir,
		Status:     r.status,
		Pairs:      r.pairs,
		Error:      r.errMsg,
		StartedAt:  r.startedAt,
		FinishedAt: r.finishedAt,
	}
}

func (r *Run) ID() int64             { return r.id }
func (r *Run) SetID(id int64)        { r.id = id }
func (r *Run) GUID() string          { return r.guid }
func (r *Run) OrgA() string          { return r.orgA }
func (r *Run) OrgB() string          { return r.orgB }
func (r *Run) FastaA() string        { return r.fastaA }
func (r *Run) FastaB() string        { return r.fastaB }
func (r *Run) OutDir() string        { return r.outDir }
func (r *Run) Status() Status        { return r.status }
func (r *Run) Pairs() int            { return r.pairs }
func (r *Run) ErrorMessage() string  { return r.errMsg }
func (r *Run) StartedAt() time.Time  { return r.startedAt }
func (r *Run) FinishedAt() time.Time { return r.finishedAt }

// Duration returns how long the run took, or zero while it is running.
func (r *Run) Duration() time.Duration {
	if r.finishedAt.IsZero() {
		return 0
	}
	return r.finishedAt.Sub(r.startedAt)
}
