package sqlite

import (
	"time"

	"github.com/zjrosen/bbh/internal/history/domain"
)

// RunModel represents the database row for the runs table.
// Time values are stored as Unix milliseconds.
type RunModel struct {
	ID         int64
	GUID       string
	OrgA       string
	OrgB       string
	FastaA     string
	FastaB     string
	OutDir     string
	Status     string
	Pairs      int64
	Error      *string // nullable
	StartedAt  int64
	FinishedAt *int64 // nullable
}

// toRunModel converts a domain Run to a database RunModel.
func toRunModel(r *domain.Run) *RunModel {
	s := r.Snapshot()
	m := &RunModel{
		ID:        s.ID,
		GUID:      s.GUID,
		OrgA:      s.OrgA,
		OrgB:      s.OrgB,
		FastaA:    s.FastaA,
		FastaB:    s.FastaB,
		OutDir:    s.OutDir,
		Status:    string(s.Status),
		Pairs:     int64(s.Pairs),
		StartedAt: s.StartedAt.UnixMilli(),
	}
	if s.Error != "" {
		msg := s.Error
		m.Error = &msg
	}
	if !s.FinishedAt.IsZero() {
		finished := s.FinishedAt.UnixMilli()
		m.FinishedAt = &finished
	}
	return m
}

// toDomain converts a RunModel back to a domain Run.
func (m *RunModel) toDomain() *domain.Run {
	s := domain.RunSnapshot{
		ID:        m.ID,
		GUID:      m.GUID,
		OrgA:      m.OrgA,
		OrgB:      m.OrgB,
		FastaA:    m.FastaA,
		FastaB:    m.FastaB,
		OutDir:    m.OutDir,
		Status:    domain.Status(m.Status),
		Pairs:     int(m.Pairs),
		StartedAt: time.UnixMilli(m.StartedAt),
	}
	if m.Error != nil {
		s.Error = *m.Error
	}
	if m.FinishedAt != nil {
		s.FinishedAt = time.UnixMilli(*m.FinishedAt)
	}
	return domain.ReconstituteRun(s)
}
