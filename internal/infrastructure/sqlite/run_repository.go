package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/zjrosen/bbh/internal/history/domain"
)

const runColumns = `id, guid, org_a, org_b, fasta_a, fasta_b, out_dir, status, pairs, error, started_at, finished_at`

// runRepository implements domain.RunRepository using SQLite.
type runRepository struct {
	db *sql.DB
}

// newRunRepository creates a new runRepository instance.
func newRunRepository(db *sql.DB) *runRepository {
	return &runRepository{db: db}
}

// Ensure runRepository implements domain.RunRepository.
var _ domain.RunRepository = (*runRepository)(nil)

// Save persists a run. New runs (ID == 0) are inserted and receive an ID;
// existing runs are updated.
func (r *runRepository) Save(run *domain.Run) error {
	m := toRunModel(run)

	if m.ID == 0 {
		result, err := r.db.Exec(
			`INSERT INTO runs (guid, org_a, org_b, fasta_a, fasta_b, out_dir, status, pairs, error, started_at, finished_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.GUID, m.OrgA, m.OrgB, m.FastaA, m.FastaB, m.OutDir, m.Status, m.Pairs, m.Error, m.StartedAt, m.FinishedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		run.SetID(id)
		return nil
	}

	_, err := r.db.Exec(
		`UPDATE runs SET status = ?, pairs = ?, error = ?, finished_at = ? WHERE id = ?`,
		m.Status, m.Pairs, m.Error, m.FinishedAt, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// FindByGUID retrieves a run by GUID.
// Returns *domain.RunNotFoundError if no matching run exists.
func (r *runRepository) FindByGUID(guid string) (*domain.Run, error) {
	row := r.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE guid = ?`, guid)
	m, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.RunNotFoundError{GUID: guid}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find run by guid: %w", err)
	}
	return m.toDomain(), nil
}

// List returns up to limit runs, newest first. limit <= 0 means no limit.
func (r *runRepository) List(limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: negative LIMIT means unbounded
	}
	rows, err := r.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*domain.Run
	for rows.Next() {
		m, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, m.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*RunModel, error) {
	var m RunModel
	err := s.Scan(&m.ID, &m.GUID, &m.OrgA, &m.OrgB, &m.FastaA, &m.FastaB, &m.OutDir,
		&m.Status, &m.Pairs, &m.Error, &m.StartedAt, &m.FinishedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
