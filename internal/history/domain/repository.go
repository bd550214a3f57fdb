package domain

// RunRepository persists Runs.
type RunRepository interface {
	// Save inserts a new run (ID == 0, ID is assigned) or updates an existing one.
	Save(run *Run) error

	// FindByGUID returns the run with guid, or *RunNotFoundError.
	FindByGUID(guid string) (*Run, error)

	// List returns up to limit runs, most recently started first.
	// A limit <= 0 returns every run.
	List(limit int) ([]*Run, error)
}
