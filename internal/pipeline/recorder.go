package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/zjrosen/bbh/internal/history/domain"
)

// Recorder is notified when a run starts and when it ends.
type Recorder interface {
	// RunStarted returns an identifier passed back to RunFinished.
	RunStarted(req Request, orgA, orgB string) (string, error)
	RunFinished(runID string, pairs int, runErr error) error
}

// HistoryRecorder stores runs in a domain.RunRepository.
type HistoryRecorder struct {
	repo domain.RunRepository
	now  func() time.Time

	mu   sync.Mutex
	runs map[string]*domain.Run
}

// NewHistoryRecorder creates a recorder backed by repo.
func NewHistoryRecorder(repo domain.RunRepository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo, now: time.Now, runs: make(map[string]*domain.Run)}
}

// RunStarted saves a running entry and returns its GUID.
func (h *HistoryRecorder) RunStarted(req Request, orgA, orgB string) (string, error) {
	run := domain.NewRun(orgA, orgB, req.FastaA, req.FastaB, req.OutDir, h.now())
	if err := h.repo.Save(run); err != nil {
		return "", err
	}

	h.mu.Lock()
	h.runs[run.GUID()] = run
	h.mu.Unlock()
	return run.GUID(), nil
}

// RunFinished marks the run succeeded or failed and saves it.
func (h *HistoryRecorder) RunFinished(runID string, pairs int, runErr error) error {
	h.mu.Lock()
	run, ok := h.runs[runID]
	delete(h.runs, runID)
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("run %s was not started by this recorder", runID)
	}

	if runErr != nil {
		run.Fail(runErr, h.now())
	} else {
		run.Succeed(pairs, h.now())
	}
	return h.repo.Save(run)
}

// Ensure HistoryRecorder implements Recorder.
var _ Recorder = (*HistoryRecorder)(nil)
