package repository

import (
	"sync"
	"time"

	"github.com/themizzi/storefront-e2e/internal/models"
)

// MemoryRunRepository keeps scenario runs in process. It is safe for
// concurrent use and hands out copies.
type MemoryRunRepository struct {
	mu    sync.RWMutex
	runs  map[string]*models.ScenarioRun
	order []string
	now   func() time.Time
}

// NewMemoryRunRepository creates an empty in-memory ledger
func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{
		runs: make(map[string]*models.ScenarioRun),
		now:  time.Now,
	}
}

// CreateRun stores a copy of run
func (r *MemoryRunRepository) CreateRun(run *models.ScenarioRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	run.CreatedAt = now
	run.UpdatedAt = now
	r.runs[run.ID] = clone(run)
	r.order = append(r.order, run.ID)
	return nil
}

// UpdateRun replaces the stored copy of run
func (r *MemoryRunRepository) UpdateRun(run *models.ScenarioRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.runs[run.ID]
	if !ok {
		return ErrRunNotFound
	}
	run.CreatedAt = stored.CreatedAt
	run.UpdatedAt = r.now()
	r.runs[run.ID] = clone(run)
	return nil
}

// GetRun returns a copy of the run with id
func (r *MemoryRunRepository) GetRun(id string) (*models.ScenarioRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return clone(run), nil
}

// ListRuns returns the most recent runs, newest first
func (r *MemoryRunRepository) ListRuns(limit int) ([]*models.ScenarioRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.ScenarioRun, 0, min(limit, len(r.order)))
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, clone(r.runs[r.order[i]]))
	}
	return out, nil
}

// ListByRunID returns the runs of one suite run in creation order
func (r *MemoryRunRepository) ListByRunID(runID string) ([]*models.ScenarioRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.ScenarioRun
	for _, id := range r.order {
		if run := r.runs[id]; run.RunID == runID {
			out = append(out, clone(run))
		}
	}
	return out, nil
}

func clone(run *models.ScenarioRun) *models.ScenarioRun {
	c := *run
	c.Failures = append([]string(nil), run.Failures...)
	return &c
}
