package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents valid scenario run states
type RunStatus string

// Run statuses
const (
	RunStatusPending RunStatus = "pending"
	RunStatusRunning RunStatus = "running"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
	RunStatusErrored RunStatus = "errored"
)

// ScenarioRun records one execution of one scenario
type ScenarioRun struct {
	ID         string
	RunID      string
	Scenario   string
	Suite      string
	Status     RunStatus
	Failures   []string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Domain errors
var (
	ErrInvalidScenarioName     = errors.New("scenario name cannot be empty")
	ErrInvalidRunID            = errors.New("run id cannot be empty")
	ErrInvalidStatusTransition = errors.New("invalid run status transition")
)

// NewScenarioRun creates a pending run of a scenario within a suite run
func NewScenarioRun(runID, scenario, suite string) (*ScenarioRun, error) {
	if runID == "" {
		return nil, ErrInvalidRunID
	}
	if scenario == "" {
		return nil, ErrInvalidScenarioName
	}

	now := time.Now()
	return &ScenarioRun{
		ID:        uuid.New().String(),
		RunID:     runID,
		Scenario:  scenario,
		Suite:     suite,
		Status:    RunStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewRunID returns a fresh identifier for a suite run
func NewRunID() string {
	return uuid.New().String()
}

// Start marks the run as running
func (r *ScenarioRun) Start() error {
	if r.Status != RunStatusPending {
		return fmt.Errorf("%w: cannot start run with status %s", ErrInvalidStatusTransition, r.Status)
	}
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = now
	r.UpdatedAt = now
	return nil
}

// Pass marks a running scenario as passed
func (r *ScenarioRun) Pass() error {
	if r.Status != RunStatusRunning {
		return fmt.Errorf("%w: cannot pass run with status %s", ErrInvalidStatusTransition, r.Status)
	}
	r.finish(RunStatusPassed)
	return nil
}

// Fail marks a running scenario as failed with its assertion failures
func (r *ScenarioRun) Fail(failures []string) error {
	if r.Status != RunStatusRunning {
		return fmt.Errorf("%w: cannot fail run with status %s", ErrInvalidStatusTransition, r.Status)
	}
	if len(failures) == 0 {
		return errors.New("failed run needs at least one failure")
	}
	r.Failures = append([]string(nil), failures...)
	r.finish(RunStatusFailed)
	return nil
}

// Errored marks a scenario that could not complete. Pending runs may error
// too, which covers scenarios skipped after cancellation.
func (r *ScenarioRun) Errored(cause error, failures []string) error {
	if r.IsFinished() {
		return fmt.Errorf("%w: cannot error run with status %s", ErrInvalidStatusTransition, r.Status)
	}
	if cause == nil {
		return errors.New("errored run needs a cause")
	}
	r.Error = cause.Error()
	r.Failures = append([]string(nil), failures...)
	r.finish(RunStatusErrored)
	return nil
}

func (r *ScenarioRun) finish(status RunStatus) {
	now := time.Now()
	r.Status = status
	r.FinishedAt = now
	r.UpdatedAt = now
}

// IsFinished returns true once the run reached a terminal status
func (r *ScenarioRun) IsFinished() bool {
	switch r.Status {
	case RunStatusPassed, RunStatusFailed, RunStatusErrored:
		return true
	}
	return false
}

// IsPassed returns true if the run passed
func (r *ScenarioRun) IsPassed() bool {
	return r.Status == RunStatusPassed
}

// Duration returns how long the scenario ran, zero if it never started
func (r *ScenarioRun) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FailureSummary joins the failures on one line
func (r *ScenarioRun) FailureSummary() string {
	return strings.Join(r.Failures, "; ")
}
