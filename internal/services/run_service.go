package services

import (
	"fmt"

	"github.com/themizzi/storefront-e2e/internal/models"
)

// RunRepository defines the interface for scenario run persistence
type RunRepository interface {
	CreateRun(run *models.ScenarioRun) error
	UpdateRun(run *models.ScenarioRun) error
	ListRuns(limit int) ([]*models.ScenarioRun, error)
	ListByRunID(runID string) ([]*models.ScenarioRun, error)
}

// RunService records scenario outcomes in the run ledger
type RunService interface {
	Begin(runID, scenario, suite string) (*models.ScenarioRun, error)
	Finish(run *models.ScenarioRun, failures []string, cause error) error
	Abort(runID, scenario, suite string, cause error) (*models.ScenarioRun, error)
	RecentRuns(limit int) ([]*models.ScenarioRun, error)
	RunsFor(runID string) ([]*models.ScenarioRun, error)
}

// RunServiceImpl implements RunService
type RunServiceImpl struct {
	runRepo RunRepository
}

// NewRunService creates a new run service
func NewRunService(runRepo RunRepository) RunService {
	return &RunServiceImpl{
		runRepo: runRepo,
	}
}

// Begin records a scenario as running
func (s *RunServiceImpl) Begin(runID, scenario, suite string) (*models.ScenarioRun, error) {
	run, err := models.NewScenarioRun(runID, scenario, suite)
	if err != nil {
		return nil, fmt.Errorf("invalid scenario run: %w", err)
	}
	if err := run.Start(); err != nil {
		return nil, err
	}

	if err := s.runRepo.CreateRun(run); err != nil {
		return nil, fmt.Errorf("failed to create scenario run: %w", err)
	}
	return run, nil
}

// Finish moves a running scenario to its terminal status: errored when cause
// is set, failed when checks failed, passed otherwise.
func (s *RunServiceImpl) Finish(run *models.ScenarioRun, failures []string, cause error) error {
	var err error
	switch {
	case cause != nil:
		err = run.Errored(cause, failures)
	case len(failures) > 0:
		err = run.Fail(failures)
	default:
		err = run.Pass()
	}
	if err != nil {
		return err
	}

	if err := s.runRepo.UpdateRun(run); err != nil {
		return fmt.Errorf("failed to update scenario run: %w", err)
	}
	return nil
}

// Abort records a scenario that never started
func (s *RunServiceImpl) Abort(runID, scenario, suite string, cause error) (*models.ScenarioRun, error) {
	run, err := models.NewScenarioRun(runID, scenario, suite)
	if err != nil {
		return nil, fmt.Errorf("invalid scenario run: %w", err)
	}
	if err := run.Errored(cause, nil); err != nil {
		return nil, err
	}

	if err := s.runRepo.CreateRun(run); err != nil {
		return nil, fmt.Errorf("failed to create scenario run: %w", err)
	}
	return run, nil
}

// RecentRuns returns the latest scenario runs, newest first
func (s *RunServiceImpl) RecentRuns(limit int) ([]*models.ScenarioRun, error) {
	runs, err := s.runRepo.ListRuns(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// RunsFor returns the scenario runs of one suite run
func (s *RunServiceImpl) RunsFor(runID string) ([]*models.ScenarioRun, error) {
	runs, err := s.runRepo.ListByRunID(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
