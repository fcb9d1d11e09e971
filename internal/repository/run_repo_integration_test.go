//go:build integration
// +build integration

package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/repository/testutil"
)

func newRun(t *testing.T, runID, scenario string) *models.ScenarioRun {
	t.Helper()
	run, err := models.NewScenarioRun(runID, scenario, "cart")
	if err != nil {
		t.Fatalf("Failed to create scenario run: %v", err)
	}
	return run
}

func TestRunRepository_CreateAndGet_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRunRepositoryWithDB(testDB.DB)
	run := newRun(t, models.NewRunID(), "cart shows item count")

	if err := repo.CreateRun(run); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	if run.CreatedAt.IsZero() || run.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}

	retrieved, err := repo.GetRun(run.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve created run: %v", err)
	}
	if retrieved.Scenario != run.Scenario {
		t.Errorf("Scenario mismatch: got %v, want %v", retrieved.Scenario, run.Scenario)
	}
	if retrieved.Status != models.RunStatusPending {
		t.Errorf("Status mismatch: got %v, want %v", retrieved.Status, models.RunStatusPending)
	}
	if len(retrieved.Failures) != 0 {
		t.Errorf("Expected no failures, got %v", retrieved.Failures)
	}
	if !retrieved.StartedAt.IsZero() {
		t.Errorf("StartedAt should be unset, got %v", retrieved.StartedAt)
	}
}

func TestRunRepository_UpdateRun_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRunRepositoryWithDB(testDB.DB)
	run := newRun(t, models.NewRunID(), "cart shows item names")
	if err := repo.CreateRun(run); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	if err := run.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := run.Fail([]string{"Not equal: 2 != 1", "badge missing"}); err != nil {
		t.Fatalf("Fail() error = %v", err)
	}
	if err := repo.UpdateRun(run); err != nil {
		t.Fatalf("UpdateRun() error = %v", err)
	}

	retrieved, err := repo.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if retrieved.Status != models.RunStatusFailed {
		t.Errorf("Status mismatch: got %v, want %v", retrieved.Status, models.RunStatusFailed)
	}
	if len(retrieved.Failures) != 2 || retrieved.Failures[1] != "badge missing" {
		t.Errorf("Failures mismatch: got %v", retrieved.Failures)
	}
	if retrieved.StartedAt.IsZero() || retrieved.FinishedAt.IsZero() {
		t.Error("StartedAt and FinishedAt should be set")
	}
}

func TestRunRepository_UpdateRun_NotFound_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRunRepositoryWithDB(testDB.DB)
	run := newRun(t, models.NewRunID(), "never stored")

	err := repo.UpdateRun(run)
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}

	_, err = repo.GetRun(uuid.New().String())
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
}

func TestRunRepository_CreateRun_DuplicateID_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRunRepositoryWithDB(testDB.DB)
	run := newRun(t, models.NewRunID(), "cart shows item prices")
	if err := repo.CreateRun(run); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	if err := repo.CreateRun(run); err == nil {
		t.Error("Expected error when creating a run with a duplicate id")
	}
}

func TestRunRepository_List_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRunRepositoryWithDB(testDB.DB)
	first, second := models.NewRunID(), models.NewRunID()

	for _, r := range []struct{ runID, scenario string }{
		{first, "a"},
		{first, "b"},
		{second, "c"},
	} {
		if err := repo.CreateRun(newRun(t, r.runID, r.scenario)); err != nil {
			t.Fatalf("CreateRun() error = %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	runs, err := repo.ListByRunID(first)
	if err != nil {
		t.Fatalf("ListByRunID() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	for _, r := range runs {
		if r.RunID != first {
			t.Errorf("Expected run id %s, got %s", first, r.RunID)
		}
	}

	recent, err := repo.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(recent))
	}
	if recent[0].Scenario != "c" {
		t.Errorf("Expected newest run first, got %s", recent[0].Scenario)
	}

	none, err := repo.ListByRunID(uuid.New().String())
	if err != nil {
		t.Fatalf("ListByRunID() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no runs, got %d", len(none))
	}
}
