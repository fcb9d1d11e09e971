package repository

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/themizzi/storefront-e2e/internal/models"
)

func mustRun(t *testing.T, runID, scenario string) *models.ScenarioRun {
	t.Helper()
	run, err := models.NewScenarioRun(runID, scenario, "products")
	if err != nil {
		t.Fatalf("Failed to create scenario run: %v", err)
	}
	return run
}

func TestMemoryRunRepository_CreateUpdateGet(t *testing.T) {
	repo := NewMemoryRunRepository()
	run := mustRun(t, models.NewRunID(), "add products to cart")

	if err := repo.CreateRun(run); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	if err := run.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := run.Pass(); err != nil {
		t.Fatalf("Pass() error = %v", err)
	}
	if err := repo.UpdateRun(run); err != nil {
		t.Fatalf("UpdateRun() error = %v", err)
	}

	got, err := repo.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if diff := cmp.Diff(run, got); diff != "" {
		t.Errorf("GetRun() mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryRunRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRunRepository()
	run := mustRun(t, models.NewRunID(), "cart shows item count")
	run.Failures = []string{"first"}
	if err := repo.CreateRun(run); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	run.Failures[0] = "mutated"
	got, _ := repo.GetRun(run.ID)
	got.Status = models.RunStatusPassed

	again, _ := repo.GetRun(run.ID)
	if again.Failures[0] != "first" {
		t.Errorf("Expected stored failures to be isolated, got %v", again.Failures)
	}
	if again.Status != models.RunStatusPending {
		t.Errorf("Expected stored status pending, got %s", again.Status)
	}
}

func TestMemoryRunRepository_NotFound(t *testing.T) {
	repo := NewMemoryRunRepository()

	if err := repo.UpdateRun(mustRun(t, models.NewRunID(), "x")); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
	if _, err := repo.GetRun("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
}

func TestMemoryRunRepository_List(t *testing.T) {
	repo := NewMemoryRunRepository()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	first, second := models.NewRunID(), models.NewRunID()
	for _, r := range []struct{ runID, scenario string }{
		{first, "a"},
		{second, "b"},
		{first, "c"},
	} {
		if err := repo.CreateRun(mustRun(t, r.runID, r.scenario)); err != nil {
			t.Fatalf("CreateRun() error = %v", err)
		}
	}

	tests := []struct {
		name  string
		list  func() ([]*models.ScenarioRun, error)
		names []string
	}{
		{name: "by run id in creation order", list: func() ([]*models.ScenarioRun, error) { return repo.ListByRunID(first) }, names: []string{"a", "c"}},
		{name: "recent newest first", list: func() ([]*models.ScenarioRun, error) { return repo.ListRuns(2) }, names: []string{"c", "b"}},
		{name: "zero limit uses default", list: func() ([]*models.ScenarioRun, error) { return repo.ListRuns(0) }, names: []string{"c", "b", "a"}},
		{name: "unknown run id", list: func() ([]*models.ScenarioRun, error) { return repo.ListByRunID("none") }, names: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := tt.list()
			if err != nil {
				t.Fatalf("list error = %v", err)
			}
			var names []string
			for _, r := range runs {
				names = append(names, r.Scenario)
			}
			if diff := cmp.Diff(tt.names, names); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMemoryRunRepository_ConcurrentWrites(t *testing.T) {
	repo := NewMemoryRunRepository()
	runID := models.NewRunID()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			run := mustRun(t, runID, fmt.Sprintf("scenario %d", i))
			if err := repo.CreateRun(run); err != nil {
				t.Errorf("CreateRun() error = %v", err)
				return
			}
			_ = run.Start()
			if err := repo.UpdateRun(run); err != nil {
				t.Errorf("UpdateRun() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	runs, err := repo.ListByRunID(runID)
	if err != nil {
		t.Fatalf("ListByRunID() error = %v", err)
	}
	if len(runs) != 20 {
		t.Errorf("Expected 20 runs, got %d", len(runs))
	}
	for _, r := range runs {
		if r.Status != models.RunStatusRunning {
			t.Errorf("Expected running, got %s", r.Status)
		}
	}
}
