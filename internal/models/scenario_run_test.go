package models

import (
	"errors"
	"testing"
)

func TestNewScenarioRun(t *testing.T) {
	tests := []struct {
		name     string
		runID    string
		scenario string
		wantErr  error
	}{
		{name: "valid run", runID: "run-1", scenario: "add products to cart"},
		{name: "missing run id", runID: "", scenario: "add products to cart", wantErr: ErrInvalidRunID},
		{name: "missing scenario", runID: "run-1", scenario: "", wantErr: ErrInvalidScenarioName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := NewScenarioRun(tt.runID, tt.scenario, "products")

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("NewScenarioRun() error = %v, wantErr %v", err, tt.wantErr)
				}
				if run != nil {
					t.Error("Expected run to be nil when error occurs")
				}
				return
			}

			if err != nil {
				t.Fatalf("NewScenarioRun() unexpected error = %v", err)
			}
			if run.ID == "" {
				t.Error("Run ID should not be empty")
			}
			if run.Status != RunStatusPending {
				t.Errorf("Expected status %s, got %s", RunStatusPending, run.Status)
			}
		})
	}
}

func newRunWithStatus(t *testing.T, status RunStatus) *ScenarioRun {
	t.Helper()
	run, err := NewScenarioRun(NewRunID(), "scenario", "suite")
	if err != nil {
		t.Fatalf("NewScenarioRun() unexpected error = %v", err)
	}
	run.Status = status
	return run
}

func TestScenarioRun_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    RunStatus
		apply   func(*ScenarioRun) error
		want    RunStatus
		wantErr bool
	}{
		{name: "start pending", from: RunStatusPending, apply: (*ScenarioRun).Start, want: RunStatusRunning},
		{name: "cannot start running", from: RunStatusRunning, apply: (*ScenarioRun).Start, wantErr: true},
		{name: "pass running", from: RunStatusRunning, apply: (*ScenarioRun).Pass, want: RunStatusPassed},
		{name: "cannot pass pending", from: RunStatusPending, apply: (*ScenarioRun).Pass, wantErr: true},
		{
			name:  "fail running",
			from:  RunStatusRunning,
			apply: func(r *ScenarioRun) error { return r.Fail([]string{"badge mismatch"}) },
			want:  RunStatusFailed,
		},
		{
			name:    "fail without failures",
			from:    RunStatusRunning,
			apply:   func(r *ScenarioRun) error { return r.Fail(nil) },
			wantErr: true,
		},
		{
			name:  "error pending after cancellation",
			from:  RunStatusPending,
			apply: func(r *ScenarioRun) error { return r.Errored(errors.New("context canceled"), nil) },
			want:  RunStatusErrored,
		},
		{
			name:    "cannot error passed",
			from:    RunStatusPassed,
			apply:   func(r *ScenarioRun) error { return r.Errored(errors.New("late"), nil) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := newRunWithStatus(t, tt.from)
			err := tt.apply(run)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if run.Status != tt.from {
					t.Errorf("status changed to %s on failed transition", run.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if run.Status != tt.want {
				t.Errorf("Expected status %s, got %s", tt.want, run.Status)
			}
		})
	}
}

func TestScenarioRun_FailureSummary(t *testing.T) {
	run := newRunWithStatus(t, RunStatusPending)
	if err := run.Start(); err != nil {
		t.Fatal(err)
	}
	if err := run.Fail([]string{"count mismatch", "badge mismatch"}); err != nil {
		t.Fatal(err)
	}

	if got := run.FailureSummary(); got != "count mismatch; badge mismatch" {
		t.Errorf("unexpected summary %q", got)
	}
	if !run.IsFinished() || run.IsPassed() {
		t.Error("Expected finished, not passed")
	}
	if run.Duration() < 0 {
		t.Error("Duration should not be negative")
	}
}
