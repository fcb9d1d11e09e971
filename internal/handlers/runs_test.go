package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/repository"
	"github.com/themizzi/storefront-e2e/internal/services"
)

const runsTemplate = "../../templates/runs.html"

// MockRunService is a mock implementation of RunService for testing
type MockRunService struct {
	RecentRunsFunc func(int) ([]*models.ScenarioRun, error)
	RunsForFunc    func(string) ([]*models.ScenarioRun, error)
}

func (m *MockRunService) Begin(runID, scenario, suite string) (*models.ScenarioRun, error) {
	return nil, errors.New("not implemented")
}

func (m *MockRunService) Finish(run *models.ScenarioRun, failures []string, cause error) error {
	return errors.New("not implemented")
}

func (m *MockRunService) Abort(runID, scenario, suite string, cause error) (*models.ScenarioRun, error) {
	return nil, errors.New("not implemented")
}

func (m *MockRunService) RecentRuns(limit int) ([]*models.ScenarioRun, error) {
	if m.RecentRunsFunc != nil {
		return m.RecentRunsFunc(limit)
	}
	return nil, nil
}

func (m *MockRunService) RunsFor(runID string) ([]*models.ScenarioRun, error) {
	if m.RunsForFunc != nil {
		return m.RunsForFunc(runID)
	}
	return nil, nil
}

// seededRunService records one passed and one failed scenario under runID
func seededRunService(t *testing.T, runID string) services.RunService {
	t.Helper()
	svc := services.NewRunService(repository.NewMemoryRunRepository())

	passed, err := svc.Begin(runID, "add products to cart", "products")
	if err != nil {
		t.Fatalf("Failed to begin run: %v", err)
	}
	if err := svc.Finish(passed, nil, nil); err != nil {
		t.Fatalf("Failed to finish run: %v", err)
	}

	failed, err := svc.Begin(runID, "remove all items", "cart")
	if err != nil {
		t.Fatalf("Failed to begin run: %v", err)
	}
	if err := svc.Finish(failed, []string{"cart badge still shows 1"}, nil); err != nil {
		t.Fatalf("Failed to finish run: %v", err)
	}

	if _, err := svc.Abort("other-run", "complete purchase flow", "e2e", errors.New("browser crashed")); err != nil {
		t.Fatalf("Failed to abort run: %v", err)
	}
	return svc
}

func TestRunsHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		query          string
		expectedStatus int
		checkContent   []string
		absentContent  []string
	}{
		{
			name:           "recent runs",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			checkContent:   []string{"add products to cart", "remove all items", "complete purchase flow", "cart badge still shows 1", "browser crashed", "1 passed", "1 failed", "1 errored"},
		},
		{
			name:           "runs of one suite run",
			method:         http.MethodGet,
			query:          "?run_id=run-1",
			expectedStatus: http.StatusOK,
			checkContent:   []string{"for run-1", "add products to cart", "remove all items", "0 errored"},
			absentContent:  []string{"complete purchase flow"},
		},
		{
			name:           "unknown run id",
			method:         http.MethodGet,
			query:          "?run_id=missing",
			expectedStatus: http.StatusOK,
			checkContent:   []string{"No runs recorded yet"},
		},
		{
			name:           "limit",
			method:         http.MethodGet,
			query:          "?limit=1",
			expectedStatus: http.StatusOK,
			checkContent:   []string{"complete purchase flow"},
			absentContent:  []string{"add products to cart"},
		},
		{
			name:           "invalid limit",
			method:         http.MethodGet,
			query:          "?limit=zero",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative limit",
			method:         http.MethodGet,
			query:          "?limit=-3",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "method not allowed - POST",
			method:         http.MethodPost,
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "method not allowed - DELETE",
			method:         http.MethodDelete,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, err := NewRunsHandler(runsTemplate, seededRunService(t, "run-1"))
			if err != nil {
				t.Fatalf("Failed to create handler: %v", err)
			}

			req := httptest.NewRequest(tt.method, "/runs"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			body := w.Body.String()
			for _, content := range tt.checkContent {
				if !strings.Contains(body, content) {
					t.Errorf("expected response to contain '%s'", content)
				}
			}
			for _, content := range tt.absentContent {
				if strings.Contains(body, content) {
					t.Errorf("expected response not to contain '%s'", content)
				}
			}
		})
	}
}

func TestRunsHandler_JSON(t *testing.T) {
	handler, err := NewRunsHandler(runsTemplate, seededRunService(t, "run-1"))
	if err != nil {
		t.Fatalf("Failed to create handler: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/runs?run_id=run-1", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", ct)
	}

	var page RunsPage
	if err := json.NewDecoder(w.Body).Decode(&page); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if page.RunID != "run-1" {
		t.Errorf("Expected run id run-1, got %s", page.RunID)
	}
	if len(page.Runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(page.Runs))
	}
	if page.Passed != 1 || page.Failed != 1 || page.Errored != 0 {
		t.Errorf("Expected 1/1/0 tallies, got %d/%d/%d", page.Passed, page.Failed, page.Errored)
	}
	if page.Runs[0].Scenario != "add products to cart" {
		t.Errorf("Expected first run to be add products to cart, got %s", page.Runs[0].Scenario)
	}
	if page.Runs[1].Status != string(models.RunStatusFailed) {
		t.Errorf("Expected second run to be failed, got %s", page.Runs[1].Status)
	}
	if len(page.Runs[1].Failures) != 1 {
		t.Errorf("Expected 1 failure, got %v", page.Runs[1].Failures)
	}
	if page.Runs[0].StartedAt == nil || page.Runs[0].FinishedAt == nil {
		t.Error("Expected start and finish times on a finished run")
	}
}

func TestRunsHandler_ServiceError(t *testing.T) {
	svc := &MockRunService{
		RecentRunsFunc: func(int) ([]*models.ScenarioRun, error) {
			return nil, errors.New("connection refused")
		},
	}
	handler, err := NewRunsHandler(runsTemplate, svc)
	if err != nil {
		t.Fatalf("Failed to create handler: %v", err)
	}

	t.Run("html", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/runs", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected status 500, got %d", w.Code)
		}
		if strings.Contains(w.Body.String(), "connection refused") {
			t.Error("Expected internal error to stay out of the response")
		}
	})

	t.Run("json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/runs", nil)
		req.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected status 500, got %d", w.Code)
		}

		var resp ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}
		if resp.Message != "Failed to load runs" {
			t.Errorf("Expected message 'Failed to load runs', got %s", resp.Message)
		}
	})
}

func TestRunsHandler_DefaultLimit(t *testing.T) {
	var got int
	svc := &MockRunService{
		RecentRunsFunc: func(limit int) ([]*models.ScenarioRun, error) {
			got = limit
			return nil, nil
		},
	}
	handler, err := NewRunsHandler(runsTemplate, svc)
	if err != nil {
		t.Fatalf("Failed to create handler: %v", err)
	}

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/runs", nil))

	if got != repository.DefaultListLimit {
		t.Errorf("Expected limit %d, got %d", repository.DefaultListLimit, got)
	}
}

func TestNewRunsHandler(t *testing.T) {
	tests := []struct {
		name         string
		templatePath string
		wantErr      bool
	}{
		{
			name:         "valid template path",
			templatePath: runsTemplate,
			wantErr:      false,
		},
		{
			name:         "invalid template path",
			templatePath: "/invalid/path/to/runs.html",
			wantErr:      true,
		},
		{
			name:         "empty template path",
			templatePath: "",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, err := NewRunsHandler(tt.templatePath, &MockRunService{})

			if tt.wantErr && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.wantErr && handler == nil {
				t.Error("expected handler to be created")
			}
		})
	}
}
