package handlers

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/repository"
	"github.com/themizzi/storefront-e2e/internal/services"
)

// RunsHandler reports scenario runs from the ledger
type RunsHandler struct {
	template *template.Template
	runs     services.RunService
}

// NewRunsHandler creates a new runs handler
func NewRunsHandler(templatePath string, runs services.RunService) (*RunsHandler, error) {
	tmpl, err := template.New("runs.html").Funcs(template.FuncMap{
		"duration": formatDuration,
	}).ParseFiles(templatePath)
	if err != nil {
		return nil, err
	}

	return &RunsHandler{
		template: tmpl,
		runs:     runs,
	}, nil
}

// RunView is one scenario run as rendered to clients
type RunView struct {
	ID         string     `json:"id"`
	RunID      string     `json:"runId"`
	Scenario   string     `json:"scenario"`
	Suite      string     `json:"suite"`
	Status     string     `json:"status"`
	Failures   []string   `json:"failures"`
	Error      string     `json:"error,omitempty"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	DurationMS int64      `json:"durationMs"`
}

// RunsPage holds the report data
type RunsPage struct {
	RunID   string    `json:"runId,omitempty"`
	Passed  int       `json:"passed"`
	Failed  int       `json:"failed"`
	Errored int       `json:"errored"`
	Runs    []RunView `json:"runs"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ServeHTTP lists recent runs, or the runs of one suite run when run_id is set
func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	wantJSON := strings.Contains(r.Header.Get("Accept"), "application/json")

	limit := repository.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.sendError(w, wantJSON, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runID := r.URL.Query().Get("run_id")

	var (
		runs []*models.ScenarioRun
		err  error
	)
	if runID != "" {
		runs, err = h.runs.RunsFor(runID)
	} else {
		runs, err = h.runs.RecentRuns(limit)
	}
	if err != nil {
		log.Printf("Error loading runs: %v", err)
		h.sendError(w, wantJSON, "Failed to load runs", http.StatusInternalServerError)
		return
	}

	page := NewRunsPage(runID, runs)

	if wantJSON {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(page); err != nil {
			log.Printf("Error encoding response: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.ExecuteTemplate(w, "runs.html", page); err != nil {
		log.Printf("Error rendering template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// NewRunsPage tallies runs by status and converts them for rendering
func NewRunsPage(runID string, runs []*models.ScenarioRun) RunsPage {
	page := RunsPage{RunID: runID, Runs: make([]RunView, 0, len(runs))}
	for _, run := range runs {
		switch run.Status {
		case models.RunStatusPassed:
			page.Passed++
		case models.RunStatusFailed:
			page.Failed++
		case models.RunStatusErrored:
			page.Errored++
		}
		page.Runs = append(page.Runs, newRunView(run))
	}
	return page
}

func newRunView(run *models.ScenarioRun) RunView {
	view := RunView{
		ID:         run.ID,
		RunID:      run.RunID,
		Scenario:   run.Scenario,
		Suite:      run.Suite,
		Status:     string(run.Status),
		Failures:   append([]string{}, run.Failures...),
		Error:      run.Error,
		DurationMS: run.Duration().Milliseconds(),
	}
	if !run.StartedAt.IsZero() {
		started := run.StartedAt
		view.StartedAt = &started
	}
	if !run.FinishedAt.IsZero() {
		finished := run.FinishedAt
		view.FinishedAt = &finished
	}
	return view
}

func formatDuration(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).String()
}

func (h *RunsHandler) sendError(w http.ResponseWriter, wantJSON bool, message string, statusCode int) {
	if !wantJSON {
		http.Error(w, message, statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
