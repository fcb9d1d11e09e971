package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/themizzi/storefront-e2e/internal/database"
	"github.com/themizzi/storefront-e2e/internal/models"
)

// ErrRunNotFound is returned when no scenario run has the requested id
var ErrRunNotFound = errors.New("scenario run not found")

// DefaultListLimit caps ListRuns when the caller passes zero or less
const DefaultListLimit = 100

// RunRepository handles database operations for scenario runs
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository() *RunRepository {
	return &RunRepository{
		db: database.DB,
	}
}

// NewRunRepositoryWithDB creates a new run repository with a specific database connection
func NewRunRepositoryWithDB(db *sql.DB) *RunRepository {
	return &RunRepository{
		db: db,
	}
}

const selectRun = `
		SELECT id, run_id, scenario, suite, status, failures, error,
		       started_at, finished_at, created_at, updated_at
		FROM scenario_runs
	`

// CreateRun inserts a scenario run
func (r *RunRepository) CreateRun(run *models.ScenarioRun) error {
	query := `
		INSERT INTO scenario_runs (id, run_id, scenario, suite, status, failures, error,
		                           started_at, finished_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	failures, err := encodeFailures(run.Failures)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = r.db.Exec(query,
		run.ID,
		run.RunID,
		run.Scenario,
		run.Suite,
		run.Status,
		failures,
		run.Error,
		nullTime(run.StartedAt),
		nullTime(run.FinishedAt),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create scenario run: %w", err)
	}

	run.CreatedAt = now
	run.UpdatedAt = now
	return nil
}

// UpdateRun stores the status, failures and timestamps of a scenario run
func (r *RunRepository) UpdateRun(run *models.ScenarioRun) error {
	query := `
		UPDATE scenario_runs
		SET status = $1, failures = $2, error = $3, started_at = $4, finished_at = $5, updated_at = $6
		WHERE id = $7
	`

	failures, err := encodeFailures(run.Failures)
	if err != nil {
		return err
	}

	now := time.Now()
	result, err := r.db.Exec(query,
		run.Status,
		failures,
		run.Error,
		nullTime(run.StartedAt),
		nullTime(run.FinishedAt),
		now,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update scenario run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRunNotFound
	}

	run.UpdatedAt = now
	return nil
}

// GetRun retrieves a scenario run by id
func (r *RunRepository) GetRun(id string) (*models.ScenarioRun, error) {
	run, err := scanRun(r.db.QueryRow(selectRun+" WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent scenario runs, newest first
func (r *RunRepository) ListRuns(limit int) ([]*models.ScenarioRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return r.query(selectRun+" ORDER BY created_at DESC, scenario ASC LIMIT $1", limit)
}

// ListByRunID returns the scenario runs of one suite run in creation order
func (r *RunRepository) ListByRunID(runID string) ([]*models.ScenarioRun, error) {
	return r.query(selectRun+" WHERE run_id = $1 ORDER BY created_at ASC, scenario ASC", runID)
}

func (r *RunRepository) query(query string, args ...any) ([]*models.ScenarioRun, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenario runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.ScenarioRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list scenario runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.ScenarioRun, error) {
	run := &models.ScenarioRun{}
	var failures []byte
	var startedAt, finishedAt sql.NullTime

	err := row.Scan(
		&run.ID,
		&run.RunID,
		&run.Scenario,
		&run.Suite,
		&run.Status,
		&failures,
		&run.Error,
		&startedAt,
		&finishedAt,
		&run.CreatedAt,
		&run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(failures, &run.Failures); err != nil {
		return nil, fmt.Errorf("failed to decode failures: %w", err)
	}
	run.StartedAt = startedAt.Time
	run.FinishedAt = finishedAt.Time
	return run, nil
}

// encodeFailures renders failures as JSON text for the jsonb column
func encodeFailures(failures []string) (string, error) {
	if failures == nil {
		failures = []string{}
	}
	data, err := json.Marshal(failures)
	if err != nil {
		return "", fmt.Errorf("failed to encode failures: %w", err)
	}
	return string(data), nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
