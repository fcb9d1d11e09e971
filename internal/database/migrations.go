package database

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Schema creates the scenario run ledger
const Schema = `
	CREATE TABLE IF NOT EXISTS scenario_runs (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL,
		scenario VARCHAR(255) NOT NULL,
		suite VARCHAR(64) NOT NULL,
		status VARCHAR(50) NOT NULL,
		failures JSONB NOT NULL DEFAULT '[]',
		error TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMP,
		finished_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_scenario_runs_run_id ON scenario_runs(run_id);
	CREATE INDEX IF NOT EXISTS idx_scenario_runs_status ON scenario_runs(status);
	CREATE INDEX IF NOT EXISTS idx_scenario_runs_created_at ON scenario_runs(created_at);
	`

// RunMigrations creates the ledger table on DB
func RunMigrations() error {
	if DB == nil {
		return fmt.Errorf("database connection not initialized")
	}
	if err := Migrate(DB); err != nil {
		return err
	}

	zap.L().Info("Database migrations completed")
	return nil
}

// Migrate applies Schema to db
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create scenario_runs table: %w", err)
	}
	return nil
}
