// Package testutil gives integration tests an isolated Postgres schema with
// the run ledger migrated into it.
package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/themizzi/storefront-e2e/internal/config"
	"github.com/themizzi/storefront-e2e/internal/database"
)

// Connection defaults matching a local docker postgres
var localDefaults = map[string]string{
	"POSTGRES_USER":     "postgres",
	"POSTGRES_PASSWORD": "postgres",
	"POSTGRES_DB":       "postgres",
	"POSTGRES_HOSTNAME": "localhost",
}

// TestDatabase is a migrated schema that is dropped when the test ends
type TestDatabase struct {
	DB         *sql.DB
	SchemaName string
	admin      *sql.DB
}

// SetupTestDatabase creates a schema unique to t, points a pool at it and
// runs the ledger migration. Cleanup is registered on t.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	cfg, err := config.LoadPostgresConfig(envWithDefaults)
	if err != nil {
		t.Fatalf("Failed to load postgres config: %v", err)
	}

	admin, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}

	td := &TestDatabase{
		SchemaName: "ledger_test_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		admin:      admin,
	}
	t.Cleanup(func() { td.teardown(t) })

	if _, err := admin.Exec(fmt.Sprintf("CREATE SCHEMA %s", td.SchemaName)); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	td.DB, err = database.OpenDSN(fmt.Sprintf("%s search_path=%s", cfg.ConnectionString(), td.SchemaName))
	if err != nil {
		t.Fatalf("Failed to connect to test schema: %v", err)
	}

	if err := database.Migrate(td.DB); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return td
}

func (td *TestDatabase) teardown(t *testing.T) {
	if td.DB != nil {
		td.DB.Close()
	}
	if _, err := td.admin.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", td.SchemaName)); err != nil {
		t.Logf("Warning: failed to drop test schema %s: %v", td.SchemaName, err)
	}
	td.admin.Close()
}

func envWithDefaults(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return localDefaults[key]
}
