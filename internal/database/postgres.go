package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/themizzi/storefront-e2e/internal/config"
)

// Pool limits for the ledger. Workers write one row at a time, so the pool
// stays small.
const (
	maxOpenConns    = 8
	maxIdleConns    = 4
	connMaxLifetime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// DB is the ledger connection opened by Connect
var DB *sql.DB

// Configured reports whether the environment names a Postgres ledger
func Configured(getenv func(string) string) bool {
	return getenv("POSTGRES_HOSTNAME") != ""
}

// Open opens a pool for cfg and verifies it answers a ping
func Open(cfg *config.PostgresConfig) (*sql.DB, error) {
	return OpenDSN(cfg.ConnectionString())
}

// OpenDSN is Open for a raw lib/pq connection string
func OpenDSN(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Connect opens DB from the process environment
func Connect() error {
	return ConnectWith(os.Getenv)
}

// ConnectWith opens DB using configuration read through getenv
func ConnectWith(getenv func(string) string) error {
	pgConfig, err := config.LoadPostgresConfig(getenv)
	if err != nil {
		return fmt.Errorf("failed to load postgres config: %w", err)
	}

	db, err := Open(pgConfig)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Close closes DB if it is open
func Close() error {
	if DB == nil {
		return nil
	}
	err := DB.Close()
	DB = nil
	return err
}
