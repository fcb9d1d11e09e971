package config

import (
	"fmt"
	"strconv"
)

// Postgres defaults for the run ledger
const (
	DefaultPostgresPort    = 5432
	DefaultPostgresSSLMode = "disable"
)

var supportedSSLModes = map[string]bool{
	"disable":     true,
	"allow":       true,
	"prefer":      true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

// PostgresConfig holds the run ledger connection settings
type PostgresConfig struct {
	User     string
	Password string
	Database string
	Host     string
	Port     int
	SSLMode  string
}

// LoadPostgresConfig loads the ledger connection from environment variables.
// POSTGRES_PORT and POSTGRES_SSLMODE are optional.
func LoadPostgresConfig(getenv func(string) string) (*PostgresConfig, error) {
	config := &PostgresConfig{
		User:     getenv("POSTGRES_USER"),
		Password: getenv("POSTGRES_PASSWORD"),
		Database: getenv("POSTGRES_DB"),
		Host:     getenv("POSTGRES_HOSTNAME"),
		Port:     DefaultPostgresPort,
		SSLMode:  getenv("POSTGRES_SSLMODE"),
	}

	for _, required := range []struct{ key, value string }{
		{"POSTGRES_USER", config.User},
		{"POSTGRES_PASSWORD", config.Password},
		{"POSTGRES_DB", config.Database},
		{"POSTGRES_HOSTNAME", config.Host},
	} {
		if required.value == "" {
			return nil, fmt.Errorf("%s is required", required.key)
		}
	}

	if v := getenv("POSTGRES_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("POSTGRES_PORT must be a port number, got %q", v)
		}
		config.Port = port
	}

	if config.SSLMode == "" {
		config.SSLMode = DefaultPostgresSSLMode
	}
	if !supportedSSLModes[config.SSLMode] {
		return nil, fmt.Errorf("POSTGRES_SSLMODE %q is not a libpq sslmode", config.SSLMode)
	}

	return config, nil
}

// ConnectionString returns a lib/pq keyword/value connection string
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}
