package config

import (
	"fmt"
	"strings"
)

// LoggingConfig holds configuration for the diagnostic logger
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// LoadLoggingConfig loads logging configuration from environment variables
func LoadLoggingConfig(getenv func(string) string) (*LoggingConfig, error) {
	config := &LoggingConfig{
		Level:  strings.ToLower(getenv("LOG_LEVEL")),
		Format: strings.ToLower(getenv("LOG_FORMAT")),
		File:   getenv("LOG_FILE"),
	}

	if config.Level == "" {
		config.Level = "info"
	}
	switch config.Level {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", config.Level)
	}

	if config.Format == "" {
		config.Format = "console"
	}
	if config.Format != "console" && config.Format != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be console or json, got %q", config.Format)
	}

	return config, nil
}
