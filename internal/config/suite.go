package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Defaults for the suite configuration
const (
	DefaultBaseURL            = "https://www.saucedemo.com"
	DefaultBrowser            = "chromium"
	DefaultActionTimeout      = 10 * time.Second
	DefaultStorageState       = ".auth/login.json"
	DefaultStorageStateMaxAge = 10 * time.Minute
	DefaultWorkers            = 4
)

var supportedBrowsers = map[string]bool{
	"chromium": true,
	"firefox":  true,
	"webkit":   true,
}

// SuiteConfig holds configuration for a suite run
type SuiteConfig struct {
	BaseURL            string
	Browser            string
	Headless           bool
	SlowMo             time.Duration
	ActionTimeout      time.Duration
	StorageState       string
	StorageStateMaxAge time.Duration
	Workers            int
}

// LoadSuiteConfig loads suite configuration from environment variables
func LoadSuiteConfig(getenv func(string) string) (*SuiteConfig, error) {
	config := &SuiteConfig{
		BaseURL:            strings.TrimRight(getenv("BASE_URL"), "/"),
		Browser:            strings.ToLower(getenv("BROWSER")),
		Headless:           true,
		ActionTimeout:      DefaultActionTimeout,
		StorageState:       getenv("STORAGE_STATE"),
		StorageStateMaxAge: DefaultStorageStateMaxAge,
		Workers:            DefaultWorkers,
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if u, err := url.Parse(config.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("BASE_URL must be an absolute URL, got %q", config.BaseURL)
	}

	if config.Browser == "" {
		config.Browser = DefaultBrowser
	}
	if !supportedBrowsers[config.Browser] {
		return nil, fmt.Errorf("BROWSER must be chromium, firefox or webkit, got %q", config.Browser)
	}

	if config.StorageState == "" {
		config.StorageState = DefaultStorageState
	}

	if v := getenv("HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("HEADLESS must be a boolean: %w", err)
		}
		config.Headless = headless
	}

	var err error
	if config.SlowMo, err = durationVar(getenv, "SLOW_MO", 0); err != nil {
		return nil, err
	}
	if config.ActionTimeout, err = durationVar(getenv, "ACTION_TIMEOUT", DefaultActionTimeout); err != nil {
		return nil, err
	}
	if config.ActionTimeout <= 0 {
		return nil, fmt.Errorf("ACTION_TIMEOUT must be positive")
	}
	if config.StorageStateMaxAge, err = durationVar(getenv, "STORAGE_STATE_MAX_AGE", DefaultStorageStateMaxAge); err != nil {
		return nil, err
	}

	if v := getenv("WORKERS"); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("WORKERS must be an integer: %w", err)
		}
		if workers < 1 {
			return nil, fmt.Errorf("WORKERS must be at least 1, got %d", workers)
		}
		config.Workers = workers
	}

	return config, nil
}

func durationVar(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
