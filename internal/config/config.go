// Package config provides centralized configuration for the Hiker's Voice
// E2E suite. It loads settings from environment variables, validates them,
// and provides the defaults the suite was written against (local frontend
// on :3000, local backend on :8000).
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBackendURL  = "http://localhost:8000"
	defaultFrontendURL = "http://localhost:3000"

	// Admin panel credentials, exactly as seeded in the backend.
	defaultAdminUsername = "Philippe_testeroni"
	defaultAdminPassword = "KeklikG0nnaKek!"
)

// Config holds all suite configuration.
type Config struct {
	// Deployment under test
	BackendURL  string
	FrontendURL string

	// Browser settings
	Headless bool
	SlowMo   time.Duration // per-action delay, keeps flaky UI animations honest

	// Admin panel basic auth, used only for review deletion during teardown
	AdminUsername string
	AdminPassword string

	// HTTP client budget for backend calls
	APITimeout time.Duration
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		BackendURL:    envOr("BACKEND_URL", defaultBackendURL),
		FrontendURL:   envOr("FRONTEND_URL", defaultFrontendURL),
		Headless:      envBool("HEADLESS", true),
		SlowMo:        time.Duration(envInt("SLOW_MO_MS", 100)) * time.Millisecond,
		AdminUsername: envOr("ADMIN_USERNAME", defaultAdminUsername),
		AdminPassword: envOr("ADMIN_PASSWORD", defaultAdminPassword),
		APITimeout:    time.Duration(envInt("API_TIMEOUT_MS", 30000)) * time.Millisecond,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration, collecting every issue before failing.
func (c *Config) Validate() error {
	var issues []string

	for _, ep := range []struct {
		name  string
		value string
	}{
		{"BACKEND_URL", c.BackendURL},
		{"FRONTEND_URL", c.FrontendURL},
	} {
		u, err := url.Parse(ep.value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			issues = append(issues, fmt.Sprintf("%s must be an absolute http(s) URL, got %q", ep.name, ep.value))
			continue
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			issues = append(issues, fmt.Sprintf("%s must use http or https, got %q", ep.name, u.Scheme))
		}
	}

	if c.AdminUsername == "" {
		issues = append(issues, "ADMIN_USERNAME must not be empty")
	}
	if c.AdminPassword == "" {
		issues = append(issues, "ADMIN_PASSWORD must not be empty")
	}
	if c.SlowMo < 0 {
		issues = append(issues, "SLOW_MO_MS must not be negative")
	}
	if c.APITimeout <= 0 {
		issues = append(issues, "API_TIMEOUT_MS must be positive")
	}

	if len(issues) > 0 {
		return &ValidationError{Errors: issues}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}
