// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Valkey (Redis-compatible store for manual API keys)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Gemini generation API
	GeminiAPIKey  string // server default key; a client's manual key wins
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	// CORS origins allowed to call the API. Empty allows none cross-origin.
	CORSAllowedOrigins []string

	// Studio tuning
	HistoryLimit      int
	WheelSessionGap   time.Duration
	WorkspaceTTL      time.Duration
	GenerateRateLimit int // generation requests per minute per IP

	// In-memory limits (0 = unbounded)
	MaxAssets     int // per workspace
	MaxGallery    int // per workspace
	MaxWorkspaces int
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode or a value cannot be parsed.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		GeminiAPIKey:  envOrDefault("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiModel:   envOrDefault("GEMINI_MODEL", "gemini-2.5-flash-image"),
		GeminiBaseURL: envOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),

		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	var err error
	if cfg.GeminiTimeout, err = envDuration("GEMINI_TIMEOUT", 120*time.Second); err != nil {
		return nil, err
	}
	if cfg.HistoryLimit, err = envInt("HISTORY_LIMIT", 200); err != nil {
		return nil, err
	}
	if cfg.WheelSessionGap, err = envDuration("WHEEL_SESSION_GAP", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.WorkspaceTTL, err = envDuration("WORKSPACE_TTL", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.GenerateRateLimit, err = envInt("GENERATE_RATE_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.MaxAssets, err = envInt("MAX_ASSETS", 30); err != nil {
		return nil, err
	}
	if cfg.MaxGallery, err = envInt("MAX_GALLERY", 50); err != nil {
		return nil, err
	}
	if cfg.MaxWorkspaces, err = envInt("MAX_WORKSPACES", 500); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.ValkeyPassword == "" {
			return nil, fmt.Errorf("VALKEY_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt reads a non-negative integer variable.
func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}

// envDuration reads a positive duration variable such as "500ms" or "2h".
func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

// splitList parses a comma-separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
