// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

// Package config loads and validates Renterra configuration.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (SERVER_PORT, JWT_SECRET, ...)
//   - Config file (config.yaml)
//   - Built-in defaults
package config

import (
	"time"
)

// Config is the root configuration for the Renterra server.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Database     DatabaseConfig     `koanf:"database"`
	Security     SecurityConfig     `koanf:"security"`
	Gateway      GatewayConfig      `koanf:"gateway"`
	Logging      LoggingConfig      `koanf:"logging"`
	API          APIConfig          `koanf:"api"`
	Notification NotificationConfig `koanf:"notification"`
	Audit        AuditConfig        `koanf:"audit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// DatabaseConfig holds embedded DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
	SeedDemo  bool   `koanf:"seed_demo"`
}

// SecurityConfig holds authentication and rate limiting settings.
type SecurityConfig struct {
	JWTSecret       string        `koanf:"jwt_secret"`
	SessionTimeout  time.Duration `koanf:"session_timeout"`
	BcryptCost      int           `koanf:"bcrypt_cost"`
	DenylistPath    string        `koanf:"denylist_path"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	LoginRateLimit  int           `koanf:"login_rate_limit"`
	LoginRateWindow time.Duration `koanf:"login_rate_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// GatewayConfig holds payment gateway settings. The gateway is an external
// collaborator reached over HTTPS; KeySecret signs capture callbacks.
type GatewayConfig struct {
	BaseURL   string        `koanf:"base_url"`
	KeyID     string        `koanf:"key_id"`
	KeySecret string        `koanf:"key_secret"`
	Currency  string        `koanf:"currency"`
	Timeout   time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	DefaultPageSize int           `koanf:"default_page_size"`
	MaxPageSize     int           `koanf:"max_page_size"`
	ListingCacheTTL time.Duration `koanf:"listing_cache_ttl"`
}

// NotificationConfig holds event dispatch settings.
type NotificationConfig struct {
	BufferSize int `koanf:"buffer_size"`
}

// AuditConfig holds audit trail settings.
type AuditConfig struct {
	Enabled       bool          `koanf:"enabled"`
	RetentionDays int           `koanf:"retention_days"`
	FlushInterval time.Duration `koanf:"flush_interval"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment != "production"
}

// defaultConfig returns a Config with all defaults applied. Defaults are
// layered first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/renterra.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = use runtime.NumCPU()
			SeedDemo:  false,
		},
		Security: SecurityConfig{
			JWTSecret:       "",
			SessionTimeout:  24 * time.Hour,
			BcryptCost:      12,
			DenylistPath:    "/data/denylist",
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			LoginRateLimit:  5,
			LoginRateWindow: 5 * time.Minute,
			CORSOrigins:     []string{},
		},
		Gateway: GatewayConfig{
			BaseURL:  "https://api.razorpay.com/v1",
			Currency: "INR",
			Timeout:  15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			ListingCacheTTL: time.Minute,
		},
		Notification: NotificationConfig{
			BufferSize: 256,
		},
		Audit: AuditConfig{
			Enabled:       true,
			RetentionDays: 90,
			FlushInterval: 5 * time.Second,
		},
	}
}
