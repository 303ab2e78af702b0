// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	cfg.Database.Path = ":memory:"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Security.BcryptCost != 12 {
		t.Errorf("expected default bcrypt cost 12, got %d", cfg.Security.BcryptCost)
	}
	if cfg.API.DefaultPageSize != 20 {
		t.Errorf("expected default page size 20, got %d", cfg.API.DefaultPageSize)
	}
	if !cfg.IsDevelopment() {
		t.Error("default config should be development mode")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "short" },
			wantErr: "jwt_secret",
		},
		{
			name:    "bcrypt cost too high",
			mutate:  func(c *Config) { c.Security.BcryptCost = 40 },
			wantErr: "bcrypt_cost",
		},
		{
			name:    "gateway key without secret",
			mutate:  func(c *Config) { c.Gateway.KeyID = "rzp_test_abc"; c.Gateway.KeySecret = "" },
			wantErr: "gateway.key_secret",
		},
		{
			name:    "page size above max",
			mutate:  func(c *Config) { c.API.DefaultPageSize = 500 },
			wantErr: "default_page_size",
		},
		{
			name:    "negative session timeout",
			mutate:  func(c *Config) { c.Security.SessionTimeout = -time.Hour },
			wantErr: "session_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SECURITY_JWT_SECRET", testSecret)
	t.Setenv("DATABASE_PATH", ":memory:")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("GATEWAY_CURRENCY", "USD")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090 from env, got %d", cfg.Server.Port)
	}
	if cfg.Gateway.Currency != "USD" {
		t.Errorf("expected currency USD from env, got %s", cfg.Gateway.Currency)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("expected :memory: database path, got %s", cfg.Database.Path)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `server:
  port: 9191
security:
  jwt_secret: "` + testSecret + `"
database:
  path: ":memory:"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("expected port 9191 from file, got %d", cfg.Server.Port)
	}
	// Defaults survive for keys the file does not set.
	if cfg.API.MaxPageSize != 100 {
		t.Errorf("expected default max page size 100, got %d", cfg.API.MaxPageSize)
	}
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("DATABASE_PATH", ":memory:")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when jwt secret missing")
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SERVER_PORT", "server.port"},
		{"SECURITY_JWT_SECRET", "security.jwt_secret"},
		{"GATEWAY_BASE_URL", "gateway.base_url"},
		{"HOME", ""},
		{"PATH", ""},
	}
	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCORSWarning(t *testing.T) {
	cfg := validConfig()
	cfg.Security.CORSOrigins = []string{"*"}

	cfg.Server.Environment = "development"
	if cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard CORS should not warn in development")
	}

	cfg.Server.Environment = "production"
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard CORS should warn in production")
	}
}
