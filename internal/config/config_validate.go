// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// minJWTSecretLen is the minimum accepted JWT secret length. Shorter
// secrets make HS256 tokens brute-forceable offline.
const minJWTSecretLen = 32

// Validate checks the configuration for values that would make the server
// unsafe or unable to start. Called by Load after all layers are merged.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if len(c.Security.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("security.jwt_secret must be at least %d characters (got %d)",
			minJWTSecretLen, len(c.Security.JWTSecret))
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("security.session_timeout must be positive")
	}
	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("security.bcrypt_cost %d out of range [%d,%d]",
			c.Security.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	if c.Gateway.KeyID != "" && c.Gateway.KeySecret == "" {
		return fmt.Errorf("gateway.key_secret is required when gateway.key_id is set")
	}

	if c.API.DefaultPageSize <= 0 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("api.default_page_size %d invalid against max %d",
			c.API.DefaultPageSize, c.API.MaxPageSize)
	}

	return nil
}

// ShouldWarnAboutCORS reports whether the CORS configuration allows any
// origin, which is unsafe with credentialed requests in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return !c.IsDevelopment()
		}
	}
	return false
}
