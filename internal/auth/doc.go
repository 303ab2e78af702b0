// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

// Package auth provides authentication for the marketplace API: JWT token
// issuance and validation, bcrypt password hashing, a BadgerDB-backed token
// denylist so logout actually revokes, and the HTTP middleware that wires
// these into the request path.
package auth
