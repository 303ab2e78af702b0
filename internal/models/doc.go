// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

/*
Package models defines data structures for the Renterra application.

This package contains all data models used throughout the application:
database entities, API response wrappers, and internal transfer objects.
It serves as the single source of truth for data structure definitions.

Model Categories:

1. Database Entities:
  - User: Account with role-based access (customer, owner, admin)
  - Car: Rental listing with admin approval lifecycle
  - Booking: Rental agreement with a strict status state machine
  - Emergency: Roadside incident report with geolocation refinement
  - Notification: In-app message, also carrier of extension requests
  - PaymentOrder: Gateway order tracking for booking payments
  - Document, Insurance, Maintenance: Car paperwork records
  - AuditEvent: Persistent trail of administrative mutations

2. API Response Models:
  - APIResponse: Standard response wrapper
  - APIError: Error details
  - Metadata: Response metadata (timestamp, query time)

Status enumerations live next to the entity they describe; the transition
rules themselves are enforced in internal/booking and internal/emergency.
*/
package models
