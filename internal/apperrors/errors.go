// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

// Package apperrors defines the sentinel errors shared by all services.
//
// Services wrap these with fmt.Errorf("...: %w", ...) and context; HTTP
// handlers map them to status codes and envelope error codes with
// errors.Is. Anything not wrapping a sentinel is treated as an internal
// error and logged, never echoed to the client.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks invalid input: bad dates, out-of-range values,
	// malformed identifiers. Maps to 400.
	ErrValidation = errors.New("validation error")

	// ErrUnauthorized marks missing or invalid credentials. Maps to 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks an authenticated caller acting outside their
	// role or on a resource they do not own. Maps to 403.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks a missing resource. Maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrState marks an operation not allowed in the entity's current
	// status, such as approving a booking that is not pending. Maps to 409.
	ErrState = errors.New("invalid state transition")

	// ErrUpstream marks a payment gateway failure or outage. Maps to 502.
	ErrUpstream = errors.New("upstream error")
)

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// Unauthorizedf wraps ErrUnauthorized with a formatted message.
func Unauthorizedf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnauthorized)...)
}

// Forbiddenf wraps ErrForbidden with a formatted message.
func Forbiddenf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrForbidden)...)
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Statef wraps ErrState with a formatted message.
func Statef(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrState)...)
}

// Upstreamf wraps ErrUpstream with a formatted message.
func Upstreamf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrUpstream)...)
}

// Code returns the envelope error code for err, or "INTERNAL_ERROR" when
// err wraps none of the sentinels.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrUnauthorized):
		return "AUTHENTICATION_ERROR"
	case errors.Is(err, ErrForbidden):
		return "AUTHORIZATION_ERROR"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrState):
		return "STATE_ERROR"
	case errors.Is(err, ErrUpstream):
		return "UPSTREAM_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// HTTPStatus returns the HTTP status code for err, or 500 when err wraps
// none of the sentinels.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return 400
	case errors.Is(err, ErrUnauthorized):
		return 401
	case errors.Is(err, ErrForbidden):
		return 403
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrState):
		return 409
	case errors.Is(err, ErrUpstream):
		return 502
	default:
		return 500
	}
}
