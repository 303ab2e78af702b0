// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

// Package api provides HTTP routing and handlers using the Chi router.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/renterra/renterra/internal/apperrors"
	"github.com/renterra/renterra/internal/logging"
	"github.com/renterra/renterra/internal/models"
	"github.com/renterra/renterra/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent
// log injection. Newlines and other control characters could otherwise
// forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondData sends a success envelope.
func respondData(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

// respondPage sends a success envelope around a paginated list.
func respondPage(w http.ResponseWriter, items interface{}, total, page, pageSize int) {
	respondData(w, http.StatusOK, models.NewPaginatedResponse(items, total, page, pageSize))
}

// respondError sends an error envelope with an explicit status and code.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondAppError maps a service error onto the envelope via the
// apperrors sentinels. Unrecognized errors become opaque 500s so
// internals never leak to clients.
func respondAppError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logging.Error().Err(err).Msg("Unhandled service error")
		message = "internal server error"
	}
	respondError(w, status, apperrors.Code(err), message, nil)
}

// respondValidationError sends a 400 with per-field details.
func respondValidationError(w http.ResponseWriter, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	respondJSON(w, http.StatusBadRequest, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
	})
}

const maxBodyBytes = 1 << 20 // 1 MB

// decodeJSON reads and decodes a request body into dst. Responds with a
// 400 and returns false when the body is missing or malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return false
	}
	return true
}

// decodeAndValidate decodes the body and runs struct validation.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if !decodeJSON(w, r, dst) {
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		respondValidationError(w, verr)
		return false
	}
	return true
}
