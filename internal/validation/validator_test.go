// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package validation

import (
	"strings"
	"testing"
	"time"
)

type signupRequest struct {
	Name     string `validate:"required,min=2,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=128"`
	Role     string `validate:"required,oneof=customer owner"`
}

type bookingDates struct {
	StartDate time.Time `validate:"required,futuredate"`
	EndDate   time.Time `validate:"required,gtfield=StartDate"`
}

type extensionRequest struct {
	ExtraDays int `validate:"required,min=1,max=7"`
}

func TestValidateStructValid(t *testing.T) {
	req := signupRequest{
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Password: "correct-horse-battery",
		Role:     "customer",
	}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("expected valid, got: %v", err)
	}
}

func TestValidateStructFieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		req       signupRequest
		wantField string
	}{
		{
			name:      "missing name",
			req:       signupRequest{Email: "a@b.com", Password: "longenough", Role: "owner"},
			wantField: "Name",
		},
		{
			name:      "bad email",
			req:       signupRequest{Name: "Asha", Email: "not-an-email", Password: "longenough", Role: "owner"},
			wantField: "Email",
		},
		{
			name:      "short password",
			req:       signupRequest{Name: "Asha", Email: "a@b.com", Password: "short", Role: "owner"},
			wantField: "Password",
		},
		{
			name:      "admin not a signup role",
			req:       signupRequest{Name: "Asha", Email: "a@b.com", Password: "longenough", Role: "admin"},
			wantField: "Role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			found := false
			for _, fe := range err.Errors() {
				if fe.Field() == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %s, got: %v", tt.wantField, err)
			}
		})
	}
}

func TestFutureDateValidator(t *testing.T) {
	now := time.Now()

	valid := bookingDates{StartDate: now.AddDate(0, 0, 1), EndDate: now.AddDate(0, 0, 4)}
	if err := ValidateStruct(&valid); err != nil {
		t.Errorf("future range should validate, got: %v", err)
	}

	past := bookingDates{StartDate: now.AddDate(0, 0, -2), EndDate: now.AddDate(0, 0, 4)}
	if err := ValidateStruct(&past); err == nil {
		t.Error("past start date should fail")
	}

	inverted := bookingDates{StartDate: now.AddDate(0, 0, 5), EndDate: now.AddDate(0, 0, 2)}
	if err := ValidateStruct(&inverted); err == nil {
		t.Error("end before start should fail")
	}
}

func TestExtensionDaysBounds(t *testing.T) {
	for _, days := range []int{1, 4, 7} {
		if err := ValidateStruct(&extensionRequest{ExtraDays: days}); err != nil {
			t.Errorf("extra days %d should validate, got: %v", days, err)
		}
	}
	for _, days := range []int{-1, 0, 8, 30} {
		if err := ValidateStruct(&extensionRequest{ExtraDays: days}); err == nil {
			t.Errorf("extra days %d should fail validation", days)
		}
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	err := ValidateStruct(&extensionRequest{ExtraDays: 9})
	if err == nil {
		t.Fatal("expected validation error")
	}
	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %s, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "ExtraDays" {
		t.Errorf("details field = %v, want ExtraDays", apiErr.Details["field"])
	}
	if !strings.Contains(apiErr.Message, "at most 7") {
		t.Errorf("message %q should mention the bound", apiErr.Message)
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	err := ValidateStruct(&signupRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("expected fields detail, got %T", apiErr.Details["fields"])
	}
	if len(fields) != 4 {
		t.Errorf("expected 4 field errors, got %d", len(fields))
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator must return the same instance")
	}
}
