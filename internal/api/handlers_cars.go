// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/renterra/renterra/internal/auth"
	"github.com/renterra/renterra/internal/car"
	"github.com/renterra/renterra/internal/models"
)

// SearchCars serves the public listing of approved, available cars.
func (h *Handler) SearchCars(w http.ResponseWriter, r *http.Request) {
	page, pageSize := h.pagination(r)
	q := r.URL.Query()

	maxPrice, _ := strconv.ParseFloat(q.Get("max_price"), 64)
	filter := &models.CarFilter{
		Type:         q.Get("type"),
		Location:     q.Get("location"),
		Transmission: q.Get("transmission"),
		FuelType:     q.Get("fuel_type"),
		MaxPrice:     maxPrice,
		MinSeats:     queryInt(r, "min_seats", 0),
		Page:         page,
		PageSize:     pageSize,
	}

	cars, total, err := h.cars.Search(r.Context(), filter)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondPage(w, cars, total, page, pageSize)
}

// GetCar returns one listing. On the public route the caller has no
// claims and sees only approved cars; owners and admins see more.
func (h *Handler) GetCar(w http.ResponseWriter, r *http.Request) {
	callerID, callerRole := "", ""
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		callerID, callerRole = claims.UserID, claims.Role
	}

	c, err := h.cars.Get(r.Context(), callerID, callerRole, chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, c)
}

// CreateCar files a new listing for the owner.
func (h *Handler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var in car.Input
	if !decodeAndValidate(w, r, &in) {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	c, err := h.cars.Create(r.Context(), claims.UserID, &in)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusCreated, c)
}

// UpdateCar rewrites a listing and re-queues it for approval.
func (h *Handler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	var in car.Input
	if !decodeAndValidate(w, r, &in) {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	c, err := h.cars.Update(r.Context(), claims.UserID, chi.URLParam(r, "id"), &in)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, c)
}

type availabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

// SetCarAvailability toggles a listing without re-triggering approval.
func (h *Handler) SetCarAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	if err := h.cars.SetAvailability(r.Context(), claims.UserID, chi.URLParam(r, "id"), *req.Available); err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]bool{"available": *req.Available})
}

// DeleteCar removes a listing.
func (h *Handler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if err := h.cars.Delete(r.Context(), claims.UserID, claims.Role, chi.URLParam(r, "id")); err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"message": "car deleted"})
}

// ListOwnCars returns all of the owner's listings.
func (h *Handler) ListOwnCars(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	cars, err := h.cars.ListOwn(r.Context(), claims.UserID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, cars)
}

type documentRequest struct {
	Type       string  `json:"type" validate:"required"`
	Number     string  `json:"number,omitempty" validate:"max=60"`
	FileURL    string  `json:"file_url,omitempty" validate:"omitempty,url"`
	IssueDate  *string `json:"issue_date,omitempty"`
	ExpiryDate *string `json:"expiry_date,omitempty"`
}

// AddCarDocument files a document against the owner's car.
func (h *Handler) AddCarDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	doc := &models.Document{
		CarID:      chi.URLParam(r, "id"),
		Type:       req.Type,
		Number:     req.Number,
		FileURL:    req.FileURL,
		IssueDate:  parseDatePtr(req.IssueDate),
		ExpiryDate: parseDatePtr(req.ExpiryDate),
	}
	created, err := h.cars.AddDocument(r.Context(), claims.UserID, doc)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

// ListCarDocuments returns a car's documents.
func (h *Handler) ListCarDocuments(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	docs, err := h.cars.ListDocuments(r.Context(), claims.UserID, claims.Role, chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, docs)
}

// DeleteCarDocument removes a document from the owner's car.
func (h *Handler) DeleteCarDocument(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if err := h.cars.DeleteDocument(r.Context(), claims.UserID, chi.URLParam(r, "docID")); err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"message": "document deleted"})
}

type insuranceRequest struct {
	PolicyNumber string  `json:"policy_number" validate:"required,max=60"`
	Provider     string  `json:"provider" validate:"required,max=120"`
	CoverageType string  `json:"coverage_type,omitempty" validate:"max=60"`
	FileURL      string  `json:"file_url,omitempty" validate:"omitempty,url"`
	StartDate    *string `json:"start_date,omitempty"`
	ExpiryDate   *string `json:"expiry_date,omitempty"`
}

// AddCarInsurance files an insurance policy against the owner's car.
func (h *Handler) AddCarInsurance(w http.ResponseWriter, r *http.Request) {
	var req insuranceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	ins := &models.Insurance{
		CarID:        chi.URLParam(r, "id"),
		PolicyNumber: req.PolicyNumber,
		Provider:     req.Provider,
		CoverageType: req.CoverageType,
		FileURL:      req.FileURL,
		StartDate:    parseDatePtr(req.StartDate),
		ExpiryDate:   parseDatePtr(req.ExpiryDate),
	}
	created, err := h.cars.AddInsurance(r.Context(), claims.UserID, ins)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

// ListCarInsurance returns a car's insurance records.
func (h *Handler) ListCarInsurance(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	records, err := h.cars.ListInsurance(r.Context(), claims.UserID, claims.Role, chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, records)
}

// DeleteCarInsurance removes an insurance record.
func (h *Handler) DeleteCarInsurance(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if err := h.cars.DeleteInsurance(r.Context(), claims.UserID, chi.URLParam(r, "recordID")); err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"message": "insurance record deleted"})
}

type maintenanceRequest struct {
	ServiceType string  `json:"service_type" validate:"required,max=60"`
	Description string  `json:"description,omitempty" validate:"max=2000"`
	Cost        float64 `json:"cost" validate:"gte=0"`
	ServiceDate *string `json:"service_date,omitempty"`
	NextDueDate *string `json:"next_due_date,omitempty"`
}

// AddCarMaintenance files a service record against the owner's car.
func (h *Handler) AddCarMaintenance(w http.ResponseWriter, r *http.Request) {
	var req maintenanceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	m := &models.Maintenance{
		CarID:       chi.URLParam(r, "id"),
		ServiceType: req.ServiceType,
		Description: req.Description,
		Cost:        req.Cost,
		ServiceDate: parseDatePtr(req.ServiceDate),
		NextDueDate: parseDatePtr(req.NextDueDate),
	}
	created, err := h.cars.AddMaintenance(r.Context(), claims.UserID, m)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

// ListCarMaintenance returns a car's service history.
func (h *Handler) ListCarMaintenance(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	records, err := h.cars.ListMaintenance(r.Context(), claims.UserID, claims.Role, chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, records)
}

// DeleteCarMaintenance removes a service record.
func (h *Handler) DeleteCarMaintenance(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if err := h.cars.DeleteMaintenance(r.Context(), claims.UserID, chi.URLParam(r, "recordID")); err != nil {
		respondAppError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"message": "maintenance record deleted"})
}
