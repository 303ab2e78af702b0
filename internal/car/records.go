// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package car

import (
	"context"
	"errors"

	"github.com/renterra/renterra/internal/apperrors"
	"github.com/renterra/renterra/internal/database"
	"github.com/renterra/renterra/internal/models"
)

// Paperwork records (documents, insurance, maintenance) hang off a car.
// Owners manage records on their own cars; admins have read access.

func (s *Service) requireCarAccess(ctx context.Context, callerID, callerRole, carID string, write bool) (*models.Car, error) {
	car, err := s.getCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.OwnerID == callerID {
		return car, nil
	}
	if !write && callerRole == models.RoleAdmin {
		return car, nil
	}
	return nil, apperrors.Forbiddenf("car %s is not yours", carID)
}

// AddDocument attaches a document record to the owner's car.
func (s *Service) AddDocument(ctx context.Context, ownerID string, d *models.Document) (*models.Document, error) {
	car, err := s.requireCarAccess(ctx, ownerID, models.RoleOwner, d.CarID, true)
	if err != nil {
		return nil, err
	}
	d.OwnerID = car.OwnerID
	if err := s.db.CreateDocument(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ListDocuments returns a car's documents for its owner or an admin.
func (s *Service) ListDocuments(ctx context.Context, callerID, callerRole, carID string) ([]*models.Document, error) {
	if _, err := s.requireCarAccess(ctx, callerID, callerRole, carID, false); err != nil {
		return nil, err
	}
	return s.db.ListDocumentsByCar(ctx, carID)
}

// DeleteDocument removes a document from the owner's car.
func (s *Service) DeleteDocument(ctx context.Context, ownerID, docID string) error {
	return mapRecordErr(s.db.DeleteDocument(ctx, docID, ownerID), "document", docID)
}

// AddInsurance attaches an insurance record to the owner's car.
func (s *Service) AddInsurance(ctx context.Context, ownerID string, ins *models.Insurance) (*models.Insurance, error) {
	car, err := s.requireCarAccess(ctx, ownerID, models.RoleOwner, ins.CarID, true)
	if err != nil {
		return nil, err
	}
	ins.OwnerID = car.OwnerID
	if err := s.db.CreateInsurance(ctx, ins); err != nil {
		return nil, err
	}
	return ins, nil
}

// ListInsurance returns a car's insurance records.
func (s *Service) ListInsurance(ctx context.Context, callerID, callerRole, carID string) ([]*models.Insurance, error) {
	if _, err := s.requireCarAccess(ctx, callerID, callerRole, carID, false); err != nil {
		return nil, err
	}
	return s.db.ListInsuranceByCar(ctx, carID)
}

// DeleteInsurance removes an insurance record from the owner's car.
func (s *Service) DeleteInsurance(ctx context.Context, ownerID, recordID string) error {
	return mapRecordErr(s.db.DeleteInsurance(ctx, recordID, ownerID), "insurance record", recordID)
}

// AddMaintenance attaches a service record to the owner's car.
func (s *Service) AddMaintenance(ctx context.Context, ownerID string, m *models.Maintenance) (*models.Maintenance, error) {
	car, err := s.requireCarAccess(ctx, ownerID, models.RoleOwner, m.CarID, true)
	if err != nil {
		return nil, err
	}
	m.OwnerID = car.OwnerID
	if err := s.db.CreateMaintenance(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMaintenance returns a car's service history.
func (s *Service) ListMaintenance(ctx context.Context, callerID, callerRole, carID string) ([]*models.Maintenance, error) {
	if _, err := s.requireCarAccess(ctx, callerID, callerRole, carID, false); err != nil {
		return nil, err
	}
	return s.db.ListMaintenanceByCar(ctx, carID)
}

// DeleteMaintenance removes a service record from the owner's car.
func (s *Service) DeleteMaintenance(ctx context.Context, ownerID, recordID string) error {
	return mapRecordErr(s.db.DeleteMaintenance(ctx, recordID, ownerID), "maintenance record", recordID)
}

func mapRecordErr(err error, kind, id string) error {
	if errors.Is(err, database.ErrRecordNotFound) {
		return apperrors.NotFoundf("%s %s not found", kind, id)
	}
	return err
}
