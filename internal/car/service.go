// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

// Package car implements listing management: owner CRUD, the admin
// approval queue, and the cached public search.
package car

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/renterra/renterra/internal/apperrors"
	"github.com/renterra/renterra/internal/cache"
	"github.com/renterra/renterra/internal/database"
	"github.com/renterra/renterra/internal/logging"
	"github.com/renterra/renterra/internal/models"
)

// Publisher pushes committed notifications to connected clients.
type Publisher interface {
	Publish(n *models.Notification)
}

// Service coordinates listings, approval, and the search cache.
type Service struct {
	db    *database.DB
	cache *cache.Cache
	pub   Publisher
}

// NewService wires the car service. cache may be nil to disable caching.
func NewService(db *database.DB, c *cache.Cache, pub Publisher) *Service {
	return &Service{db: db, cache: c, pub: pub}
}

// Input carries the owner-editable listing fields.
type Input struct {
	Name         string   `json:"name" validate:"required,max=120"`
	Type         string   `json:"type" validate:"required"`
	PricePerDay  float64  `json:"price_per_day" validate:"required,gt=0"`
	Location     string   `json:"location" validate:"required,max=120"`
	Seats        int      `json:"seats" validate:"required,min=1,max=20"`
	Transmission string   `json:"transmission" validate:"required"`
	FuelType     string   `json:"fuel_type" validate:"required"`
	ImageURLs    []string `json:"image_urls,omitempty" validate:"max=10,dive,url"`
	Description  string   `json:"description,omitempty" validate:"max=2000"`
	Available    bool     `json:"available"`
}

// searchResult is what the listing cache stores per filter key.
type searchResult struct {
	Cars  []*models.Car
	Total int
}

// Create files a new listing. It enters the approval queue unapproved and
// is invisible to the public until an admin signs off.
func (s *Service) Create(ctx context.Context, ownerID string, in *Input) (*models.Car, error) {
	if err := validateEnums(in); err != nil {
		return nil, err
	}

	car := &models.Car{
		OwnerID:      ownerID,
		Name:         in.Name,
		Type:         in.Type,
		PricePerDay:  in.PricePerDay,
		Location:     in.Location,
		Seats:        in.Seats,
		Transmission: in.Transmission,
		FuelType:     in.FuelType,
		ImageURLs:    in.ImageURLs,
		Description:  in.Description,
		Available:    in.Available,
	}
	if err := s.db.CreateCar(ctx, car); err != nil {
		return nil, err
	}

	s.invalidate()
	logging.Info().Str("car_id", car.ID).Str("owner_id", ownerID).Msg("Car listed, pending approval")
	return car, nil
}

// Update rewrites a listing's fields. The edit sends the car back through
// the approval queue.
func (s *Service) Update(ctx context.Context, ownerID, carID string, in *Input) (*models.Car, error) {
	if err := validateEnums(in); err != nil {
		return nil, err
	}

	car, err := s.getCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.OwnerID != ownerID {
		return nil, apperrors.Forbiddenf("car %s is not yours", carID)
	}

	car.Name = in.Name
	car.Type = in.Type
	car.PricePerDay = in.PricePerDay
	car.Location = in.Location
	car.Seats = in.Seats
	car.Transmission = in.Transmission
	car.FuelType = in.FuelType
	car.ImageURLs = in.ImageURLs
	car.Description = in.Description
	car.Available = in.Available

	if err := s.db.UpdateCar(ctx, car); err != nil {
		return nil, err
	}

	s.invalidate()
	return s.getCar(ctx, carID)
}

// SetAvailability toggles a listing without re-triggering approval.
func (s *Service) SetAvailability(ctx context.Context, ownerID, carID string, available bool) error {
	car, err := s.getCar(ctx, carID)
	if err != nil {
		return err
	}
	if car.OwnerID != ownerID {
		return apperrors.Forbiddenf("car %s is not yours", carID)
	}
	if err := s.db.SetCarAvailability(ctx, carID, available); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Delete removes a listing. Owners delete their own cars; admins any.
func (s *Service) Delete(ctx context.Context, callerID, callerRole, carID string) error {
	car, err := s.getCar(ctx, carID)
	if err != nil {
		return err
	}
	if callerRole != models.RoleAdmin && car.OwnerID != callerID {
		return apperrors.Forbiddenf("car %s is not yours", carID)
	}
	if err := s.db.DeleteCar(ctx, carID); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Get returns one listing. Unapproved cars are visible only to their owner
// and admins.
func (s *Service) Get(ctx context.Context, callerID, callerRole, carID string) (*models.Car, error) {
	car, err := s.getCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	if !car.Approved && callerRole != models.RoleAdmin && car.OwnerID != callerID {
		return nil, apperrors.NotFoundf("car %s not found", carID)
	}
	return car, nil
}

// ListOwn returns all of an owner's listings regardless of approval.
func (s *Service) ListOwn(ctx context.Context, ownerID string) ([]*models.Car, error) {
	return s.db.ListCarsByOwner(ctx, ownerID)
}

// Search serves the public listing of approved, available cars. Results
// are cached per filter for the configured TTL.
func (s *Service) Search(ctx context.Context, filter *models.CarFilter) ([]*models.Car, int, error) {
	if filter == nil {
		filter = &models.CarFilter{}
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(filter.CacheKey()); ok {
			result := cached.(*searchResult)
			return result.Cars, result.Total, nil
		}
	}

	cars, total, err := s.db.SearchCars(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if s.cache != nil {
		s.cache.Set(filter.CacheKey(), &searchResult{Cars: cars, Total: total})
	}
	return cars, total, nil
}

// ListPending returns the admin approval queue.
func (s *Service) ListPending(ctx context.Context) ([]*models.Car, error) {
	return s.db.ListPendingCars(ctx)
}

// Approve signs off a listing and notifies the owner.
func (s *Service) Approve(ctx context.Context, carID string) error {
	return s.decide(ctx, carID, true, "")
}

// Reject refuses a listing with a reason for the owner.
func (s *Service) Reject(ctx context.Context, carID, reason string) error {
	if reason == "" {
		return apperrors.Validationf("a rejection reason is required")
	}
	return s.decide(ctx, carID, false, reason)
}

func (s *Service) decide(ctx context.Context, carID string, approved bool, reason string) error {
	car, err := s.getCar(ctx, carID)
	if err != nil {
		return err
	}

	if err := s.db.SetCarApproval(ctx, carID, approved, reason); err != nil {
		return err
	}

	notif := &models.Notification{
		RecipientID: car.OwnerID,
		CarID:       car.ID,
	}
	if approved {
		notif.Type = models.NotifyCarApproved
		notif.Title = "Car approved"
		notif.Message = fmt.Sprintf("%s is now visible to customers", car.Name)
	} else {
		notif.Type = models.NotifyCarRejected
		notif.Title = "Car rejected"
		notif.Message = fmt.Sprintf("%s was rejected: %s", car.Name, reason)
	}
	if err := s.db.CreateNotification(ctx, notif); err != nil {
		return err
	}

	s.invalidate()
	if s.pub != nil {
		s.pub.Publish(notif)
	}
	return nil
}

func (s *Service) getCar(ctx context.Context, id string) (*models.Car, error) {
	car, err := s.db.GetCar(ctx, id)
	if errors.Is(err, database.ErrCarNotFound) {
		return nil, apperrors.NotFoundf("car %s not found", id)
	}
	return car, err
}

func (s *Service) invalidate() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

func validateEnums(in *Input) error {
	if !slices.Contains(models.ValidCarTypes, in.Type) {
		return apperrors.Validationf("unknown car type %q", in.Type)
	}
	if !slices.Contains(models.ValidTransmissions, in.Transmission) {
		return apperrors.Validationf("unknown transmission %q", in.Transmission)
	}
	if !slices.Contains(models.ValidFuelTypes, in.FuelType) {
		return apperrors.Validationf("unknown fuel type %q", in.FuelType)
	}
	return nil
}

// DefaultCacheTTL is how long public search results stay fresh.
const DefaultCacheTTL = 5 * time.Minute
