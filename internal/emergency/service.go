// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package emergency

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/renterra/renterra/internal/apperrors"
	"github.com/renterra/renterra/internal/database"
	"github.com/renterra/renterra/internal/logging"
	"github.com/renterra/renterra/internal/metrics"
	"github.com/renterra/renterra/internal/models"
)

// Publisher pushes committed notifications to connected clients.
type Publisher interface {
	Publish(n *models.Notification)
}

// Service handles the emergency pipeline end to end.
type Service struct {
	db  *database.DB
	pub Publisher
}

// NewService wires the emergency service.
func NewService(db *database.DB, pub Publisher) *Service {
	return &Service{db: db, pub: pub}
}

// ReportInput carries a customer's emergency report. Location is optional:
// browsers without geolocation permission send LocationError instead.
type ReportInput struct {
	BookingID     string           `json:"booking_id" validate:"required,uuid4"`
	Type          string           `json:"type" validate:"required"`
	Priority      string           `json:"priority" validate:"required"`
	Description   string           `json:"description" validate:"required,max=2000"`
	Location      *models.Location `json:"location,omitempty"`
	LocationError string           `json:"location_error,omitempty"`
}

// Report files an emergency against one of the caller's active bookings.
// Exactly one emergency row is written; the car's owner and every admin
// are notified in the same transaction.
func (s *Service) Report(ctx context.Context, customerID string, in *ReportInput) (*models.Emergency, error) {
	if !slices.Contains(models.ValidEmergencyTypes, in.Type) {
		return nil, apperrors.Validationf("unknown emergency type %q", in.Type)
	}
	if !slices.Contains(models.ValidEmergencyPriorities, in.Priority) {
		return nil, apperrors.Validationf("unknown emergency priority %q", in.Priority)
	}
	if in.Location != nil {
		if err := validateLocation(in.Location); err != nil {
			return nil, err
		}
	}

	b, err := s.db.GetBooking(ctx, in.BookingID)
	if err != nil {
		if errors.Is(err, database.ErrBookingNotFound) {
			return nil, apperrors.NotFoundf("booking %s not found", in.BookingID)
		}
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, apperrors.Forbiddenf("booking %s is not yours", in.BookingID)
	}
	if b.Status != models.BookingPending && b.Status != models.BookingConfirmed {
		return nil, apperrors.Validationf("emergencies require an active booking, status is %q", b.Status)
	}

	e := &models.Emergency{
		BookingID:     b.ID,
		CarID:         b.CarID,
		OwnerID:       b.OwnerID,
		CustomerID:    customerID,
		Type:          in.Type,
		Priority:      in.Priority,
		Description:   in.Description,
		Status:        models.EmergencyPending,
		Location:      in.Location,
		LocationError: in.LocationError,
	}

	adminIDs, err := s.db.ListAdminIDs(ctx)
	if err != nil {
		return nil, err
	}

	notifs := make([]*models.Notification, 0, len(adminIDs)+1)
	message := fmt.Sprintf("%s emergency (%s priority) reported", in.Type, in.Priority)
	notifs = append(notifs, &models.Notification{
		RecipientID: b.OwnerID,
		Type:        models.NotifyEmergencyReported,
		Title:       "Emergency on your car",
		Message:     message,
		BookingID:   b.ID,
		CarID:       b.CarID,
	})
	for _, adminID := range adminIDs {
		notifs = append(notifs, &models.Notification{
			RecipientID: adminID,
			Type:        models.NotifyEmergencyReported,
			Title:       "Emergency reported",
			Message:     message,
			BookingID:   b.ID,
			CarID:       b.CarID,
		})
	}

	if err := s.db.CreateEmergency(ctx, e, notifs); err != nil {
		return nil, err
	}

	metrics.EmergenciesReported.WithLabelValues(in.Type, in.Priority).Inc()
	for _, n := range notifs {
		s.publish(n)
	}
	logging.Warn().
		Str("emergency_id", e.ID).
		Str("type", in.Type).
		Str("priority", in.Priority).
		Msg("Emergency reported")
	return e, nil
}

// UpdateLocation feeds a new geolocation reading into the refinement rule:
// the stored fix is replaced only when no fix exists yet or the new
// reading's accuracy radius is strictly smaller.
func (s *Service) UpdateLocation(ctx context.Context, customerID, emergencyID string, loc *models.Location) (*models.Emergency, error) {
	if err := validateLocation(loc); err != nil {
		return nil, err
	}

	e, err := s.getEmergency(ctx, emergencyID)
	if err != nil {
		return nil, err
	}
	if e.CustomerID != customerID {
		return nil, apperrors.Forbiddenf("emergency %s is not yours", emergencyID)
	}
	if e.IsTerminal() {
		return nil, apperrors.Statef("emergency %s is already %s", emergencyID, e.Status)
	}

	accepted, err := s.db.UpdateEmergencyLocation(ctx, emergencyID, loc)
	if err != nil {
		return nil, err
	}
	if accepted {
		metrics.EmergencyLocationUpdates.WithLabelValues("accepted").Inc()
	} else {
		metrics.EmergencyLocationUpdates.WithLabelValues("discarded").Inc()
	}

	return s.getEmergency(ctx, emergencyID)
}

// ReportLocationError records why geolocation is unavailable. Ignored once
// a real fix exists.
func (s *Service) ReportLocationError(ctx context.Context, customerID, emergencyID, locationError string) error {
	e, err := s.getEmergency(ctx, emergencyID)
	if err != nil {
		return err
	}
	if e.CustomerID != customerID {
		return apperrors.Forbiddenf("emergency %s is not yours", emergencyID)
	}
	return s.db.SetEmergencyLocationError(ctx, emergencyID, locationError)
}

// UpdateStatus moves an emergency along the pipeline. Admin-only at the
// route layer; the machine enforces forward-only progression here.
func (s *Service) UpdateStatus(ctx context.Context, emergencyID, next, resolutionNotes string) (*models.Emergency, error) {
	e, err := s.getEmergency(ctx, emergencyID)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(e.Status, next); err != nil {
		return nil, err
	}
	if next != models.EmergencyResolved {
		resolutionNotes = ""
	}

	message := fmt.Sprintf("Emergency status is now %s", next)
	if next == models.EmergencyResolved && resolutionNotes != "" {
		message = fmt.Sprintf("Emergency resolved: %s", resolutionNotes)
	}
	notifs := []*models.Notification{
		{
			RecipientID: e.CustomerID,
			Type:        models.NotifyEmergencyUpdated,
			Title:       "Emergency update",
			Message:     message,
			EmergencyID: e.ID,
		},
		{
			RecipientID: e.OwnerID,
			Type:        models.NotifyEmergencyUpdated,
			Title:       "Emergency update",
			Message:     message,
			EmergencyID: e.ID,
		},
	}

	if err := s.db.TransitionEmergencyStatus(ctx, e.ID, e.Status, next, resolutionNotes, notifs); err != nil {
		if errors.Is(err, database.ErrEmergencyConflict) {
			return nil, apperrors.Statef("emergency %s changed concurrently", e.ID)
		}
		return nil, err
	}

	metrics.RecordEmergencyTransition(e.Status, next)
	if next == models.EmergencyResolved {
		metrics.EmergencyResolutionDuration.Observe(time.Since(e.CreatedAt).Seconds())
	}
	for _, n := range notifs {
		s.publish(n)
	}

	return s.getEmergency(ctx, e.ID)
}

// Get returns an emergency, visible to admins, its reporting customer, and
// the affected owner.
func (s *Service) Get(ctx context.Context, callerID, callerRole, emergencyID string) (*models.Emergency, error) {
	e, err := s.getEmergency(ctx, emergencyID)
	if err != nil {
		return nil, err
	}
	if callerRole != models.RoleAdmin && callerID != e.CustomerID && callerID != e.OwnerID {
		return nil, apperrors.Forbiddenf("emergency %s is not visible to you", emergencyID)
	}
	return e, nil
}

// List returns emergencies scoped to the caller's role.
func (s *Service) List(ctx context.Context, callerID, callerRole string, filter *models.EmergencyFilter) ([]*models.Emergency, int, error) {
	if filter == nil {
		filter = &models.EmergencyFilter{}
	}
	switch callerRole {
	case models.RoleCustomer:
		filter.CustomerID = callerID
		filter.OwnerID = ""
	case models.RoleOwner:
		filter.OwnerID = callerID
		filter.CustomerID = ""
	case models.RoleAdmin:
		// unscoped
	default:
		return nil, 0, apperrors.Forbiddenf("unknown role %q", callerRole)
	}
	return s.db.ListEmergencies(ctx, filter)
}

func (s *Service) getEmergency(ctx context.Context, id string) (*models.Emergency, error) {
	e, err := s.db.GetEmergency(ctx, id)
	if errors.Is(err, database.ErrEmergencyNotFound) {
		return nil, apperrors.NotFoundf("emergency %s not found", id)
	}
	return e, err
}

func (s *Service) publish(n *models.Notification) {
	if s.pub != nil {
		s.pub.Publish(n)
	}
}

func validateLocation(loc *models.Location) error {
	if loc == nil {
		return apperrors.Validationf("location is required")
	}
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return apperrors.Validationf("latitude %g out of range", loc.Latitude)
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return apperrors.Validationf("longitude %g out of range", loc.Longitude)
	}
	if loc.AccuracyM < 0 {
		return apperrors.Validationf("accuracy_m must not be negative")
	}
	return nil
}
