// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

// Package notification serves the in-app notification feed and fans
// committed notifications out to connected WebSocket clients.
//
// Notifications are written by the booking, emergency, car and payment
// services inside their own database transactions. This package never
// creates notifications; it reads the feed on behalf of its recipient
// and relays post-commit copies over the in-process event bus.
package notification

import (
	"context"
	"errors"

	"github.com/renterra/renterra/internal/apperrors"
	"github.com/renterra/renterra/internal/database"
	"github.com/renterra/renterra/internal/models"
)

// Service exposes the recipient-scoped notification feed.
type Service struct {
	db *database.DB
}

// NewService wires the notification feed service.
func NewService(db *database.DB) *Service {
	return &Service{db: db}
}

// List returns the caller's notifications, newest first.
func (s *Service) List(ctx context.Context, recipientID string, unreadOnly bool, page, pageSize int) ([]*models.Notification, int, error) {
	return s.db.ListNotifications(ctx, &models.NotificationFilter{
		RecipientID: recipientID,
		UnreadOnly:  unreadOnly,
		Page:        page,
		PageSize:    pageSize,
	})
}

// CountUnread returns the caller's unread badge count.
func (s *Service) CountUnread(ctx context.Context, recipientID string) (int, error) {
	return s.db.CountUnread(ctx, recipientID)
}

// MarkRead marks one of the caller's notifications read. Marking an
// already-read notification is a no-op.
func (s *Service) MarkRead(ctx context.Context, recipientID, id string) error {
	return mapNotFound(s.db.MarkNotificationRead(ctx, id, recipientID), id)
}

// MarkAllRead marks the caller's whole feed read and returns how many
// notifications flipped.
func (s *Service) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	return s.db.MarkAllNotificationsRead(ctx, recipientID)
}

// Delete removes one of the caller's notifications.
func (s *Service) Delete(ctx context.Context, recipientID, id string) error {
	return mapNotFound(s.db.DeleteNotification(ctx, id, recipientID), id)
}

func mapNotFound(err error, id string) error {
	if errors.Is(err, database.ErrNotificationNotFound) {
		return apperrors.NotFoundf("notification %s not found", id)
	}
	return err
}
