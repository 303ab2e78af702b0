// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/renterra/renterra/internal/apperrors"
	"github.com/renterra/renterra/internal/database"
	"github.com/renterra/renterra/internal/logging"
	"github.com/renterra/renterra/internal/metrics"
	"github.com/renterra/renterra/internal/models"
)

// Service implements signup, login, logout and profile management on top
// of the user store.
type Service struct {
	db       *database.DB
	hasher   *PasswordHasher
	jwt      *JWTManager
	denylist *Denylist
}

// NewService wires the auth service.
func NewService(db *database.DB, hasher *PasswordHasher, jwt *JWTManager, denylist *Denylist) *Service {
	return &Service{db: db, hasher: hasher, jwt: jwt, denylist: denylist}
}

// Signup registers a new customer or owner account and returns the created
// user with a fresh token. Admin accounts are never self-service.
func (s *Service) Signup(ctx context.Context, name, email, password, role, phone string) (*models.User, string, error) {
	if !models.IsSignupRole(role) {
		return nil, "", apperrors.Validationf("role must be customer or owner, got %q", role)
	}

	user := &models.User{
		Name:     strings.TrimSpace(name),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Role:     role,
		Phone:    phone,
		IsActive: true,
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = hash

	if err := s.db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrEmailConflict) {
			return nil, "", apperrors.Validationf("email %s is already registered", user.Email)
		}
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	logging.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("User registered")
	return user, token, nil
}

// Login verifies credentials and issues a token. Deactivated accounts are
// refused with the same message as bad credentials to avoid account
// enumeration in responses; the distinction is kept in metrics.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			metrics.AuthLogins.WithLabelValues("bad_credentials").Inc()
			return nil, "", apperrors.Unauthorizedf("invalid email or password")
		}
		return nil, "", err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			metrics.AuthLogins.WithLabelValues("bad_credentials").Inc()
			return nil, "", apperrors.Unauthorizedf("invalid email or password")
		}
		return nil, "", err
	}

	if !user.IsActive {
		metrics.AuthLogins.WithLabelValues("deactivated").Inc()
		return nil, "", apperrors.Unauthorizedf("invalid email or password")
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	return user, token, nil
}

// Logout revokes the presented token by its jti.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if claims.ExpiresAt == nil {
		return s.denylist.Revoke(claims.ID, time.Now().Add(s.jwt.Timeout()))
	}
	return s.denylist.Revoke(claims.ID, claims.ExpiresAt.Time)
}

// GetProfile returns the caller's own account.
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.db.GetUser(ctx, userID)
	if errors.Is(err, database.ErrUserNotFound) {
		return nil, apperrors.NotFoundf("user %s not found", userID)
	}
	return user, err
}

// UpdateProfile changes the caller's display fields. Email and role are
// immutable.
func (s *Service) UpdateProfile(ctx context.Context, userID, name, phone, address string) (*models.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.Validationf("name must not be empty")
	}
	if err := s.db.UpdateUserProfile(ctx, userID, strings.TrimSpace(name), phone, address); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, apperrors.NotFoundf("user %s not found", userID)
		}
		return nil, err
	}
	return s.db.GetUser(ctx, userID)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.db.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return apperrors.NotFoundf("user %s not found", userID)
		}
		return err
	}

	if err := s.hasher.Compare(user.PasswordHash, current); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return apperrors.Unauthorizedf("current password is incorrect")
		}
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	return s.db.UpdateUserPassword(ctx, userID, hash)
}
