// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/renterra/renterra/internal/models"
)

// User errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailConflict = errors.New("an account with this email already exists")
)

const userColumns = `id, name, email, password_hash, role, phone, address, is_active, created_at, updated_at`

// CreateUser inserts a new user. The password must already be hashed.
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt

	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.conn.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role,
		user.Phone, user.Address, user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrEmailConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email for login.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// UpdateUserProfile updates the mutable profile fields.
func (db *DB) UpdateUserProfile(ctx context.Context, id, name, phone, address string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET name = ?, phone = ?, address = ?, updated_at = ? WHERE id = ?`,
		name, phone, address, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRowAffected(res, ErrUserNotFound)
}

// UpdateUserPassword replaces the stored password hash.
func (db *DB) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireRowAffected(res, ErrUserNotFound)
}

// SetUserActive activates or deactivates an account. Deactivated users
// cannot log in; their data is never deleted.
func (db *DB) SetUserActive(ctx context.Context, id string, active bool) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set user active: %w", err)
	}
	return requireRowAffected(res, ErrUserNotFound)
}

// ListUsers returns users ordered by creation time, optionally filtered by role.
func (db *DB) ListUsers(ctx context.Context, role string, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	args := []any{}
	if role != "" {
		query += ` AND role = ?`
		args = append(args, role)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUserRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListAdminIDs returns the IDs of all active admin accounts. Used to fan
// out emergency notifications.
func (db *DB) ListAdminIDs(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id FROM users WHERE role = ? AND is_active = true`, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan admin id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountUsers returns the total user count, optionally filtered by role.
func (db *DB) CountUsers(ctx context.Context, role string) (int, error) {
	query := `SELECT COUNT(*) FROM users`
	args := []any{}
	if role != "" {
		query += ` WHERE role = ?`
		args = append(args, role)
	}
	var count int
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.Phone, &u.Address, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func scanUserRows(rows *sql.Rows) (*models.User, error) {
	var u models.User
	err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.Phone, &u.Address, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// requireRowAffected converts a zero-row update into notFound.
func requireRowAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
