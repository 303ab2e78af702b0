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

// Paperwork errors
var ErrRecordNotFound = errors.New("record not found")

// CreateDocument files a car document.
func (db *DB) CreateDocument(ctx context.Context, d *models.Document) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	d.UpdatedAt = d.CreatedAt

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO documents (id, car_id, owner_id, type, number, file_url,
			issue_date, expiry_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.CarID, d.OwnerID, d.Type, d.Number, d.FileURL,
		d.IssueDate, d.ExpiryDate, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// ListDocumentsByCar returns a car's filed documents.
func (db *DB) ListDocumentsByCar(ctx context.Context, carID string) ([]*models.Document, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, car_id, owner_id, type, number, file_url, issue_date,
			expiry_date, created_at, updated_at
		FROM documents WHERE car_id = ? ORDER BY created_at DESC`, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*models.Document, 0)
	for rows.Next() {
		var d models.Document
		var issue, expiry sql.NullTime
		if err := rows.Scan(&d.ID, &d.CarID, &d.OwnerID, &d.Type, &d.Number,
			&d.FileURL, &issue, &expiry, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if issue.Valid {
			d.IssueDate = &issue.Time
		}
		if expiry.Valid {
			d.ExpiryDate = &expiry.Time
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a filed document, scoped to the owner.
func (db *DB) DeleteDocument(ctx context.Context, id, ownerID string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM documents WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return requireRowAffected(res, ErrRecordNotFound)
}

// CreateInsurance files an insurance policy record.
func (db *DB) CreateInsurance(ctx context.Context, ins *models.Insurance) error {
	if ins.ID == "" {
		ins.ID = uuid.New().String()
	}
	if ins.CreatedAt.IsZero() {
		ins.CreatedAt = time.Now().UTC()
	}
	ins.UpdatedAt = ins.CreatedAt

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO insurance (id, car_id, owner_id, policy_number, provider,
			coverage_type, file_url, start_date, expiry_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ins.ID, ins.CarID, ins.OwnerID, ins.PolicyNumber, ins.Provider,
		ins.CoverageType, ins.FileURL, ins.StartDate, ins.ExpiryDate,
		ins.CreatedAt, ins.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create insurance record: %w", err)
	}
	return nil
}

// ListInsuranceByCar returns a car's insurance records.
func (db *DB) ListInsuranceByCar(ctx context.Context, carID string) ([]*models.Insurance, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, car_id, owner_id, policy_number, provider, coverage_type,
			file_url, start_date, expiry_date, created_at, updated_at
		FROM insurance WHERE car_id = ? ORDER BY created_at DESC`, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to list insurance records: %w", err)
	}
	defer rows.Close()

	records := make([]*models.Insurance, 0)
	for rows.Next() {
		var ins models.Insurance
		var start, expiry sql.NullTime
		if err := rows.Scan(&ins.ID, &ins.CarID, &ins.OwnerID, &ins.PolicyNumber,
			&ins.Provider, &ins.CoverageType, &ins.FileURL, &start, &expiry,
			&ins.CreatedAt, &ins.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan insurance record: %w", err)
		}
		if start.Valid {
			ins.StartDate = &start.Time
		}
		if expiry.Valid {
			ins.ExpiryDate = &expiry.Time
		}
		records = append(records, &ins)
	}
	return records, rows.Err()
}

// DeleteInsurance removes an insurance record, scoped to the owner.
func (db *DB) DeleteInsurance(ctx context.Context, id, ownerID string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM insurance WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete insurance record: %w", err)
	}
	return requireRowAffected(res, ErrRecordNotFound)
}

// CreateMaintenance files a service record.
func (db *DB) CreateMaintenance(ctx context.Context, m *models.Maintenance) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.UpdatedAt = m.CreatedAt

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO maintenance (id, car_id, owner_id, service_type, description,
			cost, service_date, next_due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.CarID, m.OwnerID, m.ServiceType, m.Description,
		m.Cost, m.ServiceDate, m.NextDueDate, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create maintenance record: %w", err)
	}
	return nil
}

// ListMaintenanceByCar returns a car's service history.
func (db *DB) ListMaintenanceByCar(ctx context.Context, carID string) ([]*models.Maintenance, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, car_id, owner_id, service_type, description, cost,
			service_date, next_due_date, created_at, updated_at
		FROM maintenance WHERE car_id = ? ORDER BY created_at DESC`, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance records: %w", err)
	}
	defer rows.Close()

	records := make([]*models.Maintenance, 0)
	for rows.Next() {
		var m models.Maintenance
		var serviceDate, nextDue sql.NullTime
		if err := rows.Scan(&m.ID, &m.CarID, &m.OwnerID, &m.ServiceType,
			&m.Description, &m.Cost, &serviceDate, &nextDue,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan maintenance record: %w", err)
		}
		if serviceDate.Valid {
			m.ServiceDate = &serviceDate.Time
		}
		if nextDue.Valid {
			m.NextDueDate = &nextDue.Time
		}
		records = append(records, &m)
	}
	return records, rows.Err()
}

// DeleteMaintenance removes a service record, scoped to the owner.
func (db *DB) DeleteMaintenance(ctx context.Context, id, ownerID string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM maintenance WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete maintenance record: %w", err)
	}
	return requireRowAffected(res, ErrRecordNotFound)
}
