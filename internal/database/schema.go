// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package database

// Schema definition. All columns live in the initial CREATE TABLE
// statements; post-release changes go through versioned migrations in
// migrations.go.

var createTableStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS cars (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		price_per_day DOUBLE NOT NULL,
		location TEXT NOT NULL,
		seats INTEGER NOT NULL,
		transmission TEXT NOT NULL,
		fuel_type TEXT NOT NULL,
		image_urls TEXT NOT NULL DEFAULT '[]',
		description TEXT NOT NULL DEFAULT '',
		approved BOOLEAN NOT NULL DEFAULT false,
		available BOOLEAN NOT NULL DEFAULT true,
		rejection_reason TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		car_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		start_date TIMESTAMP NOT NULL,
		end_date TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		total_price DOUBLE NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS emergencies (
		id TEXT PRIMARY KEY,
		booking_id TEXT NOT NULL,
		car_id TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		type TEXT NOT NULL,
		priority TEXT NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL,
		latitude DOUBLE,
		longitude DOUBLE,
		accuracy_m DOUBLE,
		location_error TEXT NOT NULL DEFAULT '',
		resolution_notes TEXT NOT NULL DEFAULT '',
		resolved_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		recipient_id TEXT NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		read BOOLEAN NOT NULL DEFAULT false,
		booking_id TEXT NOT NULL DEFAULT '',
		car_id TEXT NOT NULL DEFAULT '',
		emergency_id TEXT NOT NULL DEFAULT '',
		extra_days INTEGER NOT NULL DEFAULT 0,
		new_end_date TIMESTAMP,
		extension_status TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS payment_orders (
		id TEXT PRIMARY KEY,
		booking_id TEXT NOT NULL,
		gateway_order_id TEXT NOT NULL,
		amount DOUBLE NOT NULL,
		currency TEXT NOT NULL,
		status TEXT NOT NULL,
		gateway_payment_id TEXT NOT NULL DEFAULT '',
		signature TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		car_id TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		type TEXT NOT NULL,
		number TEXT NOT NULL DEFAULT '',
		file_url TEXT NOT NULL DEFAULT '',
		issue_date TIMESTAMP,
		expiry_date TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS insurance (
		id TEXT PRIMARY KEY,
		car_id TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		policy_number TEXT NOT NULL,
		provider TEXT NOT NULL,
		coverage_type TEXT NOT NULL DEFAULT '',
		file_url TEXT NOT NULL DEFAULT '',
		start_date TIMESTAMP,
		expiry_date TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS maintenance (
		id TEXT PRIMARY KEY,
		car_id TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		service_type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		cost DOUBLE NOT NULL DEFAULT 0,
		service_date TIMESTAMP,
		next_due_date TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE SEQUENCE IF NOT EXISTS audit_events_seq`,

	`CREATE TABLE IF NOT EXISTS audit_events (
		id BIGINT PRIMARY KEY DEFAULT nextval('audit_events_seq'),
		actor_id TEXT NOT NULL,
		actor_role TEXT NOT NULL,
		action TEXT NOT NULL,
		target_type TEXT NOT NULL,
		target_id TEXT NOT NULL,
		outcome TEXT NOT NULL,
		metadata TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL
	)`,
}

var createIndexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_cars_owner ON cars(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cars_public ON cars(approved, available)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_car ON bookings(car_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_customer ON bookings(customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_owner ON bookings(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
	`CREATE INDEX IF NOT EXISTS idx_emergencies_status ON emergencies(status)`,
	`CREATE INDEX IF NOT EXISTS idx_emergencies_customer ON emergencies(customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, read)`,
	`CREATE INDEX IF NOT EXISTS idx_payment_orders_gateway ON payment_orders(gateway_order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_events(created_at)`,
}

// createTables creates all tables if they do not exist
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, stmt := range createTableStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return wrapSchemaError("create table", err)
		}
	}
	return nil
}

// createIndexes creates all indexes if they do not exist
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, stmt := range createIndexStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return wrapSchemaError("create index", err)
		}
	}
	return nil
}
