package service

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

var testSchema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		full_name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'customer',
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE class_packages (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		number_of_classes INTEGER NOT NULL,
		price REAL NOT NULL,
		currency TEXT NOT NULL DEFAULT 'MXN',
		validity_days INTEGER NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE purchases (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		package_id TEXT NOT NULL,
		package_name TEXT NOT NULL,
		total_classes INTEGER NOT NULL,
		classes_remaining INTEGER NOT NULL,
		amount_paid REAL NOT NULL,
		currency TEXT NOT NULL DEFAULT 'MXN',
		payment_provider TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		payment_ref TEXT NOT NULL UNIQUE,
		provider_payload TEXT,
		purchase_date DATETIME NOT NULL,
		expiry_date DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE class_schedules (
		id TEXT PRIMARY KEY,
		class_name TEXT NOT NULL,
		instructor TEXT NOT NULL,
		starts_at DATETIME NOT NULL,
		ends_at DATETIME NOT NULL,
		max_capacity INTEGER NOT NULL,
		current_bookings INTEGER NOT NULL DEFAULT 0,
		is_cancelled BOOLEAN NOT NULL DEFAULT false,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE class_bookings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		schedule_id TEXT NOT NULL,
		purchase_id TEXT NOT NULL,
		status TEXT NOT NULL,
		booked_at DATETIME NOT NULL,
		cancelled_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE UNIQUE INDEX idx_one_confirmed_booking
		ON class_bookings (user_id, schedule_id)
		WHERE status = 'confirmed';`,
}

// newTestDB opens a fresh in-memory database mirroring the production
// schema, including the partial unique index on confirmed bookings.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	// A single connection keeps the shared in-memory database alive
	// and serializes writes the way a real server pool would under
	// row locks.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	for _, stmt := range testSchema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("failed to create schema: %v", err)
		}
	}
	return db
}
