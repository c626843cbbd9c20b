package main

import (
	"log"
	"os"

	"talasofilia-pilates-be/internal/model"
	"talasofilia-pilates-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions & Enums (Things GORM AutoMigrate doesn't do perfectly)
	color.Cyan("Step 1: Setting up Extensions and Enums...")

	setupSQL := []string{
		// Extensions
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,

		// Enums (Idempotent creation)
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN CREATE TYPE user_role AS ENUM ('customer', 'admin'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'payment_provider') THEN CREATE TYPE payment_provider AS ENUM ('stripe', 'mercado_pago', 'cash'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'payment_status') THEN CREATE TYPE payment_status AS ENUM ('pending', 'completed', 'failed'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'booking_status') THEN CREATE TYPE booking_status AS ENUM ('confirmed', 'cancelled', 'attended', 'no_show'); END IF; END $$;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Yellow("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	color.Cyan("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.ClassPackage{},
		&model.Purchase{},
		&model.ClassSchedule{},
		&model.ClassBooking{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// 5. Post-Migration: Indexes AutoMigrate cannot express
	color.Cyan("Step 3: Creating partial indexes...")

	// One confirmed booking per user per schedule. Cancelled rows keep
	// their history and do not block a rebooking.
	postSQL := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_confirmed_booking
			ON class_bookings (user_id, schedule_id)
			WHERE status = 'confirmed';`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_consumable
			ON purchases (user_id, expiry_date)
			WHERE payment_status = 'completed' AND classes_remaining > 0;`,
	}

	for _, sql := range postSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Red("Error: Failed to create index: %v", err)
			os.Exit(1)
		}
	}

	color.Green("✅ Migration completed successfully")
}
