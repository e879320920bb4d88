package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hostel-attendance-backend/config"
	"hostel-attendance-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.EnablePostgresDDL {
		log.Println("Applying PostgreSQL-specific DDL...")
		if err := applyPostgresDDL(db); err != nil {
			return nil, err
		}
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Migrate creates or updates the schema for all core models. Exposed
// separately so tests can run it against an in-memory database.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Building{},
		&model.Floor{},
		&model.Room{},
		&model.User{},
		&model.AttendanceRecord{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

// applyPostgresDDL hardens invariants the ORM tags cannot express.
func applyPostgresDDL(db *gorm.DB) error {
	ddls := []string{
		// Bed counters may only move inside [0, bed_count].
		"ALTER TABLE rooms DROP CONSTRAINT IF EXISTS rooms_beds_occupied_bounds;",
		"ALTER TABLE rooms ADD CONSTRAINT rooms_beds_occupied_bounds " +
			"CHECK (beds_occupied >= 0 AND beds_occupied <= bed_count);",

		// A room always has at least one bed.
		"ALTER TABLE rooms DROP CONSTRAINT IF EXISTS rooms_bed_count_positive;",
		"ALTER TABLE rooms ADD CONSTRAINT rooms_bed_count_positive CHECK (bed_count >= 1);",

		// Common warden-screen lookup: today's records per building scope.
		"CREATE INDEX IF NOT EXISTS idx_attendance_building_day " +
			"ON attendance_records (building_id, occurred_on);",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
