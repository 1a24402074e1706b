package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reservas-backend/config"
	"reservas-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
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
	if err := db.AutoMigrate(
		&model.EnvironmentType{},
		&model.Resource{},
		&model.User{},
		&model.Environment{},
		&model.Reservation{},
		&model.PushSubscription{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if cfg.EnableExclusion {
		log.Println("Applying reservation exclusion-constraint DDL...")
		if err := applyExclusionDDL(db); err != nil {
			// ADD CONSTRAINT is not idempotent; on a restart the
			// constraints already exist.
			log.Printf("Warning: failed to apply some exclusion DDL: %v. Continuing without them.", err)
		}
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// applyExclusionDDL installs the Postgres backstop that rejects two
// non-cancelled reservations with overlapping [start_time, end_time)
// ranges on the same environment, regardless of what the application
// layer checked.
func applyExclusionDDL(db *gorm.DB) error {
	ddls := []string{
		"CREATE EXTENSION IF NOT EXISTS btree_gist;",

		"ALTER TABLE reservations " +
			"ADD CONSTRAINT reservations_interval_valid CHECK (start_time < end_time);",

		"ALTER TABLE reservations ADD CONSTRAINT reservations_no_overlap " +
			"EXCLUDE USING GIST (environment_id WITH =, tstzrange(start_time, end_time, '[)') WITH &&) " +
			"WHERE (status <> 'cancelled');",

		"CREATE INDEX idx_reservations_environment_start ON reservations (environment_id, start_time DESC);",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
