package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fixrx_backend/internal/config"
	"fixrx_backend/internal/models"
)

var gormDB *gorm.DB

// ConnectGorm opens the shared GORM handle using the configured DSN.
// TranslateError is required: the repositories match unique-index
// violations via gorm.ErrDuplicatedKey.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate creates the schema and the partial unique indexes that
// back duplicate detection under concurrency.
func AutoMigrate() error {
	db, err := ConnectGorm()
	if err != nil {
		return err
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.ServiceCategory{},
		&models.Service{},
		&models.ConnectionRequest{},
		&models.Message{},
		&models.Rating{},
		&models.VendorRatingAggregate{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	return createPartialIndexes(db)
}

// createPartialIndexes adds the uniqueness guarantees AutoMigrate
// cannot express. A consumer may re-request a vendor only after the
// previous request was cancelled, and may hold one visible rating per
// vendor+request. service_id and connection_request_id are nullable,
// so NULL is folded to a sentinel to make the tuples comparable.
func createPartialIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_connection_request
			ON connection_requests (consumer_id, vendor_id, COALESCE(service_id, '00000000-0000-0000-0000-000000000000'))
			WHERE status <> 'CANCELLED'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_visible_rating
			ON ratings (rater_id, rated_id, COALESCE(connection_request_id, '00000000-0000-0000-0000-000000000000'))
			WHERE deleted_at IS NULL`,
	}

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
