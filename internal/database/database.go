package database

import (
	"fmt"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the database selected by the storage driver and migrates the schema.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Storage.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN)
	case "postgres":
		if cfg.Database.Create {
			if err := EnsurePostgresDatabase(cfg.Database); err != nil {
				return nil, err
			}
		}
		dialector = postgres.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("storage driver %q does not use a database", cfg.Storage.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates or updates the tables used by the journal.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Slot{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// NeedsDatabase reports whether the storage driver is database backed.
func NeedsDatabase(driver string) bool {
	return driver == "sqlite" || driver == "postgres"
}
