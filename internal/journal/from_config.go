package journal

import (
	"fmt"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/database"
	"trade-journal-go/internal/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewFromConfig opens the storage slot described by cfg and loads the journal from it.
func NewFromConfig(cfg *config.Config, logger *zap.Logger) (*Store, error) {
	var db *gorm.DB
	if database.NeedsDatabase(cfg.Storage.Driver) {
		var err error
		db, err = database.NewDatabase(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("Database connection successful and schema migrated.", zap.String("driver", cfg.Storage.Driver))
	}

	slot, err := storage.New(cfg.Storage, db)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Journal.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid journal timezone: %w", err)
	}

	return Open(slot,
		WithKey(cfg.Storage.Key),
		WithLocation(loc),
		WithLogger(logger.Named("journal")),
	)
}
