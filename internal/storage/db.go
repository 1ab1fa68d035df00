package storage

import (
	"errors"
	"fmt"

	"trade-journal-go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBSlot stores values as rows of the slots table.
type DBSlot struct {
	db *gorm.DB
}

var _ Slot = (*DBSlot)(nil)

// NewDBSlot expects the slots table to be migrated already (see database.NewDatabase).
func NewDBSlot(db *gorm.DB) *DBSlot {
	return &DBSlot{db: db}
}

func (s *DBSlot) Read(key string) ([]byte, error) {
	var slot models.Slot
	err := s.db.Where(&models.Slot{Key: key}).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return []byte(slot.Value), nil
}

func (s *DBSlot) Write(key string, value []byte) error {
	slot := models.Slot{Key: key, Value: string(value)}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}
