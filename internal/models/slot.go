package models

import "time"

// Slot is a single key-value row used as a persistent storage slot.
type Slot struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
