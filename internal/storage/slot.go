package storage

import (
	"errors"
	"fmt"
	"sync"

	"trade-journal-go/internal/config"

	"gorm.io/gorm"
)

// ErrSlotNotFound is returned when a key has never been written.
var ErrSlotNotFound = errors.New("slot not found")

// Slot is a persistent key-value store holding whole serialized values.
type Slot interface {
	Read(key string) ([]byte, error)
	Write(key string, value []byte) error
}

// New returns the slot selected by cfg.Driver. The database handle is only
// required by the sqlite and postgres drivers.
func New(cfg config.Storage, db *gorm.DB) (Slot, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemorySlot(), nil
	case "", "file":
		return NewFileSlot(cfg.Path)
	case "sqlite", "postgres":
		if db == nil {
			return nil, fmt.Errorf("storage driver %q requires a database connection", cfg.Driver)
		}
		return NewDBSlot(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// MemorySlot keeps values in process memory.
type MemorySlot struct {
	mu     sync.Mutex
	values map[string][]byte
}

// ensure MemorySlot implements the interface
var _ Slot = (*MemorySlot)(nil)

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

func (m *MemorySlot) Read(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrSlotNotFound
	}
	// Copy to avoid sharing the backing array
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemorySlot) Write(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	return nil
}
