package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"trade-journal-go/internal/models"
	"trade-journal-go/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultKey is the slot key the trade collection is persisted under.
const DefaultKey = "trade-history-data"

// Store owns the ordered trade collection and mirrors it to a storage slot.
// Every mutation rewrites the whole collection.
type Store struct {
	mu     sync.RWMutex
	trades []models.Trade // most recently added first

	slot   storage.Slot
	key    string
	logger *zap.Logger
	now    func() time.Time
	loc    *time.Location
	newID  func() string
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the slot key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock sets the clock used to decide which day is today.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the timezone used to decide which day is today.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithIDGenerator sets the function producing trade identifiers.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Open loads the collection from the slot. A missing slot yields an empty
// journal; so does a value that cannot be parsed, which is only logged.
func Open(slot storage.Slot, opts ...Option) (*Store, error) {
	s := &Store{
		slot:   slot,
		key:    DefaultKey,
		logger: zap.NewNop(),
		now:    time.Now,
		loc:    time.UTC,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	s.logger.Info("Journal loaded", zap.String("key", s.key), zap.Int("trades", len(s.trades)))
	return s, nil
}

func (s *Store) load() error {
	data, err := s.slot.Read(s.key)
	if errors.Is(err, storage.ErrSlotNotFound) {
		s.trades = []models.Trade{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read journal: %w", err)
	}

	var trades []models.Trade
	if err := json.Unmarshal(data, &trades); err != nil {
		s.logger.Warn("Persisted journal is unreadable, starting empty", zap.String("key", s.key), zap.Error(err))
		trades = nil
	}
	if trades == nil {
		trades = []models.Trade{}
	}
	s.trades = trades
	return nil
}

// commit persists next and only then makes it the current collection.
// Callers must hold the write lock.
func (s *Store) commit(next []models.Trade) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("could not encode journal: %w", err)
	}
	if err := s.slot.Write(s.key, data); err != nil {
		s.logger.Error("Failed to persist journal", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("could not persist journal: %w", err)
	}
	s.trades = next
	return nil
}

// List returns every trade, most recently added first.
func (s *Store) List() []models.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Trade, len(s.trades))
	copy(out, s.trades)
	return out
}

// Get returns the trade with the given identifier.
func (s *Store) Get(id string) (models.Trade, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.trades {
		if t.ID == id {
			return t, true
		}
	}
	return models.Trade{}, false
}

// Add assigns a fresh identifier to t, places it at the front of the
// collection and persists. Any identifier already set on t is ignored.
func (s *Store) Add(t models.Trade) (models.Trade, error) {
	t.ID = s.newID()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Trade, 0, len(s.trades)+1)
	next = append(next, t)
	next = append(next, s.trades...)
	if err := s.commit(next); err != nil {
		return models.Trade{}, err
	}
	s.logger.Debug("Trade added", zap.String("id", t.ID), zap.String("code", t.Code))
	return t, nil
}

// Update merges u into the trade with the given identifier and persists.
// An unknown identifier is a no-op and reports false.
func (s *Store) Update(id string, u models.TradeUpdate) (models.Trade, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Trade, len(s.trades))
	var updated models.Trade
	found := false
	for i, t := range s.trades {
		if t.ID == id {
			t = u.Apply(t)
			updated, found = t, true
		}
		next[i] = t
	}
	if err := s.commit(next); err != nil {
		return models.Trade{}, false, err
	}
	if found {
		s.logger.Debug("Trade updated", zap.String("id", id))
	}
	return updated, found, nil
}

// Delete removes the trade with the given identifier and persists.
// An unknown identifier is a no-op and reports false.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Trade, 0, len(s.trades))
	found := false
	for _, t := range s.trades {
		if t.ID == id {
			found = true
			continue
		}
		next = append(next, t)
	}
	if err := s.commit(next); err != nil {
		return false, err
	}
	if found {
		s.logger.Debug("Trade deleted", zap.String("id", id))
	}
	return found, nil
}

// Today returns the current calendar day in the journal's timezone.
func (s *Store) Today() string {
	return s.now().In(s.loc).Format(DateLayout)
}

// Stats recomputes the aggregate metrics over the whole collection.
func (s *Store) Stats() models.TradeStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeStats(s.trades, s.Today())
}

// Filter returns the trades matching f, preserving order.
func (s *Store) Filter(f TradeFilter) []models.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return f.Apply(s.trades)
}

// Summary returns what the dashboard shows: the stats and the open positions.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Summary{
		Stats:      ComputeStats(s.trades, s.Today()),
		OpenTrades: TradeFilter{Status: models.StatusOpen}.Apply(s.trades),
	}
}
