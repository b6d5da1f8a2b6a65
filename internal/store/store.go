// Package store persists confirmed events. A collection is addressed by a
// store key (one per chat session) and every mutation rewrites the whole
// collection.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"nadcal/internal/event"
	"nadcal/internal/metrics"
)

var (
	ErrUnknownBackend = errors.New("unknown store backend")
	ErrDuplicateID    = errors.New("event id already stored")
	// ErrCorrupt is returned by backends whose stored collection cannot be
	// decoded.
	ErrCorrupt = errors.New("stored collection is corrupt")
)

// Backend reads and writes whole collections. Read returns an empty
// collection for a key that was never written.
type Backend interface {
	Name() string
	Read(ctx context.Context, key string) ([]event.Event, error)
	Write(ctx context.Context, key string, events []event.Event) error
	Close() error
}

type Store struct {
	backend Backend
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithClock sets the source of updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(b Backend, opts ...Option) *Store {
	s := &Store{
		backend: b,
		logger:  zap.NewNop(),
		now:     time.Now,
		locks:   map[string]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Backend() string { return s.backend.Name() }

func (s *Store) Close() error { return s.backend.Close() }

// lock serializes read-modify-write cycles on one key within this process.
func (s *Store) lock(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Load returns the collection under key. A missing or corrupt collection
// loads as empty; the corruption is logged.
func (s *Store) Load(ctx context.Context, key string) ([]event.Event, error) {
	defer s.lock(key)()
	return s.load(ctx, key)
}

func (s *Store) load(ctx context.Context, key string) ([]event.Event, error) {
	events, err := s.backend.Read(ctx, key)
	s.record("load", err)
	if errors.Is(err, ErrCorrupt) {
		s.logger.Warn("event store corrupt, starting empty", zap.String("key", key), zap.Error(err))
		return []event.Event{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	if events == nil {
		events = []event.Event{}
	}
	return events, nil
}

// Save overwrites the collection under key.
func (s *Store) Save(ctx context.Context, key string, events []event.Event) error {
	defer s.lock(key)()
	return s.save(ctx, key, events)
}

func (s *Store) save(ctx context.Context, key string, events []event.Event) error {
	err := s.backend.Write(ctx, key, events)
	s.record("save", err)
	if err != nil {
		s.logger.Error("event store write failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("save events: %w", err)
	}
	return nil
}

func (s *Store) Add(ctx context.Context, key string, e event.Event) error {
	if e.ID == "" {
		return event.ErrEmptyID
	}
	defer s.lock(key)()
	events, err := s.load(ctx, key)
	if err != nil {
		return err
	}
	for _, existing := range events {
		if existing.ID == e.ID {
			return fmt.Errorf("add %s: %w", e.ID, ErrDuplicateID)
		}
	}
	if err := s.save(ctx, key, append(events, e)); err != nil {
		return err
	}
	s.logger.Info("event added", zap.String("key", key), zap.String("id", e.ID))
	return nil
}

// Delete removes the event with id. An unknown id leaves the collection
// untouched and reports false.
func (s *Store) Delete(ctx context.Context, key, id string) (bool, error) {
	if id == "" {
		return false, event.ErrEmptyID
	}
	defer s.lock(key)()
	events, err := s.load(ctx, key)
	if err != nil {
		return false, err
	}
	kept := events[:0:0]
	for _, e := range events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(events) {
		return false, nil
	}
	if err := s.save(ctx, key, kept); err != nil {
		return false, err
	}
	s.logger.Info("event deleted", zap.String("key", key), zap.String("id", id))
	return true, nil
}

// Update merges p into the event with id and returns the result, or nil
// when no event has that id.
func (s *Store) Update(ctx context.Context, key, id string, p event.Patch) (*event.Event, error) {
	if id == "" {
		return nil, event.ErrEmptyID
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	defer s.lock(key)()
	events, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].ID != id {
			continue
		}
		if err := events[i].Apply(p, s.now()); err != nil {
			return nil, err
		}
		if err := s.save(ctx, key, events); err != nil {
			return nil, err
		}
		updated := events[i]
		s.logger.Info("event updated", zap.String("key", key), zap.String("id", id))
		return &updated, nil
	}
	return nil, nil
}

func (s *Store) record(op string, err error) {
	s.metrics.StoreOp(op, s.backend.Name(), err)
}
