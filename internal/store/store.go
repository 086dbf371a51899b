// Package store is the application's single source of state: a set of typed JSON
// blobs, one per Key, written through to a kv.Backend on every change.
//
// Business logic reads snapshots with Get and never sees the backend. Persisted
// blobs that fail to decode are treated as absent so a corrupted key resets to its
// default instead of taking the dashboard down.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/repository/kv"
)

// Listener is notified after a key has been written.
type Listener func(key Key)

// Store holds the raw blobs in memory and writes each change through to the backend.
type Store struct {
	backend kv.Backend
	logger  *zap.Logger

	mu    sync.RWMutex
	blobs map[Key][]byte
	rev   uint64

	subMu   sync.Mutex
	subs    map[int]Listener
	nextSub int
}

// Open loads every persisted key from backend.
func Open(ctx context.Context, backend kv.Backend, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	raw, err := backend.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load persisted state: %w", err)
	}

	s := &Store{
		backend: backend,
		logger:  logger,
		blobs:   make(map[Key][]byte, len(raw)),
		subs:    make(map[int]Listener),
	}

	for k, v := range raw {
		key := Key(k)
		def, known := schema[key]
		if !known {
			logger.Debug("ignoring unknown persisted key", zap.String("key", k))
			continue
		}
		target := reflect.New(reflect.TypeOf(def()))
		if err := json.Unmarshal(v, target.Interface()); err != nil {
			logger.Warn("discarding malformed persisted value", zap.String("key", k), zap.Error(err))
			continue
		}
		s.blobs[key] = v
	}

	logger.Info("store opened", zap.Int("keys", len(s.blobs)))
	return s, nil
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Revision increases on every successful write. Callers use it as a cache key.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev
}

// Subscribe registers fn for change notifications and returns the function that
// removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(key Key) {
	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(key)
	}
}

// Get decodes the value stored under key, or the key's default when absent.
func Get[T any](s *Store, key Key) T {
	s.mu.RLock()
	raw, ok := s.blobs[key]
	s.mu.RUnlock()
	return decode[T](s.logger, key, raw, ok)
}

// Set replaces the value under key.
func Set[T any](ctx context.Context, s *Store, key Key, value T) error {
	return Update(ctx, s, key, func(T) (T, error) { return value, nil })
}

// Update applies fn to the current value and persists the result. The store is
// locked for the whole read-modify-write so concurrent updates do not interleave.
// When fn returns an error nothing is written.
func Update[T any](ctx context.Context, s *Store, key Key, fn func(T) (T, error)) error {
	s.mu.Lock()
	raw, ok := s.blobs[key]
	next, err := fn(decode[T](s.logger, key, raw, ok))
	if err != nil {
		s.mu.Unlock()
		return err
	}

	encoded, err := json.Marshal(next)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Put(ctx, string(key), encoded); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist %s: %w", key, err)
	}
	s.blobs[key] = encoded
	s.rev++
	s.mu.Unlock()

	s.notify(key)
	return nil
}

// Delete removes key so later reads return its default.
func (s *Store) Delete(ctx context.Context, key Key) error {
	s.mu.Lock()
	if err := s.backend.Delete(ctx, string(key)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("delete %s: %w", key, err)
	}
	delete(s.blobs, key)
	s.rev++
	s.mu.Unlock()

	s.notify(key)
	return nil
}

// Records returns a snapshot of every record collection.
func (s *Store) Records() models.RecordSet {
	return models.RecordSet{
		Health:     Get[[]models.HealthRecord](s, KeyHealthRecords),
		Breeding:   Get[[]models.BreedingRecord](s, KeyBreedingRecords),
		Feed:       Get[[]models.FeedRecord](s, KeyFeedRecords),
		Inventory:  Get[[]models.InventoryRecord](s, KeyInventoryRecords),
		Production: Get[[]models.ProductionRecord](s, KeyProductionRecords),
		Animals:    Get[[]models.AnimalRecord](s, KeyAnimals),
	}
}

func decode[T any](logger *zap.Logger, key Key, raw []byte, ok bool) T {
	if !ok {
		return defaultFor[T](key)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Warn("stored value does not match requested type", zap.String("key", string(key)), zap.Error(err))
		return defaultFor[T](key)
	}
	return v
}

func defaultFor[T any](key Key) T {
	if fn, ok := schema[key]; ok {
		if v, ok := fn().(T); ok {
			return v
		}
	}
	var zero T
	return zero
}
