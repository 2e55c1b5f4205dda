// Package store provides the storage backends behind the item registry.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fairyhunter13/item-registry-service/internal/model"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

var (
	// ErrNotFound is returned by Lookup when no item has the requested id.
	ErrNotFound = errors.New("item not found")
	// ErrDuplicateID is returned by Insert when the id is already stored.
	ErrDuplicateID = errors.New("duplicate item id")
)

// Storage is the insert/lookup contract every backend satisfies.
type Storage interface {
	Insert(ctx context.Context, it model.Item) error
	Lookup(ctx context.Context, id int64) (model.Item, error)
}

// Open builds the named backend. A positive cacheTTL wraps it with a read cache.
// The returned close function releases backend resources.
func Open(ctx context.Context, backend string, cacheTTL time.Duration) (Storage, func() error, error) {
	var (
		st      Storage
		closeFn = func() error { return nil }
	)
	switch backend {
	case BackendMemory, "":
		st = NewMemory()
	case BackendSQLite:
		db, err := OpenSQLite(ctx)
		if err != nil {
			return nil, nil, err
		}
		st, closeFn = db, db.Close
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", backend)
	}
	if cacheTTL > 0 {
		st = NewCached(st, cacheTTL)
	}
	return st, closeFn, nil
}

// Memory keeps items in a map guarded by a RWMutex.
type Memory struct {
	mu sync.RWMutex
	m  map[int64]model.Item
}

func NewMemory() *Memory {
	return &Memory{m: make(map[int64]model.Item)}
}

func (s *Memory) Insert(_ context.Context, it model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[it.ID]; ok {
		return fmt.Errorf("insert item %d: %w", it.ID, ErrDuplicateID)
	}
	s.m[it.ID] = it.Clone()
	return nil
}

func (s *Memory) Lookup(_ context.Context, id int64) (model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.m[id]
	if !ok {
		return model.Item{}, ErrNotFound
	}
	return it.Clone(), nil
}

// Len reports the number of stored items.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
