// Package registry owns the item collection and hands out item identifiers.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fairyhunter13/item-registry-service/internal/model"
	"github.com/fairyhunter13/item-registry-service/internal/store"
)

// ErrNotFound is matched by every error Get returns for an unknown id.
var ErrNotFound = errors.New("item not found")

// NotFoundError reports the id that had no stored item.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("item %d not found", e.ID) }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Storage is where the registry keeps items once an id is assigned.
// Lookup must return store.ErrNotFound for absent ids.
type Storage interface {
	Insert(ctx context.Context, it model.Item) error
	Lookup(ctx context.Context, id int64) (model.Item, error)
}

// Stats is a point-in-time snapshot of registry counters.
type Stats struct {
	Created      uint64 `json:"items_created"`
	Lookups      uint64 `json:"lookups"`
	LookupMisses uint64 `json:"lookup_misses"`
	NextID       int64  `json:"next_id"`
}

// Registry assigns ids and records items in its Storage.
type Registry struct {
	mu      sync.Mutex
	seq     sequence
	storage Storage

	created atomic.Uint64
	lookups atomic.Uint64
	misses  atomic.Uint64
}

// New returns a registry whose first item gets id 1.
func New(st Storage) *Registry {
	return &Registry{seq: newSequence(), storage: st}
}

// Create assigns the next id to in and stores the resulting item.
// Taking the id and inserting happen under one lock, so concurrent callers
// observe distinct increasing ids. An id whose insert fails is not reused.
func (r *Registry) Create(ctx context.Context, in model.ItemInput) (model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.seq.take()
	it := model.NewItem(id, in)
	if err := r.storage.Insert(ctx, it); err != nil {
		return model.Item{}, fmt.Errorf("create item %d: %w", id, err)
	}
	r.created.Add(1)
	return it, nil
}

// Get returns the item stored under id.
func (r *Registry) Get(ctx context.Context, id int64) (model.Item, error) {
	r.lookups.Add(1)
	it, err := r.storage.Lookup(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.misses.Add(1)
			return model.Item{}, &NotFoundError{ID: id}
		}
		return model.Item{}, fmt.Errorf("get item %d: %w", id, err)
	}
	return it, nil
}

// Stats returns the current counters.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	next := r.seq.peek()
	r.mu.Unlock()
	return Stats{
		Created:      r.created.Load(),
		Lookups:      r.lookups.Load(),
		LookupMisses: r.misses.Load(),
		NextID:       next,
	}
}
