package library

import (
	"context"
	"slices"
	"sync"
)

// Collection is a live set of rows addressed by local id.
type Collection interface {
	// UpdateIDs reloads the rows with the given ids from the store. Ids that
	// no longer exist in the store are retracted.
	UpdateIDs(ctx context.Context, ids []int64) error
	// RemoveIDs retracts the rows with the given ids.
	RemoveIDs(ids []int64)
	// IDs returns the ids currently held, sorted.
	IDs() []int64
}

// rows is the generic Collection implementation.
type rows[T any] struct {
	mu   sync.RWMutex
	data map[int64]T
	load func(ctx context.Context, ids []int64) ([]T, error)
	id   func(T) int64
}

func newRows[T any](load func(context.Context, []int64) ([]T, error), id func(T) int64) *rows[T] {
	return &rows[T]{data: make(map[int64]T), load: load, id: id}
}

func (r *rows[T]) UpdateIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	loaded, err := r.load(ctx, ids)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.data, id)
	}
	for _, row := range loaded {
		r.data[r.id(row)] = row
	}
	return nil
}

func (r *rows[T]) RemoveIDs(ids []int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.data, id)
	}
}

func (r *rows[T]) IDs() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0, len(r.data))
	for id := range r.data {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Get returns the row with id.
func (r *rows[T]) Get(id int64) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.data[id]
	return row, ok
}

// All returns a snapshot of all rows ordered by id.
func (r *rows[T]) All() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(r.data))
	for _, row := range r.data {
		out = append(out, row)
	}
	slices.SortFunc(out, func(a, b T) int {
		ai, bi := r.id(a), r.id(b)
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	})
	return out
}

// replace swaps the whole content, used by the bootstrap load.
func (r *rows[T]) replace(all []T) {
	data := make(map[int64]T, len(all))
	for _, row := range all {
		data[r.id(row)] = row
	}
	r.mu.Lock()
	r.data = data
	r.mu.Unlock()
}
