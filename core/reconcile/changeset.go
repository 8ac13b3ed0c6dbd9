package reconcile

import "sort"

// ChangeSet maps the remote identity of one entity kind to its in-pass entry.
// A ChangeSet lives for exactly one pass and is not safe for concurrent use.
type ChangeSet[K comparable] struct {
	entries   map[K]*Entry
	preloaded map[K]struct{}
}

// NewChangeSet returns an empty ChangeSet.
func NewChangeSet[K comparable]() *ChangeSet[K] {
	return &ChangeSet[K]{
		entries:   make(map[K]*Entry),
		preloaded: make(map[K]struct{}),
	}
}

// Preload registers a row that exists in the local store before the pass.
func (c *ChangeSet[K]) Preload(key K, id int64, sum uint32) {
	c.entries[key] = &Entry{ID: id, Checksum: sum, State: Unseen}
	c.preloaded[key] = struct{}{}
}

// Lookup returns the entry for key regardless of its state.
func (c *ChangeSet[K]) Lookup(key K) (Entry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Touched returns the entry for key only if it was touched in this pass.
func (c *ChangeSet[K]) Touched(key K) (Entry, bool) {
	e, ok := c.entries[key]
	if !ok || e.State != Touched {
		return Entry{}, false
	}
	return *e, true
}

// IsTouched reports whether key was touched in this pass.
func (c *ChangeSet[K]) IsTouched(key K) bool {
	_, ok := c.Touched(key)
	return ok
}

// Touch marks key as present in the remote source, recording the local id
// and checksum the row carries after this pass. written reports whether the
// touch inserted or updated the row. Touching an entry twice keeps the
// written flag of the first write.
func (c *ChangeSet[K]) Touch(key K, id int64, sum uint32, written bool) {
	if e, ok := c.entries[key]; ok && e.State == Touched {
		e.ID = id
		e.Checksum = sum
		e.Written = e.Written || written
		return
	}
	c.entries[key] = &Entry{ID: id, Checksum: sum, State: Touched, Written: written}
}

// Written returns the sorted local ids of entries inserted or updated in this
// pass.
func (c *ChangeSet[K]) Written() []int64 {
	return c.collect(func(e *Entry) bool { return e.State == Touched && e.Written })
}

// TouchedIDs returns the sorted local ids of every touched entry.
func (c *ChangeSet[K]) TouchedIDs() []int64 {
	return c.collect(func(e *Entry) bool { return e.State == Touched })
}

// Untouched returns the sorted local ids of entries never touched in this pass.
func (c *ChangeSet[K]) Untouched() []int64 {
	return c.collect(func(e *Entry) bool { return e.State == Unseen })
}

// Summary returns aggregate counts for the set.
func (c *ChangeSet[K]) Summary() Summary {
	s := Summary{Total: len(c.entries)}
	for key, e := range c.entries {
		switch {
		case e.State == Unseen:
			s.Removed++
		case !e.Written:
			s.Unchanged++
		default:
			if _, ok := c.preloaded[key]; ok {
				s.Updated++
			} else {
				s.Inserted++
			}
		}
	}
	return s
}

func (c *ChangeSet[K]) collect(match func(*Entry) bool) []int64 {
	ids := make([]int64, 0)
	for _, e := range c.entries {
		if match(e) {
			ids = append(ids, e.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
