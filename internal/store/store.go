// Package store maps resource keys to non-owning observers of live
// asset instances.
package store

import "weak"

// Store is the key table for one resource type. It holds weak
// references only and never extends an instance's lifetime: an entry
// whose instance has been collected is "stale" and is pruned lazily on
// lookup or explicitly via GC.
//
// Store is not self-locking; the owning cache serializes access.
type Store[T any] struct {
	refs map[string]weak.Pointer[T]
}

// New creates an empty Store.
func New[T any]() *Store[T] {
	return &Store[T]{refs: make(map[string]weak.Pointer[T])}
}

// Get upgrades the observer for key to an owning pointer. A stale entry
// is pruned and reported as a miss.
func (s *Store[T]) Get(key string) (*T, bool) {
	ref, ok := s.refs[key]
	if !ok {
		return nil, false
	}
	if p := ref.Value(); p != nil {
		return p, true
	}
	delete(s.refs, key)
	return nil, false
}

// Insert records an observer for instance. It does not affect the
// instance's lifetime.
func (s *Store[T]) Insert(key string, instance *T) {
	s.refs[key] = weak.Make(instance)
}

// Contains reports whether key maps to a live instance. Unlike Get it
// never prunes.
func (s *Store[T]) Contains(key string) bool {
	ref, ok := s.refs[key]
	return ok && ref.Value() != nil
}

// Remove drops the bookkeeping for key.
func (s *Store[T]) Remove(key string) {
	delete(s.refs, key)
}

// GC removes every stale entry, calling onRemove for each pruned key,
// and returns how many were removed.
func (s *Store[T]) GC(onRemove func(key string)) int {
	removed := 0
	for key, ref := range s.refs {
		if ref.Value() == nil {
			delete(s.refs, key)
			if onRemove != nil {
				onRemove(key)
			}
			removed++
		}
	}
	return removed
}

// Alive counts entries whose instance is still live.
func (s *Store[T]) Alive() int {
	n := 0
	for _, ref := range s.refs {
		if ref.Value() != nil {
			n++
		}
	}
	return n
}

// ForEachAlive calls f for every live (key, instance) pair.
func (s *Store[T]) ForEachAlive(f func(key string, instance *T)) {
	for key, ref := range s.refs {
		if p := ref.Value(); p != nil {
			f(key, p)
		}
	}
}

// Clear drops all bookkeeping immediately. Instances owned elsewhere
// are untouched.
func (s *Store[T]) Clear() {
	clear(s.refs)
}

// Len returns the number of tracked entries, stale included.
func (s *Store[T]) Len() int { return len(s.refs) }
