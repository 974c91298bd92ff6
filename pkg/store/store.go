package store

import (
	"sync"
	"time"
)

// Record is the shape shared by all record kinds held in a Store.
type Record interface {
	RecordID() int
	FilterKind() string
	FilterStatus() string
	SearchText() string
}

// Store is an in-memory, wholesale-replaced cache of the backend's last
// returned record sequence. It is never diffed: every successful load replaces
// the whole snapshot in server order. There is no generation counter — when
// loads overlap, the last Replace to run wins.
type Store[T Record] struct {
	mu          sync.RWMutex
	records     []T
	refreshedAt time.Time
	now         func() time.Time
}

// New creates an empty store. now is injected so tests can control the
// refresh timestamps; nil falls back to time.Now.
func New[T Record](now func() time.Time) *Store[T] {
	if now == nil {
		now = time.Now
	}
	return &Store[T]{now: now}
}

// Replace swaps in a new snapshot, stamped with the current clock.
func (s *Store[T]) Replace(records []T) {
	s.ReplaceAt(records, s.now())
}

// ReplaceAt swaps in a snapshot taken at a known time. Used by the cluster
// replicator so a gossiped snapshot keeps its origin timestamp.
func (s *Store[T]) ReplaceAt(records []T, at time.Time) {
	snapshot := make([]T, len(records))
	copy(snapshot, records)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = snapshot
	s.refreshedAt = at
}

// Snapshot returns a copy of the current record sequence in server order.
func (s *Store[T]) Snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with the given id.
func (s *Store[T]) Get(id int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.RecordID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Patch applies a narrow optimistic mutation to the single record with the
// given id. Everything else in the snapshot is untouched.
func (s *Store[T]) Patch(id int, apply func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].RecordID() == id {
			apply(&s.records[i])
			return true
		}
	}
	return false
}

// Remove drops the record with the given id, preserving the order of the
// remaining records.
func (s *Store[T]) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].RecordID() == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of records in the current snapshot.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// RefreshedAt returns the timestamp of the snapshot currently owning the
// store.
func (s *Store[T]) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}
