package store

import (
	"sort"
	"sync"
)

// MemoryStore is a generic in-memory table of *T mapped by a comparable key K.
// The key is obtained from the supplied keySelector function.
// Locking only guards the table itself, values carry their own synchronisation.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keySelector func(*T) K
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K) *MemoryStore[K, T] {
	return &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
	}
}

// Put stores or overwrites a record.
func (s *MemoryStore[K, T]) Put(v *T) {
	if v == nil {
		return
	}
	key := s.keySelector(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = v
}

// PutIfAbsent stores v unless the key is taken; it returns the stored value
// and whether v was stored.
func (s *MemoryStore[K, T]) PutIfAbsent(v *T) (*T, bool) {
	key := s.keySelector(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.records[key]; ok {
		return prev, false
	}
	s.records[key] = v
	return v, true
}

// Get returns a record by key.
func (s *MemoryStore[K, T]) Get(key K) (*T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	return v, ok
}

// Delete removes the record by key if it is still v.
func (s *MemoryStore[K, T]) Delete(key K, v *T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.records[key]; !ok || current != v {
		return false
	}
	delete(s.records, key)
	return true
}

// Len returns number of records
func (s *MemoryStore[K, T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// List returns all stored records ordered by less.
func (s *MemoryStore[K, T]) List(less func(a, b K) bool) []*T {
	s.mu.RLock()
	keys := make([]K, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	out := make([]*T, 0, len(keys))
	if less != nil {
		sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	}
	for _, k := range keys {
		out = append(out, s.records[k])
	}
	s.mu.RUnlock()
	return out
}
