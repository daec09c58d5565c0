package state

import (
	"fmt"
	"sort"
	"sync"
)

// RecordState is the downtime accumulated in one (match day, work center) bucket.
type RecordState struct {
	SumMinutes float64
	Events     int64
	LastSeq    int64
}

// Store abstracts the bucket backend.
// seq is the source row number of the contribution; a contribution whose seq
// is not above the bucket's LastSeq was already applied and is skipped.
type Store interface {
	Apply(key string, deltaMinutes float64, seq int64) (applied bool, newState RecordState, err error)
	Get(key string) (RecordState, bool)
	Range(fn func(key string, st RecordState) error) error
}

// InMemoryStore is a simple thread-safe map store.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]RecordState
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string]RecordState)}
}

func (s *InMemoryStore) Apply(key string, deltaMinutes float64, seq int64) (bool, RecordState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.data[key]
	if seq <= st.LastSeq {
		return false, st, nil
	}
	st.SumMinutes += deltaMinutes
	st.Events++
	st.LastSeq = seq
	s.data[key] = st
	return true, st, nil
}

func (s *InMemoryStore) Get(key string) (RecordState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.data[key]
	return st, ok
}

// Range visits keys in ascending order so both backends iterate alike.
func (s *InMemoryStore) Range(fn func(key string, st RecordState) error) error {
	s.mu.RLock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	snap := make(map[string]RecordState, len(s.data))
	for k, v := range s.data {
		snap[k] = v
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn(k, snap[k]); err != nil {
			return fmt.Errorf("range callback failed: %w", err)
		}
	}
	return nil
}
