package store

import (
	"context"
	"slices"
	"sync"
	"time"
)

type entryKey struct {
	recordID int64
	unix     int64
}

// MemoryStore keeps entries in a map.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[entryKey]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[entryKey]Entry)}
}

func keyOf(recordID int64, t time.Time) entryKey {
	return entryKey{recordID: recordID, unix: t.Unix()}
}

func (s *MemoryStore) Save(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := keyOf(e.RecordID, e.GeneratedAt)
	if _, ok := s.entries[k]; ok {
		return ErrExists
	}
	e.Degraded = slices.Clone(e.Degraded)
	s.entries[k] = e
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, recordID int64, generatedAt time.Time) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[keyOf(recordID, generatedAt)]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (s *MemoryStore) List(ctx context.Context, recordID int64) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	for k, e := range s.entries {
		if k.recordID == recordID {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b Entry) int {
		return b.GeneratedAt.Compare(a.GeneratedAt)
	})
	return out, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
