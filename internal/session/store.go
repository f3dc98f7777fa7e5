package session

import (
	"context"
	"sync"
	"time"
)

// RecordStore persists resolved session records. A miss is (nil, nil); errors
// are reserved for backend failures. Malformed entries are treated as misses.
type RecordStore interface {
	Get(ctx context.Context, subjectID string) (*Record, error)
	Put(ctx context.Context, rec Record) error
	Delete(ctx context.Context, subjectID string) error
}

// MemoryStore is the short-lived primary tier: a mutex-guarded map with a per
// record TTL. It doubles as the store used in tests.
type MemoryStore struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]memoryEntry

	now func() time.Time
}

type memoryEntry struct {
	rec     Record
	expires time.Time
}

// NewMemoryStore returns a store whose records expire after ttl. A zero ttl
// keeps records until deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl: ttl,
		m:   make(map[string]memoryEntry),
		now: time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, subjectID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[subjectID]
	if !ok {
		return nil, nil
	}
	if !e.expires.IsZero() && s.now().After(e.expires) {
		delete(s.m, subjectID)
		return nil, nil
	}
	if !e.rec.Valid() {
		delete(s.m, subjectID)
		return nil, nil
	}
	rec := e.rec
	return &rec, nil
}

func (s *MemoryStore) Put(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expires time.Time
	if s.ttl > 0 {
		expires = s.now().Add(s.ttl)
	}
	s.m[rec.SubjectID] = memoryEntry{rec: rec, expires: expires}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, subjectID)
	return nil
}
