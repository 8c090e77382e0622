package conversation

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryStore is a Store backed by a process-local map. It is the default
// backend when no durable storage is configured and the fake used in tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	now     func() time.Time
}

// NewInMemoryStore creates a new in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]*Record),
		now:     time.Now,
	}
}

// Get returns a copy of the sender's record, or nil when absent.
func (s *InMemoryStore) Get(ctx context.Context, senderID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[senderID]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

// Upsert applies a partial-field update, creating the record if needed.
func (s *InMemoryStore) Upsert(ctx context.Context, senderID string, fields Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[senderID]
	if !ok {
		rec = &Record{SenderID: senderID}
		s.records[senderID] = rec
	}
	fields.apply(rec)
	rec.LastUpdated = s.now().UTC()
	return nil
}

// Delete removes the record if present.
func (s *InMemoryStore) Delete(ctx context.Context, senderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, senderID)
	return nil
}

// ListActive returns active records ordered by most recent activity.
func (s *InMemoryStore) ListActive(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].LastUpdated.After(records[j].LastUpdated)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
