package store

import (
	"context"
	"sync"
	"time"

	"github.com/orderlens/backend/internal/domain"
)

// storeItem is one record with its expiration.
type storeItem struct {
	Record     domain.ExtractedRecord
	Expiration time.Time
}

// MemoryStore is a thread-safe in-memory record store with TTL support. It
// stands in for the extension's browser storage when the backend runs
// without Redis.
type MemoryStore struct {
	data  map[string]storeItem
	mutex sync.RWMutex
}

// NewMemoryStore creates a new in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]storeItem),
	}
}

// Save stores a record under key with TTL. A zero TTL never expires.
func (s *MemoryStore) Save(ctx context.Context, key string, record *domain.ExtractedRecord, ttl time.Duration) error {
	if record == nil || key == "" {
		return domain.ErrInvalidInput
	}

	item := storeItem{Record: *record}
	if ttl > 0 {
		item.Expiration = time.Now().Add(ttl)
	}

	s.mutex.Lock()
	s.data[key] = item
	s.mutex.Unlock()
	return nil
}

// Get retrieves a record; absence is domain.ErrRecordNotFound.
func (s *MemoryStore) Get(ctx context.Context, key string) (*domain.ExtractedRecord, error) {
	s.mutex.RLock()
	item, exists := s.data[key]
	s.mutex.RUnlock()

	if !exists {
		return nil, domain.ErrRecordNotFound
	}
	if !item.Expiration.IsZero() && time.Now().After(item.Expiration) {
		return nil, domain.ErrRecordNotFound
	}

	record := item.Record
	return &record, nil
}

// Delete removes a record.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	delete(s.data, key)
	s.mutex.Unlock()
	return nil
}
