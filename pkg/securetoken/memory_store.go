package securetoken

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with in-process storage. Suitable for tests
// and single-instance deployments.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
	}
}

func storeKey(kind Kind, digest string) string {
	return string(kind) + ":" + digest
}

func (m *MemoryStore) Save(ctx context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	recCopy := rec
	m.records[storeKey(rec.Kind, rec.Digest)] = &recCopy
	return nil
}

func (m *MemoryStore) Find(ctx context.Context, kind Kind, digest string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[storeKey(kind, digest)]
	if !ok {
		return Record{}, ErrTokenNotFound
	}
	return *rec, nil
}

func (m *MemoryStore) Consume(ctx context.Context, kind Kind, digest string, at time.Time) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[storeKey(kind, digest)]
	if !ok {
		return Record{}, ErrTokenNotFound
	}
	if !at.Before(rec.ExpiresAt) {
		return Record{}, ErrTokenExpired
	}
	if rec.ConsumedAt != nil {
		return Record{}, ErrTokenAlreadyUsed
	}

	consumedAt := at
	rec.ConsumedAt = &consumedAt
	return *rec, nil
}

// PurgeExpired drops records past their expiry plus the given retention.
// Retention keeps recently expired records around so validation can still
// distinguish "expired" from "never existed".
func (m *MemoryStore) PurgeExpired(ctx context.Context, retention time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-retention)
	for key, rec := range m.records {
		if rec.ExpiresAt.Before(cutoff) {
			delete(m.records, key)
		}
	}
}
