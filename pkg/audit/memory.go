package audit

import (
	"context"
	"sync"
	"time"
)

// DefaultMemoryCapacity bounds the in-memory backend.
const DefaultMemoryCapacity = 10000

// MemoryStorage keeps records in memory, newest last. Once the capacity is
// reached the oldest records are discarded; the zero value is unbounded.
// Intended for tests and deployments that do not need a durable audit trail.
type MemoryStorage struct {
	mu       sync.RWMutex
	records  []*Record
	capacity int
}

// NewMemoryStorage creates an in-memory backend. A non-positive capacity
// uses DefaultMemoryCapacity.
func NewMemoryStorage(capacity int) *MemoryStorage {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStorage{capacity: capacity}
}

// Store implements Storage.
func (m *MemoryStorage) Store(ctx context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, rec)
	if m.capacity > 0 && len(m.records) > m.capacity {
		m.records = m.records[len(m.records)-m.capacity:]
	}
	return nil
}

// Count implements Storage.
func (m *MemoryStorage) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.records)), nil
}

// List implements Storage.
func (m *MemoryStorage) List(ctx context.Context, limit int) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*Record, 0, n)
	for i := len(m.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

// DeleteOlderThan implements Storage.
func (m *MemoryStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0]
	var deleted int64
	for _, rec := range m.records {
		if rec.RecordedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	m.records = kept
	return deleted, nil
}

// Close implements Storage.
func (m *MemoryStorage) Close() error { return nil }
