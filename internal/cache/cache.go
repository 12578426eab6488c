// Package cache holds the session-scoped response cache used for
// suggestions and daily facts.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Entry is a cached payload and the time it was written.
type Entry struct {
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// Decode unmarshals the payload into v.
func (e Entry) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode cache payload: %w", err)
	}
	return nil
}

// Store is a key-addressed cache owned by a single session. Expiry is lazy:
// entries are only judged stale when IsValid is asked.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, payload any) error
	IsValid(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Invalidate(ctx context.Context, key string) error
	InvalidateAll(ctx context.Context) error
}

// Clock returns the current time. Tests swap it to move time forward.
type Clock func() time.Time

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	now     Clock
}

func NewMemoryStore(now Clock) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		entries: make(map[string]Entry),
		now:     now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	return e, ok, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode cache payload: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = Entry{Payload: data, CreatedAt: m.now()}
	return nil
}

func (m *MemoryStore) IsValid(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return fresh(e, ttl, m.now()), nil
}

func (m *MemoryStore) Invalidate(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *MemoryStore) InvalidateAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]Entry)
	return nil
}

// Len reports how many entries are held.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func fresh(e Entry, ttl time.Duration, now time.Time) bool {
	return now.Sub(e.CreatedAt) < ttl
}
