package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iho/caixa/internal/usecase"
)

// Slot is a process-local usecase.Slot.
type Slot struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewSlot creates an empty Slot.
func NewSlot() *Slot {
	return &Slot{data: make(map[string][]byte)}
}

// Read returns a copy of the value stored under key.
func (s *Slot) Read(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Write stores a copy of value under key.
func (s *Slot) Write(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), value...)
	return nil
}

type idempotencyEntry struct {
	expiresAt time.Time
	value     []byte
}

// IdempotencyStore is a process-local usecase.IdempotencyStore.
type IdempotencyStore struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]idempotencyEntry
}

// NewIdempotencyStore creates an empty IdempotencyStore.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		now:     time.Now,
		entries: make(map[string]idempotencyEntry),
	}
}

// CheckAndSet atomically checks if key exists, sets if not.
func (s *IdempotencyStore) CheckAndSet(_ context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		return true, e.value, nil
	}

	value := response
	if value == nil {
		value = []byte(usecase.IdempotencyProcessing)
	}
	s.entries[key] = idempotencyEntry{value: value, expiresAt: now.Add(ttl)}
	s.evictExpired(now)

	return false, nil, nil
}

// Update replaces the stored value for key.
func (s *IdempotencyStore) Update(_ context.Context, key string, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = idempotencyEntry{value: response, expiresAt: s.now().Add(ttl)}
	return nil
}

// Delete forgets key.
func (s *IdempotencyStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

func (s *IdempotencyStore) evictExpired(now time.Time) {
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}
