package usecase

import (
	"context"
	"time"

	"github.com/iho/caixa/internal/domain"
)

// Slot is a single string-keyed durable value holding the whole persisted document.
type Slot interface {
	// Read returns the stored value and whether the key exists.
	Read(ctx context.Context, key string) ([]byte, bool, error)
	Write(ctx context.Context, key string, value []byte) error
}

// Pinger is implemented by slots backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Clock supplies the reference instant.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates transaction IDs from the creation instant.
type IDGenerator interface {
	Generate(at time.Time) int64
}

// Retrier retries an operation that failed with a transient error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// Recorder records cashbook metrics.
type Recorder interface {
	TransactionAdded(t domain.TransactionType)
	StateSaved(duration time.Duration, err error)
	StateLoaded(count int, corrupt bool)
	Imported(count int, err error)
	Reset()
	StoreSize(count int)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Delete releases key so the request can be retried.
	Delete(ctx context.Context, key string) error
}

type noRetry struct{}

func (noRetry) Retry(_ context.Context, operation func() error) error {
	return operation()
}

type nopRecorder struct{}

func (nopRecorder) TransactionAdded(domain.TransactionType) {}
func (nopRecorder) StateSaved(time.Duration, error)         {}
func (nopRecorder) StateLoaded(int, bool)                   {}
func (nopRecorder) Imported(int, error)                     {}
func (nopRecorder) Reset()                                  {}
func (nopRecorder) StoreSize(int)                           {}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, *domain.Event) error { return nil }
