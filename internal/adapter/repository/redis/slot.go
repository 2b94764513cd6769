package redis

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by this package.
const DefaultPrefix = "caixa:"

// Slot implements usecase.Slot as plain Redis strings.
type Slot struct {
	client *redis.Client
	prefix string
}

// NewSlot creates a new Slot.
func NewSlot(client *redis.Client) *Slot {
	return &Slot{
		client: client,
		prefix: DefaultPrefix,
	}
}

// Read returns the value stored under key.
func (s *Slot) Read(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Write stores value under key without expiry.
func (s *Slot) Write(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

// Ping checks the connection.
func (s *Slot) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// IsRetryable reports whether a Redis error is transient.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var redisErr redis.Error
	if errors.As(err, &redisErr) {
		msg := redisErr.Error()
		for _, prefix := range []string{"LOADING", "BUSY", "TRYAGAIN", "CLUSTERDOWN"} {
			if strings.HasPrefix(msg, prefix) {
				return true
			}
		}
	}

	return false
}
