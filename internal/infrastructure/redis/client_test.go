package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientSuccess(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, fmt.Sprintf("redis://%s", s.Addr()), time.Second)
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if got := client.Options().ReadTimeout; got != time.Second {
		t.Fatalf("expected read timeout to be applied, got %s", got)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestNewClientKeepsURLTimeouts(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	client, err := NewClient(context.Background(), fmt.Sprintf("redis://%s?read_timeout=2s", s.Addr()), 0)
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if got := client.Options().ReadTimeout; got != 2*time.Second {
		t.Fatalf("expected URL read timeout, got %s", got)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "://bad-url", 0)
	if err == nil {
		t.Fatalf("expected error for invalid URL")
	}
}

func TestNewClientPingFailure(t *testing.T) {
	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close() // close before attempting to connect

	_, err := NewClient(context.Background(), url, 100*time.Millisecond)
	if err == nil {
		t.Fatalf("expected ping error when server is down")
	}
}
