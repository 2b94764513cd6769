package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/iho/caixa/internal/domain"
)

// FakeSlot is an in-memory Slot whose behaviour can be overridden per call.
type FakeSlot struct {
	mu   sync.RWMutex
	data map[string][]byte

	ReadFunc  func(ctx context.Context, key string) ([]byte, bool, error)
	WriteFunc func(ctx context.Context, key string, value []byte) error
	Writes    int
}

func NewFakeSlot() *FakeSlot {
	return &FakeSlot{
		data: make(map[string][]byte),
	}
}

func (f *FakeSlot) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if f.ReadFunc != nil {
		return f.ReadFunc(ctx, key)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	value, ok := f.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (f *FakeSlot) Write(ctx context.Context, key string, value []byte) error {
	if f.WriteFunc != nil {
		return f.WriteFunc(ctx, key, value)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Writes++
	f.data[key] = append([]byte(nil), value...)
	return nil
}

// Get returns the raw value under key.
func (f *FakeSlot) Get(key string) ([]byte, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	value, ok := f.data[key]
	return value, ok
}

// Set seeds the raw value under key.
func (f *FakeSlot) Set(key string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

// FakeClock is a settable Clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// FakeIDGenerator returns consecutive IDs starting at 1.
type FakeIDGenerator struct {
	GenerateFunc func(at time.Time) int64
	counter      int64
	mu           sync.Mutex
}

func NewFakeIDGenerator() *FakeIDGenerator {
	return &FakeIDGenerator{}
}

func (g *FakeIDGenerator) Generate(at time.Time) int64 {
	if g.GenerateFunc != nil {
		return g.GenerateFunc(at)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return g.counter
}

// FakePublisher records published events.
type FakePublisher struct {
	mu     sync.Mutex
	events []*domain.Event

	PublishFunc func(ctx context.Context, event *domain.Event) error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (p *FakePublisher) Publish(ctx context.Context, event *domain.Event) error {
	if p.PublishFunc != nil {
		return p.PublishFunc(ctx, event)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Types returns the types of the recorded events in publication order.
func (p *FakePublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}
