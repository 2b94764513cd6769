package clock

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock creates a SystemClock. A nil location selects time.Local.
func NewSystemClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return &SystemClock{loc: loc}
}

// Now returns the current instant in the clock's location.
func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location returns the clock's location.
func (c *SystemClock) Location() *time.Location {
	return c.loc
}

// TimestampIDGenerator derives IDs from the creation instant in Unix
// milliseconds, the way ULIDs encode their time component. IDs never
// decrease; two calls in the same millisecond get consecutive values.
type TimestampIDGenerator struct {
	mu   sync.Mutex
	last int64
}

// NewTimestampIDGenerator creates a new TimestampIDGenerator.
func NewTimestampIDGenerator() *TimestampIDGenerator {
	return &TimestampIDGenerator{}
}

// Seed makes subsequent IDs greater than id.
func (g *TimestampIDGenerator) Seed(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}

// Generate returns the ID for a transaction created at at.
func (g *TimestampIDGenerator) Generate(at time.Time) int64 {
	ms := int64(ulid.Timestamp(at))

	g.mu.Lock()
	defer g.mu.Unlock()

	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms

	return ms
}
