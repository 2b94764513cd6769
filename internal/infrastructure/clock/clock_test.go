package clock

import (
	"testing"
	"time"
)

func TestSystemClockUsesLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	c := NewSystemClock(loc)

	if got := c.Now().Location(); got != loc {
		t.Fatalf("expected location %s, got %s", loc, got)
	}
	if NewSystemClock(nil).Location() != time.Local {
		t.Fatal("expected nil location to default to time.Local")
	}
}

func TestTimestampIDGeneratorUsesMilliseconds(t *testing.T) {
	g := NewTimestampIDGenerator()
	at := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	if got, want := g.Generate(at), at.UnixMilli(); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestTimestampIDGeneratorNeverRepeats(t *testing.T) {
	g := NewTimestampIDGenerator()
	at := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	first := g.Generate(at)
	second := g.Generate(at)
	third := g.Generate(at.Add(-time.Hour))

	if second != first+1 || third != second+1 {
		t.Fatalf("expected consecutive ids, got %d %d %d", first, second, third)
	}
}

func TestTimestampIDGeneratorSeed(t *testing.T) {
	g := NewTimestampIDGenerator()
	at := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	g.Seed(at.UnixMilli() + 500)
	if got := g.Generate(at); got != at.UnixMilli()+501 {
		t.Fatalf("expected id after seed, got %d", got)
	}

	g.Seed(1)
	if got := g.Generate(at); got != at.UnixMilli()+502 {
		t.Fatalf("lower seed must not move the generator back, got %d", got)
	}
}
