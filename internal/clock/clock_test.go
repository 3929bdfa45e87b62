package clock

import (
	"testing"
	"time"
)

func TestFixedClock(t *testing.T) {
	start := time.Date(2025, 3, 10, 21, 30, 0, 0, time.UTC)
	c := NewFixed(start)

	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}

	c.AddDays(2)
	want := time.Date(2025, 3, 12, 21, 30, 0, 0, time.UTC)
	if got := c.Now(); !got.Equal(want) {
		t.Errorf("after AddDays(2) Now() = %v, want %v", got, want)
	}

	c.Advance(3 * time.Hour)
	want = want.Add(3 * time.Hour)
	if got := c.Now(); !got.Equal(want) {
		t.Errorf("after Advance Now() = %v, want %v", got, want)
	}
}

func TestSystemClockLocation(t *testing.T) {
	loc := time.FixedZone("test", 5*3600)
	c := System(loc)
	if got := c.Now().Location(); got != loc {
		t.Errorf("Now().Location() = %v, want %v", got, loc)
	}
}
