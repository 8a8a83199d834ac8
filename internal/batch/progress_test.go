// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"testing"
	"time"
)

// fakeClock pins timeNow to a settable instant.
func fakeClock(t *testing.T, start time.Time) *time.Time {
	t.Helper()
	now := start
	old := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = old })
	return &now
}

func TestProgressETA(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := fakeClock(t, base)

	p := NewProgress(4)

	// No completions yet: nothing to project from.
	if got := p.ETA(); got != "00:00" {
		t.Errorf("ETA before first completion = %q, want %q", got, "00:00")
	}

	// One call done in 10s: three left at 10s each.
	*now = base.Add(10 * time.Second)
	p.Advance()
	if got := p.ETA(); got != "00:30" {
		t.Errorf("ETA after 1/4 = %q, want %q", got, "00:30")
	}

	// Two done in 20s: the average holds at 10s.
	*now = base.Add(20 * time.Second)
	p.Advance()
	if got := p.ETA(); got != "00:20" {
		t.Errorf("ETA after 2/4 = %q, want %q", got, "00:20")
	}

	// All done.
	*now = base.Add(40 * time.Second)
	p.Advance()
	p.Advance()
	if got := p.ETA(); got != "00:00" {
		t.Errorf("ETA after 4/4 = %q, want %q", got, "00:00")
	}
}

func TestProgressETAOverAMinute(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := fakeClock(t, base)

	p := NewProgress(10)
	*now = base.Add(45 * time.Second)
	p.Advance()

	// Nine left at 45s each is 405s.
	if got := p.ETA(); got != "06:45" {
		t.Errorf("ETA = %q, want %q", got, "06:45")
	}
}

func TestProgressElapsed(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := fakeClock(t, base)

	p := NewProgress(2)
	*now = base.Add(90 * time.Second)
	if got := p.Elapsed(); got != 90*time.Second {
		t.Errorf("Elapsed = %v, want %v", got, 90*time.Second)
	}
}

func TestProgressRemainingUnevenAverage(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := fakeClock(t, base)

	p := NewProgress(3)
	*now = base.Add(9 * time.Second)
	p.Advance()
	p.Advance()

	// Two done in 9s averages 4.5s, one left.
	if got := p.Remaining(); got != 4500*time.Millisecond {
		t.Errorf("Remaining = %v, want %v", got, 4500*time.Millisecond)
	}
}
