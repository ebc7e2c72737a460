package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseIntervalDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"5m":  5 * time.Minute,
		"15m": 15 * time.Minute,
		"1h":  time.Hour,
		"4H":  4 * time.Hour,
		"1d":  24 * time.Hour,
		"1w":  7 * 24 * time.Hour,
	}
	for in, want := range cases {
		got, ok := ParseIntervalDuration(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "m", "0m", "-5m", "5x", "abc"} {
		_, ok := ParseIntervalDuration(in)
		assert.False(t, ok, in)
	}
}

func TestUntilNextWakeAligned(t *testing.T) {
	l := NewLoop("test", 5*time.Minute, 3*time.Second)
	now := time.Date(2025, 6, 1, 12, 2, 30, 0, time.UTC)
	// Next close is 12:05:00, plus 3s offset.
	assert.Equal(t, 2*time.Minute+33*time.Second, l.untilNextWake(now))
}

func TestUntilNextWakeNeverNonPositive(t *testing.T) {
	l := NewLoop("test", time.Minute, 0)
	now := time.Date(2025, 6, 1, 12, 2, 0, 0, time.UTC) // exactly on a boundary
	wait := l.untilNextWake(now)
	assert.Greater(t, wait, time.Duration(0))
}
