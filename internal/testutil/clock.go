package testutil

import (
	"sync"
	"time"
)

// FixedClock is a manually driven clock for tests.
//
// Now returns the same instant until Advance or Set moves it, so contact
// timestamps and file-name date stamps are reproducible.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock pinned at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

// Now returns the pinned time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set pins the clock at t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// DefaultTestTime is the instant used by tests that do not care about the
// exact date: 7 March 2024 09:30:00 UTC (date stamp "07032024").
var DefaultTestTime = time.Date(2024, time.March, 7, 9, 30, 0, 0, time.UTC)
