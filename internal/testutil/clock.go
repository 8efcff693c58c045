package testutil

import (
	"sync"
	"time"
)

// Clock is a controllable time source for tests. Its Now method can be
// injected anywhere a `func() time.Time` is accepted.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a Clock pinned to t.
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the clock's current time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
