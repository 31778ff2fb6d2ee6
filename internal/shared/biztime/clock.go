package biztime

import (
	"sync"
	"time"
)

// Clock supplies the current instant. Everything that asks "what day is it"
// takes a Clock so tests can pin the date.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

type systemClock struct{}

// SystemClock reads the wall clock.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return NowUTC()
}

func (systemClock) Today() time.Time {
	return DateOf(NowUTC())
}

// FixedClock is a settable clock for tests and tooling.
type FixedClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFixedClock returns a clock stopped at now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now.UTC()}
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *FixedClock) Today() time.Time {
	return DateOf(c.Now())
}

// Set moves the clock to now.
func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now.UTC()
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
