package testutil

import (
	"sync"
	"time"
)

// Epoch is the first time returned by a new DeterministicClock.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// DeterministicClock is a fake wall clock for tests. Each call to Now
// returns the previous time plus a fixed step, so statement timestamps are
// reproducible across runs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu   sync.Mutex
	step time.Duration
	now  time.Time
}

// NewDeterministicClock creates a clock whose first Now() is Epoch and
// which advances by one second per call.
func NewDeterministicClock() *DeterministicClock {
	return NewDeterministicClockWithStep(time.Second)
}

// NewDeterministicClockWithStep is like NewDeterministicClock with a custom
// step. A zero step freezes the clock at Epoch.
func NewDeterministicClockWithStep(step time.Duration) *DeterministicClock {
	return &DeterministicClock{step: step, now: Epoch.Add(-step)}
}

// Now advances the clock by one step and returns the new time.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

// Current returns the last time handed out without advancing.
// Before the first Now() it is one step before Epoch.
func (c *DeterministicClock) Current() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Reset rewinds the clock. After Reset, the next Now() returns Epoch.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = Epoch.Add(-c.step)
}
