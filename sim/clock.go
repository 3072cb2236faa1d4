// Package sim is a deterministic, event-driven stand-in for the receiver's
// hardware surface: a manually advanced system clock, a deadline-based chip
// timer, a carrier-sense edge line, and a piecewise-constant photodiode
// waveform. It generates a complete over-the-air burst and replays it
// against the receiver, with no hardware and no wall-clock time involved.
package sim

import (
	"sync"

	"github.com/lumalink/lumalink/hal"
)

// Clock is a simulated system clock. The World advances it to each event
// time in order; everything else only reads it.
type Clock struct {
	mu  sync.Mutex
	now hal.SystemTime
}

// NewClock returns a clock at time start.
func NewClock(start hal.SystemTime) *Clock {
	return &Clock{now: start}
}

// Now returns the current simulated time.
func (c *Clock) Now() hal.SystemTime {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) advanceTo(t hal.SystemTime) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t > c.now {
		c.now = t
	}
}
