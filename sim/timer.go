package sim

import (
	"sync"

	"github.com/lumalink/lumalink/hal"
)

// Timer is a deadline-based simulated chip timer. It exposes the same
// surface as hal.ChipTimer, but instead of counting wall-clock time it
// publishes its next deadline to the World, which advances the simulated
// clock there and fires it. Handlers may reprogram the timer from inside
// their own invocation, exactly as the phase-correction trampoline does on
// the real timer.
type Timer struct {
	clk *Clock

	mu       sync.Mutex
	period   hal.SystemTime
	handler  func()
	armed    bool
	deadline hal.SystemTime
	gen      uint64
}

// NewTimer returns a stopped timer bound to clk.
func NewTimer(clk *Clock) *Timer {
	return &Timer{clk: clk}
}

func (t *Timer) SetPeriod(period hal.SystemTime) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.period = period
}

func (t *Timer) Attach(handler func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = handler
}

func (t *Timer) Detach() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.armed = false
	t.handler = nil
}

func (t *Timer) Restart() {
	now := t.clk.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.armed = t.period > 0
	t.deadline = now + t.period
}

func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.armed = false
}

// Period returns the period last set via SetPeriod, for test assertions.
func (t *Timer) Period() hal.SystemTime {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.period
}

// next reports the pending deadline, if the timer is armed with a handler.
func (t *Timer) next() (hal.SystemTime, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deadline, t.armed && t.handler != nil
}

// fire runs the handler for the current deadline, then schedules the
// following one unless the handler restarted, stopped, or detached the
// timer itself.
func (t *Timer) fire() {
	t.mu.Lock()
	gen := t.gen
	h := t.handler
	if !t.armed || h == nil {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	h()

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen == t.gen && t.armed {
		t.deadline = t.clk.Now() + t.period
	}
}
