package rxstate

import (
	"sync/atomic"

	"github.com/lumalink/lumalink/hal"
)

// Synced watches for the carrier to go quiet: every observed carrier-sense
// edge pushes the end-of-carrier grace timer back out, and once an interval
// longer than the estimated chip period passes without one, the preamble is
// over and Leveling begins.
type Synced struct {
	reg               *Register
	cs                EdgeSource
	timeout           Timer
	clock             ClockReader
	endOfCarrierRatio Ratio

	period hal.SystemTime
	lastCS atomic.Uint64
}

// NewSynced builds the Synced state. endOfCarrierRatio scales the period
// into the end-of-carrier grace timeout (9/8 by default).
func NewSynced(reg *Register, cs EdgeSource, timeout Timer, clock ClockReader, endOfCarrierRatio Ratio) *Synced {
	return &Synced{reg: reg, cs: cs, timeout: timeout, clock: clock, endOfCarrierRatio: endOfCarrierRatio}
}

func (s *Synced) ID() ID { return IDSynced }

func (s *Synced) Init(prev ID, ctx Context) {
	s.period = ctx.Period
	s.lastCS.Store(uint64(ctx.LastCSClock))

	s.timeout.SetPeriod(s.endOfCarrierRatio.Of(ctx.Period))
	s.timeout.Attach(s.onEndOfCarrier)
	s.timeout.Restart()
	s.cs.Attach(s.onCarrierSense)
}

func (s *Synced) onCarrierSense() {
	s.lastCS.Store(uint64(s.clock.Now()))
	s.timeout.Restart()
}

func (s *Synced) onEndOfCarrier() {
	last := hal.SystemTime(s.lastCS.Load())
	if s.clock.Now()-last > s.period {
		s.reg.Set(IDLeveling)
	}
}

func (s *Synced) Main() {}

func (s *Synced) Exit(next ID) Context {
	s.cs.Detach()
	s.timeout.Stop()
	s.timeout.Detach()

	return Context{
		Period:      s.period,
		LastCSClock: hal.SystemTime(s.lastCS.Load()) + s.period,
	}
}
