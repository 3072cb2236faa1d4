package rxstate

import (
	"sync"

	"github.com/lumalink/lumalink/hal"
)

// syncingBufLen is the number of carrier-sense edges collected before
// declaring the preamble locked.
const syncingBufLen = 64

// Syncing collects syncingBufLen carrier-sense edges to refine the chip
// period estimate Waiting produced, bailing out to Waiting if the edges stop
// arriving.
type Syncing struct {
	reg          *Register
	cs           EdgeSource
	timeout      Timer
	clock        ClockReader
	timeoutRatio Ratio

	mu     sync.Mutex
	clocks [syncingBufLen]hal.SystemTime
	tail   int
}

// NewSyncing builds the Syncing state. timeoutRatio scales the inbound
// period estimate into the preamble grace timeout (3/2 by default).
func NewSyncing(reg *Register, cs EdgeSource, timeout Timer, clock ClockReader, timeoutRatio Ratio) *Syncing {
	return &Syncing{reg: reg, cs: cs, timeout: timeout, clock: clock, timeoutRatio: timeoutRatio}
}

func (s *Syncing) ID() ID { return IDSyncing }

func (s *Syncing) Init(prev ID, ctx Context) {
	s.mu.Lock()
	s.tail = 0
	s.mu.Unlock()

	s.timeout.SetPeriod(s.timeoutRatio.Of(ctx.Period))
	s.timeout.Attach(s.onTimeout)
	// The timeout timer stays disarmed until the first edge arrives in this
	// state; onCarrierSense restarts it on every edge anyway.
	s.cs.Attach(s.onCarrierSense)
}

func (s *Syncing) onCarrierSense() {
	s.timeout.Restart()

	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tail >= syncingBufLen {
		return
	}
	s.clocks[s.tail] = now
	s.tail++
	if s.tail == syncingBufLen {
		s.reg.Set(IDSynced)
	}
}

func (s *Syncing) onTimeout() {
	s.timeout.Stop()
	s.reg.Set(IDWaiting)
}

func (s *Syncing) Main() {}

func (s *Syncing) Exit(next ID) Context {
	s.cs.Detach()
	s.timeout.Stop()
	s.timeout.Detach()

	if next == IDWaiting {
		return Context{}
	}

	s.mu.Lock()
	first, last := s.clocks[0], s.clocks[syncingBufLen-1]
	s.mu.Unlock()

	return Context{
		Period:      (last - first) / (syncingBufLen - 1),
		LastCSClock: last,
	}
}
