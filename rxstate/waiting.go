package rxstate

import (
	"sync/atomic"

	"github.com/lumalink/lumalink/hal"
)

// Waiting is the idle state: it watches the carrier-sense line for the
// first two edges of a preamble and estimates the chip period from their
// spacing.
type Waiting struct {
	reg            *Register
	cs             EdgeSource
	noiseTimer     Timer
	clock          ClockReader
	noiseTimeoutUs hal.SystemTime

	// hasFirstEdge distinguishes "no edge yet" from a recorded timestamp,
	// instead of reserving a sentinel timestamp value.
	hasFirstEdge atomic.Bool
	lastCSClock  atomic.Uint64
	exitCSClock  atomic.Uint64
}

// NewWaiting builds the Waiting state over the given carrier-sense edge
// source, a timer for the spurious-noise timeout (typically one second),
// and a clock reader.
func NewWaiting(reg *Register, cs EdgeSource, noiseTimer Timer, clock ClockReader, noiseTimeoutUs hal.SystemTime) *Waiting {
	return &Waiting{reg: reg, cs: cs, noiseTimer: noiseTimer, clock: clock, noiseTimeoutUs: noiseTimeoutUs}
}

func (w *Waiting) ID() ID { return IDWaiting }

func (w *Waiting) Init(prev ID, ctx Context) {
	w.hasFirstEdge.Store(false)
	w.noiseTimer.SetPeriod(w.noiseTimeoutUs)
	w.noiseTimer.Attach(w.onNoiseTimeout)
	w.cs.Attach(w.onCarrierSense)
}

func (w *Waiting) onCarrierSense() {
	if !w.hasFirstEdge.Load() {
		w.lastCSClock.Store(uint64(w.clock.Now()))
		w.hasFirstEdge.Store(true)
		w.noiseTimer.Restart()
		return
	}
	w.exitCSClock.Store(uint64(w.clock.Now()))
	w.reg.Set(IDSyncing)
}

func (w *Waiting) onNoiseTimeout() {
	w.hasFirstEdge.Store(false)
	w.noiseTimer.Stop()
}

func (w *Waiting) Main() {}

func (w *Waiting) Exit(next ID) Context {
	w.cs.Detach()
	w.noiseTimer.Stop()
	w.noiseTimer.Detach()

	exit := hal.SystemTime(w.exitCSClock.Load())
	last := hal.SystemTime(w.lastCSClock.Load())
	return Context{
		Period:      exit - last,
		LastCSClock: exit,
	}
}
