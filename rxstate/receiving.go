package rxstate

import (
	"sync"
	"sync/atomic"

	"github.com/lumalink/lumalink/decode"
	"github.com/lumalink/lumalink/frame"
	"github.com/lumalink/lumalink/hal"
)

// Receiving is Leveling's twin with the amplitude estimators pre-seeded from
// the training window instead of starting from zero, and with decoded
// symbols actually emitted rather than discarded: every pair of 4-bit
// symbols packs into one output byte.
type Receiving struct {
	reg       *Register
	cs        EdgeSource
	chipTimer Timer
	clock     ClockReader
	adc       AnalogInput
	sink      Sink
	debug     DebugClock

	phaseDelayRatio    Ratio
	phaseAdvanceRatio  Ratio
	carrierLossPeriods hal.SystemTime

	period hal.SystemTime
	lastCS atomic.Uint64

	frameBuf frame.ChipFrame

	mu        sync.Mutex
	layer1    decode.AmplitudeEstimator
	layer2    decode.AmplitudeEstimator
	haveLow   bool
	lowNibble decode.Symbol
}

// NewReceiving builds the Receiving state, writing decoded bytes to sink.
// phaseDelayRatio/phaseAdvanceRatio/carrierLossPeriods mirror Leveling's.
func NewReceiving(reg *Register, cs EdgeSource, chipTimer Timer, clock ClockReader, adc AnalogInput, sink Sink, phaseDelayRatio, phaseAdvanceRatio Ratio, carrierLossPeriods hal.SystemTime) *Receiving {
	return &Receiving{
		reg: reg, cs: cs, chipTimer: chipTimer, clock: clock, adc: adc, sink: sink,
		phaseDelayRatio: phaseDelayRatio, phaseAdvanceRatio: phaseAdvanceRatio,
		carrierLossPeriods: carrierLossPeriods,
	}
}

// AttachDebugClock points the per-sample debug toggle at dc. Call before
// the state first becomes current; nil (the default) disables it.
func (r *Receiving) AttachDebugClock(dc DebugClock) {
	r.debug = dc
}

func (r *Receiving) ID() ID { return IDReceiving }

func (r *Receiving) Init(prev ID, ctx Context) {
	r.period = ctx.Period
	r.lastCS.Store(uint64(ctx.LastCSClock))
	r.frameBuf.Reset()

	r.mu.Lock()
	r.layer1 = decode.AmplitudeEstimator{Sum: int64(ctx.Intensities[0]) << 7, N: 32}
	r.layer2 = decode.AmplitudeEstimator{Sum: int64(ctx.Intensities[1]) << 7, N: 32}
	r.haveLow = false
	r.mu.Unlock()

	r.cs.Attach(r.onCarrierSense)
	r.chipTimer.SetPeriod(r.period)
	r.chipTimer.Attach(r.onSample)
	r.chipTimer.Restart()
}

func (r *Receiving) onCarrierSense() {
	r.lastCS.Store(uint64(r.clock.Now()))
}

func (r *Receiving) onSample() {
	v, _ := r.adc.Sense()
	r.frameBuf.Append(v)
	if r.debug != nil {
		r.debug.Toggle()
	}

	last := hal.SystemTime(r.lastCS.Load())
	now := r.clock.Now()
	diff := now - last

	if last > 0 && diff > r.carrierLossPeriods*r.period {
		r.reg.Set(IDWaiting)
		return
	}

	if diff > r.period {
		return
	}
	switch {
	case diff < r.period/4:
		r.armTrampoline(r.phaseDelayRatio.Of(r.period))
	case diff > 3*r.period/4:
		r.armTrampoline(r.phaseAdvanceRatio.Of(r.period))
	}
}

func (r *Receiving) armTrampoline(adjusted hal.SystemTime) {
	r.chipTimer.SetPeriod(adjusted)
	r.chipTimer.Attach(r.trampolineFire)
	r.chipTimer.Restart()
}

func (r *Receiving) trampolineFire() {
	r.chipTimer.SetPeriod(r.period)
	r.chipTimer.Attach(r.onSample)
	r.chipTimer.Restart()
	r.onSample()
}

func (r *Receiving) Main() {
	if !r.frameBuf.Ready() {
		return
	}
	samples := r.frameBuf.Take()

	r.mu.Lock()
	defer r.mu.Unlock()
	sym := decode.Decode(samples, &r.layer1, &r.layer2)
	if !r.haveLow {
		r.lowNibble = sym
		r.haveLow = true
		return
	}
	r.sink.WriteByte(decode.PackByte(r.lowNibble, sym))
	r.haveLow = false
}

func (r *Receiving) Exit(next ID) Context {
	r.chipTimer.Stop()
	r.chipTimer.Detach()
	r.cs.Detach()
	return Context{}
}
