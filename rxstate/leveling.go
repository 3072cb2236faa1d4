package rxstate

import (
	"sync"
	"sync/atomic"

	"github.com/lumalink/lumalink/decode"
	"github.com/lumalink/lumalink/frame"
	"github.com/lumalink/lumalink/hal"
)

// levelMarker is the three-symbol sequence that ends the level-check
// training and hands off to Receiving.
var levelMarker = [3]decode.Symbol{0x0C, 0x08, 0x00}

// Leveling samples the chip-aligned carrier for one training window, running
// it through the SIC decoder purely to build up per-layer amplitude
// estimates (the decoded bits themselves are discarded until the
// level-check marker is seen). It also owns the phase-correction
// trampoline: every chip-timer tick compares how far the last carrier-sense
// edge fell inside the current slot and nudges the next tick toward center.
type Leveling struct {
	reg       *Register
	cs        EdgeSource
	chipTimer Timer
	clock     ClockReader
	adc       AnalogInput
	debug     DebugClock

	phaseDelayRatio    Ratio
	phaseAdvanceRatio  Ratio
	carrierLossPeriods hal.SystemTime

	period hal.SystemTime
	lastCS atomic.Uint64

	frameBuf frame.ChipFrame

	mu     sync.Mutex
	layer1 decode.AmplitudeEstimator
	layer2 decode.AmplitudeEstimator
	window [3]decode.Symbol
}

// NewLeveling builds the Leveling state. phaseDelayRatio/phaseAdvanceRatio
// scale the period into the phase-correction trampoline's adjusted
// intervals (11/8 and 5/8 by default); carrierLossPeriods is the number of
// periods of silence that declares the carrier lost (16 by default).
func NewLeveling(reg *Register, cs EdgeSource, chipTimer Timer, clock ClockReader, adc AnalogInput, phaseDelayRatio, phaseAdvanceRatio Ratio, carrierLossPeriods hal.SystemTime) *Leveling {
	return &Leveling{
		reg: reg, cs: cs, chipTimer: chipTimer, clock: clock, adc: adc,
		phaseDelayRatio: phaseDelayRatio, phaseAdvanceRatio: phaseAdvanceRatio,
		carrierLossPeriods: carrierLossPeriods,
	}
}

// AttachDebugClock points the per-sample debug toggle at dc. Call before
// the state first becomes current; nil (the default) disables it.
func (l *Leveling) AttachDebugClock(dc DebugClock) {
	l.debug = dc
}

func (l *Leveling) ID() ID { return IDLeveling }

func (l *Leveling) Init(prev ID, ctx Context) {
	l.period = ctx.Period
	l.lastCS.Store(uint64(ctx.LastCSClock))
	l.frameBuf.Reset()

	l.mu.Lock()
	l.layer1 = decode.AmplitudeEstimator{}
	l.layer2 = decode.AmplitudeEstimator{}
	l.window = [3]decode.Symbol{}
	l.mu.Unlock()

	l.cs.Attach(l.onCarrierSense)
	l.chipTimer.SetPeriod(l.period)
	l.chipTimer.Attach(l.onSample)
	l.chipTimer.Restart()
}

func (l *Leveling) onCarrierSense() {
	l.lastCS.Store(uint64(l.clock.Now()))
}

// onSample is the chip-timer ISR: sample, check for carrier loss, then
// correct phase for the next tick if this one landed far from slot center.
func (l *Leveling) onSample() {
	v, _ := l.adc.Sense()
	l.frameBuf.Append(v)
	if l.debug != nil {
		l.debug.Toggle()
	}

	last := hal.SystemTime(l.lastCS.Load())
	now := l.clock.Now()
	diff := now - last

	if last > 0 && diff > l.carrierLossPeriods*l.period {
		l.reg.Set(IDWaiting)
		return
	}

	if diff > l.period {
		return
	}
	switch {
	case diff < l.period/4:
		l.armTrampoline(l.phaseDelayRatio.Of(l.period))
	case diff > 3*l.period/4:
		l.armTrampoline(l.phaseAdvanceRatio.Of(l.period))
	}
}

// armTrampoline reprograms the chip timer to fire once more at adjusted.
// When that one-shot fires it restores the normal period and handler, then
// runs onSample itself.
func (l *Leveling) armTrampoline(adjusted hal.SystemTime) {
	l.chipTimer.SetPeriod(adjusted)
	l.chipTimer.Attach(l.trampolineFire)
	l.chipTimer.Restart()
}

func (l *Leveling) trampolineFire() {
	l.chipTimer.SetPeriod(l.period)
	l.chipTimer.Attach(l.onSample)
	l.chipTimer.Restart()
	l.onSample()
}

func (l *Leveling) Main() {
	if !l.frameBuf.Ready() {
		return
	}
	samples := l.frameBuf.Take()

	l.mu.Lock()
	defer l.mu.Unlock()
	sym := decode.Decode(samples, &l.layer1, &l.layer2)
	l.window[0], l.window[1], l.window[2] = l.window[1], l.window[2], sym
	if l.window == levelMarker {
		l.reg.Set(IDReceiving)
	}
}

func (l *Leveling) Exit(next ID) Context {
	l.chipTimer.Stop()
	l.chipTimer.Detach()
	l.cs.Detach()

	l.mu.Lock()
	defer l.mu.Unlock()
	return Context{
		Period:      l.period,
		Intensities: [2]int32{l.layer1.Magnitude(), l.layer2.Magnitude()},
	}
}
