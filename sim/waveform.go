package sim

import (
	"sync"

	"github.com/lumalink/lumalink/hal"
)

// Waveform is a piecewise-constant photodiode signal: chip-valued segments
// placed on the simulated timeline, idle level everywhere else.
type Waveform struct {
	mu   sync.Mutex
	segs []segment
	idle int32
}

type segment struct {
	start  hal.SystemTime
	period hal.SystemTime
	chips  []int32
}

// NewWaveform returns a waveform that reads idle at every instant until
// segments are added.
func NewWaveform(idle int32) *Waveform {
	return &Waveform{idle: idle}
}

// Add places chips on the timeline: chip k holds its value over
// [start+k·period, start+(k+1)·period).
func (w *Waveform) Add(start, period hal.SystemTime, chips []int32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.segs = append(w.segs, segment{start: start, period: period, chips: chips})
}

// At returns the signal level at time t.
func (w *Waveform) At(t hal.SystemTime) int32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range w.segs {
		if t < s.start {
			continue
		}
		k := (t - s.start) / s.period
		if k < hal.SystemTime(len(s.chips)) {
			return s.chips[k]
		}
	}
	return w.idle
}

// Photodiode samples a Waveform at the simulated clock's current time,
// implementing hal.AnalogInput.
type Photodiode struct {
	clk *Clock
	wf  *Waveform
}

// NewPhotodiode binds wf to clk.
func NewPhotodiode(clk *Clock, wf *Waveform) *Photodiode {
	return &Photodiode{clk: clk, wf: wf}
}

// Sense reads the waveform at the current simulated time.
func (p *Photodiode) Sense() (int32, error) {
	return p.wf.At(p.clk.Now()), nil
}
