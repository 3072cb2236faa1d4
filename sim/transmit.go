package sim

import (
	"github.com/lumalink/lumalink/decode"
	"github.com/lumalink/lumalink/frame"
	"github.com/lumalink/lumalink/hal"
)

// layerPatterns are the transmitter's per-2-bit chip patterns, multiplexing
// both Walsh-like code streams of one layer; index bit 0 selects the code-1
// bit, index bit 1 the code-2 bit. They are the ON/OFF chip sequences whose
// pairwise differences are exactly frame.C0 and frame.C1.
var layerPatterns = [4][frame.Len]int32{
	{1, 1, 0, 0, 0, 0, 1, 1, 0, 0, 1, 1, 1, 1, 0, 0},
	{0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1},
	{1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 0},
	{0, 0, 1, 1, 1, 1, 0, 0, 1, 1, 0, 0, 0, 0, 1, 1},
}

// NibbleChips returns the two layers' ON/OFF chip patterns for one 4-bit
// symbol: layer 1 carries the low two bits, layer 2 the inverted high two
// bits, matching the transmitter's bit-to-chip mapping.
func NibbleChips(d uint8) (p1, p2 [frame.Len]int32) {
	return layerPatterns[d&0x03], layerPatterns[(^d>>2)&0x03]
}

// NibbleSamples returns the noiseless photodiode samples for one 4-bit
// symbol, with per-chip amplitudes a1 and a2 on the two layers.
func NibbleSamples(d uint8, a1, a2 int32) [frame.Len]int32 {
	p1, p2 := NibbleChips(d)
	var x [frame.Len]int32
	for i := range x {
		x[i] = a1*p1[i] + a2*p2[i]
	}
	return x
}

// CodeFrame returns one frame carrying u on code kernel 0 and v on code
// kernel 1. The two kernels have disjoint chip support, so the frame's
// correlations are exactly 8u and 8v.
func CodeFrame(u, v int32) [frame.Len]int32 {
	var x [frame.Len]int32
	for i := range x {
		x[i] = u*frame.C0[i] + v*frame.C1[i]
	}
	return x
}

// LevelCheckFrames returns a three-frame training tail that walks the
// receiver's estimator through the end-of-level-check marker symbols 0x0C,
// 0x08, 0x00 in order, starting from cleared accumulators. gain scales the
// whole sequence; the marker decode is scale-free.
func LevelCheckFrames(gain int32) [3][frame.Len]int32 {
	return [3][frame.Len]int32{
		CodeFrame(3*gain, 3*gain),
		CodeFrame(gain, 5*gain),
		CodeFrame(2*gain, 2*gain),
	}
}

// TrainingYield reports the per-layer intensity estimates the receiver's
// decoder accumulates over LevelCheckFrames(gain): the values its
// level-check hands into data reception, and therefore the natural payload
// amplitudes for a self-consistent simulated burst.
func TrainingYield(gain int32) (a1, a2 int32) {
	var l1, l2 decode.AmplitudeEstimator
	for _, f := range LevelCheckFrames(gain) {
		decode.Decode(f, &l1, &l2)
	}
	return l1.Magnitude(), l2.Magnitude()
}

// DefaultGain is the training scale used when a Transmission does not pick
// its own.
const DefaultGain = 100

// Transmission describes one complete simulated burst: preamble edges,
// level-check training, payload bytes, then silence. The zero value of
// every optional field picks a sensible default.
type Transmission struct {
	// Period is the chip period (µs) the preamble announces: preamble
	// edges are spaced exactly this far apart.
	Period hal.SystemTime

	// DataPeriod is the actual chip period of the training and payload
	// chips. Zero means Period; set it differently to model transmitter
	// clock drift after the preamble.
	DataPeriod hal.SystemTime

	// PreambleEdges is the number of carrier-sense edges in the preamble.
	// Zero means 128.
	PreambleEdges int

	// PreambleOnly drops the training and payload entirely: the carrier
	// goes silent right after the last preamble edge.
	PreambleOnly bool

	// Gain scales the level-check training frames. Zero means DefaultGain.
	Gain int32

	// A1 and A2 are the per-layer payload amplitudes. Both zero means
	// "whatever the training teaches the receiver", i.e. TrainingYield(Gain).
	A1, A2 int32

	// Payload is the byte stream, two frames per byte, low nibble first.
	Payload []byte

	// ExtraNibbles appends lone half-byte frames after the payload, for
	// exercising carrier loss in the middle of a byte.
	ExtraNibbles []uint8
}

// Build schedules the burst's carrier-sense edges into w starting at start
// and returns the photodiode for its waveform plus the time the last data
// chip ends (with PreambleOnly, the time of the last preamble edge). The
// simulated envelope detector pulses once per chip: one edge
// per preamble period, then one at the start of every data chip, so a
// receiver sampling mid-slot sees each edge half a period old.
func (tx Transmission) Build(w *World, start hal.SystemTime) (*Photodiode, hal.SystemTime) {
	period := tx.Period
	dataPeriod := tx.DataPeriod
	if dataPeriod == 0 {
		dataPeriod = period
	}
	nPre := tx.PreambleEdges
	if nPre == 0 {
		nPre = 128
	}
	gain := tx.Gain
	if gain == 0 {
		gain = DefaultGain
	}
	a1, a2 := tx.A1, tx.A2
	if a1 == 0 && a2 == 0 {
		a1, a2 = TrainingYield(gain)
	}

	w.ScheduleEdges(start, period, nPre)
	lastEdge := start + hal.SystemTime(nPre-1)*period

	wf := NewWaveform(0)
	if tx.PreambleOnly {
		return NewPhotodiode(w.Clock, wf), lastEdge
	}

	var chips []int32
	for _, f := range LevelCheckFrames(gain) {
		chips = append(chips, f[:]...)
	}
	for _, b := range tx.Payload {
		lo := NibbleSamples(b&0x0F, a1, a2)
		hi := NibbleSamples(b>>4, a1, a2)
		chips = append(chips, lo[:]...)
		chips = append(chips, hi[:]...)
	}
	for _, nb := range tx.ExtraNibbles {
		f := NibbleSamples(nb&0x0F, a1, a2)
		chips = append(chips, f[:]...)
	}

	// The receiver's first chip sample lands 17/8 of its estimated period
	// after the last preamble edge (9/8 end-of-carrier grace plus one timer
	// period), so chips placed from 13/8 of the data period put that sample
	// in the middle of chip 0.
	dataStart := lastEdge + dataPeriod*13/8
	wf.Add(dataStart, dataPeriod, chips)
	for k := range chips {
		w.ScheduleEdge(dataStart + hal.SystemTime(k)*dataPeriod)
	}
	return NewPhotodiode(w.Clock, wf), dataStart + hal.SystemTime(len(chips))*dataPeriod
}
