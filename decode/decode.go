// Package decode implements the successive-interference-cancellation (SIC)
// demodulator: given one 16-chip frame and the running per-layer amplitude
// estimates, it recovers the 4-bit symbol carried by that frame and updates
// the estimates for the next call.
package decode

import "github.com/lumalink/lumalink/frame"

// AmplitudeEstimator accumulates correlation magnitudes across frames to
// track a layer's per-chip amplitude.
type AmplitudeEstimator struct {
	Sum int64
	N   int64
}

// Magnitude returns the current per-chip magnitude estimate, sum/n/4.
// Returns 0 before any update (N == 0).
func (a AmplitudeEstimator) Magnitude() int32 {
	if a.N == 0 {
		return 0
	}
	return int32(a.Sum / a.N / 4)
}

func (a *AmplitudeEstimator) update(y1, y2 int32) {
	a.Sum += int64(abs(y1)) + int64(abs(y2))
	a.N += 2
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Symbol is a 4-bit demodulated chip-frame symbol: bit 0 = layer-1 signature
// 0, bit 1 = layer-1 signature 1, bit 2 = layer-2 signature 0, bit 3 =
// layer-2 signature 1.
type Symbol uint8

// PackByte packs two successive frames' Symbols into one byte: the first
// frame is the low nibble, the second the high nibble.
func PackByte(first, second Symbol) byte {
	return byte(first&0x0F) | byte(second&0x0F)<<4
}

func gamma(code *[frame.Len]int32, x *[frame.Len]int32) int32 {
	var s int32
	for i := 0; i < frame.Len; i++ {
		s += code[i] * x[i]
	}
	return s
}

// Decode runs the full SIC pipeline on one chip frame, mutating layer1 and
// layer2 in place with the new amplitude contributions and returning the
// decoded symbol. It is a pure function of its inputs: the same frame and
// the same starting estimator state always yield the same symbol and the
// same updated estimators.
//
// The layer-1 estimator is updated with this frame's correlations before
// the cancellation magnitude is read from it, so the very first frame
// already cancels with a non-zero estimate.
func Decode(samples [frame.Len]int32, layer1, layer2 *AmplitudeEstimator) Symbol {
	// Layer 1: decode on the raw samples.
	y11 := gamma(&frame.C0, &samples)
	y21 := gamma(&frame.C1, &samples)
	b11 := decideLayer1(y11)
	b21 := decideLayer1(y21)

	layer1.update(y11, y21)
	a1 := layer1.Magnitude()

	// Cancel layer 1's expected contribution from each chip before decoding
	// layer 2.
	for i := 0; i < frame.Len; i++ {
		var t int32
		if expectOn(frame.C0[i], b11) {
			t++
		}
		if expectOn(frame.C1[i], b21) {
			t++
		}
		samples[i] -= a1 * t
	}

	// Layer 2: decode the residual, with inverted polarity.
	y12 := gamma(&frame.C0, &samples)
	y22 := gamma(&frame.C1, &samples)
	b12 := decideLayer2(y12)
	b22 := decideLayer2(y22)

	layer2.update(y12, y22)

	return Symbol(b22<<3 | b12<<2 | b21<<1 | b11)
}

// decideLayer1 implements "b = y > 0 ? 0 : 1": the strict ">" decision means
// y == 0 decodes as bit 1.
func decideLayer1(y int32) uint8 {
	if y > 0 {
		return 0
	}
	return 1
}

// decideLayer2 implements the inverted-polarity decision "b = y < 0 ? 0 :
// 1": y == 0 decodes as bit 1 as well, by the same strict-inequality rule
// applied on the other side.
func decideLayer2(y int32) uint8 {
	if y < 0 {
		return 0
	}
	return 1
}

// expectOn reports whether chip value code is expected to drive the chip to
// the ON level given decoded bit b:
//
//	t += b==0 ? (code>0) : (code<0)
func expectOn(code int32, b uint8) bool {
	if b == 0 {
		return code > 0
	}
	return code < 0
}
