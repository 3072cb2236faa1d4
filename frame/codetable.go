// Package frame holds the chip-correlation code tables and the 16-sample
// frame buffer the chip-timer handler fills.
package frame

// C0 and C1 are the chip-correlation kernels w[k,l,0]-w[k,l,1] for the two
// orthogonal signatures the transmitter superimposes on the two LEDs. Do
// not reorder or renormalize them; the decoder's cancellation arithmetic
// depends on the exact signs and zeros.
var (
	C0 = [16]int32{1, 0, -1, 0, -1, 0, 1, 0, 0, -1, 0, 1, 0, 1, 0, -1}
	C1 = [16]int32{0, 1, 0, -1, 0, -1, 0, 1, -1, 0, 1, 0, 1, 0, -1, 0}
)

// Len is the number of chips in one frame.
const Len = 16
