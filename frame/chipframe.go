package frame

import "sync/atomic"

// ChipFrame is the 16-slot chip-sample buffer the chip-timer callback fills
// one sample at a time. The tail index is atomic because it is written from
// the timer callback and read (and reset) from the foreground loop. There is
// exactly one writer (whichever state currently owns the chip timer) and one
// reader (that same state's Main), so no further synchronization is needed.
type ChipFrame struct {
	samples [Len]int32
	tail    atomic.Int32
}

// Append records one chip sample. It is a no-op once the frame already
// holds Len samples; in practice the foreground loop runs Take within one
// period of the frame filling, so the buffer never saturates in steady
// state.
func (f *ChipFrame) Append(sample int32) {
	i := f.tail.Load()
	if i >= Len {
		return
	}
	f.samples[i] = sample
	f.tail.Store(i + 1)
}

// Ready reports whether all 16 chips of the current frame have been
// recorded.
func (f *ChipFrame) Ready() bool {
	return f.tail.Load() == Len
}

// Reset discards any partially recorded frame by rewinding the tail to 0.
// States call it on Init so a stale partial frame from an earlier tenure
// never leaks into the first frame of a new one.
func (f *ChipFrame) Reset() {
	f.tail.Store(0)
}

// Take returns a copy of the filled frame and rewinds the tail to 0 so the
// timer callback starts on the next frame. Callers must check Ready first;
// Take does not itself verify the frame is full.
func (f *ChipFrame) Take() [Len]int32 {
	out := f.samples
	f.tail.Store(0)
	return out
}
