package sim

import (
	"fmt"
	"testing"

	"github.com/lumalink/lumalink/decode"
	"github.com/lumalink/lumalink/frame"
	"github.com/lumalink/lumalink/hal"
)

// The transmitter patterns and the receiver's correlation kernels are two
// views of the same codebook: flipping one code bit must move a pattern by
// exactly the matching kernel.
func TestPatternsMatchKernels(t *testing.T) {
	for i := 0; i < frame.Len; i++ {
		if layerPatterns[0][i]-layerPatterns[1][i] != frame.C0[i] {
			t.Fatalf("code-1 flip differs from C0 at chip %d", i)
		}
		if layerPatterns[0][i]-layerPatterns[2][i] != frame.C1[i] {
			t.Fatalf("code-2 flip differs from C1 at chip %d", i)
		}
		if layerPatterns[3][i]-layerPatterns[2][i] != -frame.C0[i] {
			t.Fatalf("code-1 flip under code-2 differs from -C0 at chip %d", i)
		}
	}
}

func TestTrainingYield(t *testing.T) {
	a1, a2 := TrainingYield(DefaultGain)
	if a1 != 533 || a2 != 177 {
		t.Fatalf("TrainingYield(100) = (%d, %d), want (533, 177)", a1, a2)
	}
}

func TestLevelCheckFramesWalkTheMarker(t *testing.T) {
	var l1, l2 decode.AmplitudeEstimator
	want := []decode.Symbol{0x0C, 0x08, 0x00}
	for i, f := range LevelCheckFrames(DefaultGain) {
		if got := decode.Decode(f, &l1, &l2); got != want[i] {
			t.Fatalf("training frame %d decoded as %#x, want %#x", i, got, want[i])
		}
	}
}

func TestWaveformLookup(t *testing.T) {
	wf := NewWaveform(-1)
	wf.Add(1000, 100, []int32{10, 20, 30})
	cases := []struct {
		t    hal.SystemTime
		want int32
	}{
		{999, -1}, {1000, 10}, {1099, 10}, {1100, 20}, {1299, 30}, {1300, -1},
	}
	for _, c := range cases {
		if got := wf.At(c.t); got != c.want {
			t.Errorf("At(%d) = %d, want %d", c.t, got, c.want)
		}
	}
}

func TestWorldFiresEventsInOrder(t *testing.T) {
	w := NewWorld(0)
	var order []string
	w.CS.Attach(func() { order = append(order, "edge") })
	w.Timer.SetPeriod(250)
	w.Timer.Attach(func() { order = append(order, "timer"); w.Timer.Stop() })
	w.Timer.Restart() // deadline 250
	w.ScheduleEdge(100)
	w.ScheduleEdge(400)
	w.Run(1000, func() {})
	if got, want := fmt.Sprint(order), "[edge timer edge]"; got != want {
		t.Fatalf("event order %v, want %v", got, want)
	}
	if w.Clock.Now() != 1000 {
		t.Fatalf("clock stopped at %d", w.Clock.Now())
	}
}

func TestWorldTimerPeriodicRearm(t *testing.T) {
	w := NewWorld(0)
	var times []hal.SystemTime
	w.Timer.SetPeriod(300)
	w.Timer.Attach(func() { times = append(times, w.Clock.Now()) })
	w.Timer.Restart()
	w.Run(1000, func() {})
	if got, want := fmt.Sprint(times), "[300 600 900]"; got != want {
		t.Fatalf("fired at %v, want %v", got, want)
	}
}

// A handler that reprograms the timer from inside its own invocation gets
// one interval at the new period before the cadence it programs next, the
// trampoline contract.
func TestWorldTimerHandlerRestart(t *testing.T) {
	w := NewWorld(0)
	var times []hal.SystemTime
	first := true
	w.Timer.Attach(func() {
		times = append(times, w.Clock.Now())
		if first {
			first = false
			w.Timer.SetPeriod(50)
			w.Timer.Restart()
		} else {
			w.Timer.SetPeriod(300)
			w.Timer.Restart()
		}
	})
	w.Timer.SetPeriod(300)
	w.Timer.Restart()
	w.Run(1000, func() {})
	if got, want := fmt.Sprint(times), "[300 350 650 950]"; got != want {
		t.Fatalf("fired at %v, want %v", got, want)
	}
}
