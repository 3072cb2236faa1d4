package sim

import (
	"sort"

	"github.com/lumalink/lumalink/hal"
)

// World owns one simulated clock, one chip timer, and one carrier-sense
// line, and replays scheduled edges against them in time order. After every
// event it invokes the supplied foreground tick, so state transitions set
// from handlers are dispatched at the same cadence the real foreground loop
// would dispatch them.
type World struct {
	Clock *Clock
	Timer *Timer
	CS    *EdgeLine

	edges []hal.SystemTime
}

// NewWorld creates a world with its clock at start.
func NewWorld(start hal.SystemTime) *World {
	clk := NewClock(start)
	return &World{
		Clock: clk,
		Timer: NewTimer(clk),
		CS:    NewEdgeLine(),
	}
}

// ScheduleEdge adds one carrier-sense rising edge at time t.
func (w *World) ScheduleEdge(t hal.SystemTime) {
	w.edges = append(w.edges, t)
}

// ScheduleEdges adds n edges spaced period apart, the first at start.
func (w *World) ScheduleEdges(start, period hal.SystemTime, n int) {
	for i := 0; i < n; i++ {
		w.ScheduleEdge(start + hal.SystemTime(i)*period)
	}
}

// Run replays events until the clock passes until. tick is called before
// the first event (so the dispatcher can initialize its first state and arm
// handlers) and after every event. A carrier-sense edge and a timer
// deadline at the same instant fire edge first, matching an edge ISR
// winning the race against the timer it is about to restart.
//
// tick runs twice per event: the real foreground loop spins continuously,
// so a transition set inside a state's Main is dispatched well before the
// next interrupt arrives, and the two calls reproduce that ordering.
func (w *World) Run(until hal.SystemTime, tick func()) {
	sort.Slice(w.edges, func(i, j int) bool { return w.edges[i] < w.edges[j] })
	tick()
	tick()
	for {
		te, okE := w.nextEdge()
		tt, okT := w.Timer.next()
		var t hal.SystemTime
		var edge bool
		switch {
		case okE && (!okT || te <= tt):
			t, edge = te, true
		case okT:
			t, edge = tt, false
		default:
			w.Clock.advanceTo(until)
			tick()
			tick()
			return
		}
		if t > until {
			w.Clock.advanceTo(until)
			tick()
			tick()
			return
		}
		w.Clock.advanceTo(t)
		if edge {
			w.popEdge()
			w.CS.pulse()
		} else {
			w.Timer.fire()
		}
		tick()
		tick()
	}
}

func (w *World) nextEdge() (hal.SystemTime, bool) {
	if len(w.edges) == 0 {
		return 0, false
	}
	return w.edges[0], true
}

func (w *World) popEdge() {
	w.edges = w.edges[1:]
}
