package rxstate_test

import (
	"testing"

	"github.com/lumalink/lumalink/hal"
	"github.com/lumalink/lumalink/rxstate"
)

func TestSyncingCollectsEdgesAndMeasuresPeriod(t *testing.T) {
	r := newRig(10000, rxstate.IDSyncing)
	s := rxstate.NewSyncing(r.reg, r.cs, r.tm, r.clk, rxstate.SyncTimeoutRatio)
	s.Init(rxstate.IDWaiting, rxstate.Context{Period: 3333, LastCSClock: 10000})

	if got := r.tm.Period(); got != 4999 {
		t.Fatalf("timeout period = %d, want 3*3333/2 = 4999", got)
	}
	if r.tm.Armed() {
		t.Fatal("timeout armed before the first edge")
	}

	// 64 edges with alternating jitter around 3333µs.
	var times []hal.SystemTime
	for i := 0; i < 64; i++ {
		if i%2 == 0 {
			r.clk.Advance(3300)
		} else {
			r.clk.Advance(3366)
		}
		r.cs.Pulse()
		times = append(times, r.clk.Now())
		if i < 63 && r.reg.Get() != rxstate.IDSyncing {
			t.Fatalf("transitioned after %d edges", i+1)
		}
		if !r.tm.Armed() {
			t.Fatalf("timeout not kept alive at edge %d", i+1)
		}
	}
	if r.reg.Get() != rxstate.IDSynced {
		t.Fatal("no transition after 64 edges")
	}

	ctx := s.Exit(rxstate.IDSynced)
	want := (times[63] - times[0]) / 63
	if ctx.Period != want {
		t.Fatalf("period = %d, want mean %d", ctx.Period, want)
	}
	if ctx.LastCSClock != times[63] {
		t.Fatalf("lastCSClock = %d, want %d", ctx.LastCSClock, times[63])
	}
	if r.tm.Armed() {
		t.Fatal("timeout left running after Exit")
	}
}

func TestSyncingTimeoutFallsBackToWaiting(t *testing.T) {
	r := newRig(10000, rxstate.IDSyncing)
	s := rxstate.NewSyncing(r.reg, r.cs, r.tm, r.clk, rxstate.SyncTimeoutRatio)
	s.Init(rxstate.IDWaiting, rxstate.Context{Period: 3333, LastCSClock: 10000})

	for i := 0; i < 10; i++ {
		r.clk.Advance(3333)
		r.cs.Pulse()
	}
	r.clk.Advance(4999)
	r.tm.Fire()
	if r.reg.Get() != rxstate.IDWaiting {
		t.Fatal("timeout did not fall back to Waiting")
	}
	if ctx := s.Exit(rxstate.IDWaiting); ctx != (rxstate.Context{}) {
		t.Fatalf("exit to Waiting produced %+v, want empty", ctx)
	}
}
