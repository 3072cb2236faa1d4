package rxstate_test

import (
	"bytes"
	"testing"

	"github.com/lumalink/lumalink/rxstate"
	"github.com/lumalink/lumalink/sim"
)

func newReceivingRig(t *testing.T) (*rig, *rxstate.Receiving, *bytes.Buffer) {
	t.Helper()
	r := newRig(200000, rxstate.IDReceiving)
	var buf bytes.Buffer
	rc := rxstate.NewReceiving(r.reg, r.cs, r.tm, r.clk, r.adc, &buf,
		rxstate.PhaseDelayRatio, rxstate.PhaseAdvanceRatio, 16)
	return r, rc, &buf
}

func TestReceivingPacksTwoNibblesPerByte(t *testing.T) {
	r, rc, buf := newReceivingRig(t)
	rc.Init(rxstate.IDLeveling, rxstate.Context{Period: 3333, Intensities: [2]int32{533, 177}})

	r.feedFrame(3333, sim.NibbleSamples(0xA, 533, 177))
	rc.Main()
	if buf.Len() != 0 {
		t.Fatalf("emitted %q after a single nibble", buf.Bytes())
	}
	r.feedFrame(3333, sim.NibbleSamples(0x5, 533, 177))
	rc.Main()
	if got := buf.Bytes(); len(got) != 1 || got[0] != 0x5A {
		t.Fatalf("emitted %#v, want [0x5A]", got)
	}
}

func TestReceivingDecodesZeroByte(t *testing.T) {
	r, rc, buf := newReceivingRig(t)
	rc.Init(rxstate.IDLeveling, rxstate.Context{Period: 3333, Intensities: [2]int32{533, 177}})

	for i := 0; i < 2; i++ {
		r.feedFrame(3333, sim.NibbleSamples(0x0, 533, 177))
		rc.Main()
	}
	if got := buf.Bytes(); len(got) != 1 || got[0] != 0x00 {
		t.Fatalf("emitted %#v, want [0x00]", got)
	}
}

func TestReceivingDropsPartialByteOnExit(t *testing.T) {
	r, rc, buf := newReceivingRig(t)
	rc.Init(rxstate.IDLeveling, rxstate.Context{Period: 3333, Intensities: [2]int32{533, 177}})

	r.feedFrame(3333, sim.NibbleSamples(0x7, 533, 177))
	rc.Main()
	if ctx := rc.Exit(rxstate.IDWaiting); ctx != (rxstate.Context{}) {
		t.Fatalf("exit produced %+v, want empty", ctx)
	}
	if buf.Len() != 0 {
		t.Fatalf("partial byte emitted: %#v", buf.Bytes())
	}
	if r.tm.Armed() {
		t.Fatal("chip timer left running after Exit")
	}
}

func TestReceivingCarrierLossFallsBackToWaiting(t *testing.T) {
	r, rc, _ := newReceivingRig(t)
	rc.Init(rxstate.IDLeveling, rxstate.Context{Period: 3333, Intensities: [2]int32{533, 177}})

	// One edge, then nothing but timer fires for over 16 periods.
	r.cs.Pulse()
	r.clk.Advance(16*3333 + 1)
	r.adc.Feed(0)
	r.tm.Fire()
	if r.reg.Get() != rxstate.IDWaiting {
		t.Fatal("16 silent periods did not fall back to Waiting")
	}
}
