package rxstate_test

import (
	"github.com/lumalink/lumalink/hal"
	"github.com/lumalink/lumalink/rxstate"
)

func halTime(v uint64) hal.SystemTime { return hal.SystemTime(v) }

// rig bundles the fake HAL every state test drives by hand.
type rig struct {
	clk *hal.FakeClock
	cs  *hal.FakeGPIO
	tm  *hal.FakeChipTimer
	adc *hal.SimulatedAnalogInput
	reg *rxstate.Register
}

func newRig(start hal.SystemTime, initial rxstate.ID) *rig {
	return &rig{
		clk: hal.NewFakeClock(start),
		cs:  hal.NewFakeGPIO(),
		tm:  hal.NewFakeChipTimer(),
		adc: hal.NewSimulatedAnalogInput(0),
		reg: rxstate.NewRegister(initial),
	}
}

// feedFrame plays one 16-chip frame through the sample timer: a carrier
// edge at each chip start, the sample taken half a period into the slot.
func (r *rig) feedFrame(period hal.SystemTime, chips [16]int32) {
	for _, c := range chips {
		r.cs.Pulse()
		r.clk.Advance(period / 2)
		r.adc.Feed(c)
		r.tm.Fire()
		r.clk.Advance(period - period/2)
	}
}
