package rxstate

import (
	"io"

	"github.com/lumalink/lumalink/hal"
)

// ClockReader is the read side of hal.SystemClock (and hal.FakeClock in
// tests): a monotonic microsecond timestamp source.
type ClockReader interface {
	Now() hal.SystemTime
}

// Timer is the surface every state needs from hal.ChipTimer (or
// hal.FakeChipTimer in tests): set a period, attach a handler, and
// start/stop/detach it.
type Timer interface {
	SetPeriod(hal.SystemTime)
	Attach(func())
	Detach()
	Restart()
	Stop()
}

// EdgeSource is the surface every state needs from hal.CarrierSensePin (or
// hal.FakeGPIO in tests): attach/detach a rising-edge callback.
type EdgeSource interface {
	Attach(func())
	Detach()
}

// AnalogInput is re-exported from hal for convenience; states read the
// photodiode through this.
type AnalogInput = hal.AnalogInput

// DebugClock is the optional per-sample debug output (hal.DebugClockPin):
// toggled once per chip sample so a logic analyzer can watch the sample
// cadence against the transmitter's own debug clock.
type DebugClock interface {
	Toggle()
}

// Sink is where Receiving emits decoded bytes, typically a serial port or
// a capture buffer in tests.
type Sink = io.ByteWriter
