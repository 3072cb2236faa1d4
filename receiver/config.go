// Package receiver assembles the HAL handles and the state machine into the
// single object the cmd binaries construct: one Receiver owns the clock,
// the chip timer, the carrier-sense line, the photodiode, and the serial
// sink.
package receiver

// This file contains all the code that directly uses the viper package.

import (
	"github.com/spf13/viper"

	"github.com/lumalink/lumalink/hal"
	"github.com/lumalink/lumalink/rxstate"
)

// ReceiverConfig holds the receiver's tunables: pin assignments, clock
// granularity, and the grace-period ratios of the synchronization states.
// The ratio fields default to the values the protocol was designed around;
// keeping them in the config file lets a deployment re-tune them for a
// sluggish transmitter without a rebuild.
type ReceiverConfig struct {
	// CSPin names the carrier-sense GPIO input in the periph registry.
	CSPin string
	// PDPin addresses the photodiode ADC channel as "device:channel"
	// under /sys/bus/iio.
	PDPin string
	// DebugClockPin optionally names a GPIO output toggled once per chip
	// sample. Empty disables it.
	DebugClockPin string

	// SysClockTickUs is the system clock granularity in µs.
	SysClockTickUs hal.SystemTime
	// NoiseTimeoutUs is how long Waiting remembers a lone carrier-sense
	// edge before writing it off as noise.
	NoiseTimeoutUs hal.SystemTime

	// SyncTimeoutNumerator/Denominator scale the estimated period into
	// Syncing's preamble timeout.
	SyncTimeoutNumerator, SyncTimeoutDenominator uint64
	// EndOfCarrierNumerator/Denominator scale the period into Synced's
	// end-of-carrier grace timer.
	EndOfCarrierNumerator, EndOfCarrierDenominator uint64
	// CarrierLossPeriods is how many silent periods Leveling and Receiving
	// tolerate before falling back to Waiting.
	CarrierLossPeriods uint64
	// PhaseDelayNumerator/Denominator and PhaseAdvanceNumerator/
	// Denominator scale the period into the phase-correction trampoline's
	// one-shot intervals.
	PhaseDelayNumerator, PhaseDelayDenominator     uint64
	PhaseAdvanceNumerator, PhaseAdvanceDenominator uint64
}

// DefaultConfig returns the configuration the receiver runs with when no
// lumalink.toml is found.
func DefaultConfig() ReceiverConfig {
	return ReceiverConfig{
		CSPin:                   "GPIO17",
		PDPin:                   "0:0",
		SysClockTickUs:          57,
		NoiseTimeoutUs:          1000000,
		SyncTimeoutNumerator:    3,
		SyncTimeoutDenominator:  2,
		EndOfCarrierNumerator:   9,
		EndOfCarrierDenominator: 8,
		CarrierLossPeriods:      16,
		PhaseDelayNumerator:     11,
		PhaseDelayDenominator:   8,
		PhaseAdvanceNumerator:   5,
		PhaseAdvanceDenominator: 8,
	}
}

func ratioOr(num, denom uint64, fallback rxstate.Ratio) rxstate.Ratio {
	if num == 0 || denom == 0 {
		return fallback
	}
	return rxstate.Ratio{Num: num, Denom: denom}
}

// SyncTimeoutRatio resolves the Syncing preamble-timeout ratio, falling
// back to the protocol default when unset.
func (c ReceiverConfig) SyncTimeoutRatio() rxstate.Ratio {
	return ratioOr(c.SyncTimeoutNumerator, c.SyncTimeoutDenominator, rxstate.SyncTimeoutRatio)
}

// EndOfCarrierRatio resolves Synced's grace-timer ratio.
func (c ReceiverConfig) EndOfCarrierRatio() rxstate.Ratio {
	return ratioOr(c.EndOfCarrierNumerator, c.EndOfCarrierDenominator, rxstate.EndOfCarrierRatio)
}

// PhaseDelayRatio resolves the sample-came-early trampoline interval.
func (c ReceiverConfig) PhaseDelayRatio() rxstate.Ratio {
	return ratioOr(c.PhaseDelayNumerator, c.PhaseDelayDenominator, rxstate.PhaseDelayRatio)
}

// PhaseAdvanceRatio resolves the sample-came-late trampoline interval.
func (c ReceiverConfig) PhaseAdvanceRatio() rxstate.Ratio {
	return ratioOr(c.PhaseAdvanceNumerator, c.PhaseAdvanceDenominator, rxstate.PhaseAdvanceRatio)
}

// NoiseTimeout resolves Waiting's spurious-edge timeout.
func (c ReceiverConfig) NoiseTimeout() hal.SystemTime {
	if c.NoiseTimeoutUs == 0 {
		return 1000000
	}
	return c.NoiseTimeoutUs
}

// CarrierLoss resolves the silent-period count that declares the carrier
// gone.
func (c ReceiverConfig) CarrierLoss() hal.SystemTime {
	if c.CarrierLossPeriods == 0 {
		return 16
	}
	return hal.SystemTime(c.CarrierLossPeriods)
}

// LoadConfig reads configuration from a TOML-formatted file called
// 'lumalink.toml'. It looks for this in the /opt folder (the top level of
// the SD card on the deployment image) and then in the current directory,
// for convenience. Returns the defaults, and false, if no config file was
// read.
func LoadConfig() (ReceiverConfig, LinkProfile, bool) {
	cfg := DefaultConfig()
	profile := DefaultProfile()
	viper.SetConfigName("lumalink") // name of config file (without extension)
	viper.AddConfigPath("/opt")     // path to look for the config file in
	viper.AddConfigPath(".")        // optionally look for config in the working directory
	if err := viper.ReadInConfig(); err != nil {
		return cfg, profile, false
	}
	viper.UnmarshalKey("receiver", &cfg)
	viper.UnmarshalKey("link", &profile)
	return cfg, profile, true
}
