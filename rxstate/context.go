package rxstate

import "github.com/lumalink/lumalink/hal"

// Context is passed by value from an exiting state's Exit into the entering
// state's Init. Passing it by value keeps the handoff free of shared
// storage: the producing state writes it once, the consuming state reads it
// during Init, and it is dead after that.
type Context struct {
	// Period is the estimated chip period in microseconds. Must be > 0 in
	// every Context handed to Syncing, Synced, Leveling, or Receiving.
	Period hal.SystemTime

	// LastCSClock is the timestamp of the most recently observed
	// carrier-sense edge, as seen by the producing state.
	LastCSClock hal.SystemTime

	// Intensities holds the per-layer amplitude estimate (ADC units) for
	// layer 0 and layer 1. Must be >= 0 in every Context handed to
	// Receiving.
	Intensities [2]int32
}
