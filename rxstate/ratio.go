package rxstate

import "github.com/lumalink/lumalink/hal"

// Ratio scales a period by Num/Denom, used for the grace-period multipliers
// of the synchronization states (3/2 in Syncing, 9/8 in Synced, 11/8 and
// 5/8 in the Leveling/Receiving phase-correction trampoline). Kept as a
// value rather than a bare constant so ReceiverConfig can retune them per
// transmitter without a rebuild.
type Ratio struct {
	Num, Denom uint64
}

// Of returns period scaled by r.Num/r.Denom.
func (r Ratio) Of(period hal.SystemTime) hal.SystemTime {
	return hal.SystemTime(uint64(period) * r.Num / r.Denom)
}

// Default ratios of the link protocol. A receiver.ReceiverConfig with
// zero-valued ratio fields resolves to these.
var (
	SyncTimeoutRatio  = Ratio{3, 2}  // Syncing's preamble timeout
	EndOfCarrierRatio = Ratio{9, 8}  // Synced's grace timer
	PhaseDelayRatio   = Ratio{11, 8} // sample arrived early, delay the next one
	PhaseAdvanceRatio = Ratio{5, 8}  // sample arrived late, advance the next one
)
