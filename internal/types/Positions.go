/*

This file contains the per-depositor bond position and the vesting math that goes with it.

*/

package types

import (
	"time"

	sdkmath "cosmossdk.io/math"
)

// Position is the pending, not yet vested payout of a single depositor.
type Position struct {
	Payout          sdkmath.Int       `json:"payout"`            // Pending payout in payout token units
	PricePaid       sdkmath.LegacyDec `json:"price_paid"`        // Informational: last price paid (USD when an oracle is configured)
	VestingTimeLeft uint64            `json:"vesting_time_left"` // Seconds left until fully vested
	LastTime        time.Time         `json:"last_time"`         // Last deposit or redemption
}

// NewPosition returns the zero position used for a first deposit.
func NewPosition() Position {
	return Position{
		Payout:    sdkmath.ZeroInt(),
		PricePaid: sdkmath.LegacyZeroDec(),
	}
}

// PercentVested returns elapsed / vesting_time_left at now, truncated and clamped to one. A position
// with no vesting time left is fully vested.
func (p Position) PercentVested(now time.Time) sdkmath.LegacyDec {
	elapsed := ElapsedSeconds(p.LastTime, now)
	if elapsed >= p.VestingTimeLeft {
		return sdkmath.LegacyOneDec()
	}
	return sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromUint64(elapsed)).
		QuoTruncate(sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromUint64(p.VestingTimeLeft)))
}

// FullyVested reports whether the whole payout is claimable at now.
func (p Position) FullyVested(now time.Time) bool {
	return ElapsedSeconds(p.LastTime, now) >= p.VestingTimeLeft
}

// PendingPayout returns how much of the payout is claimable at now: floor(payout * elapsed / vesting_time_left).
func (p Position) PendingPayout(now time.Time) sdkmath.Int {
	if p.FullyVested(now) {
		return p.Payout
	}
	elapsed := sdkmath.NewIntFromUint64(ElapsedSeconds(p.LastTime, now))
	return p.Payout.Mul(elapsed).Quo(sdkmath.NewIntFromUint64(p.VestingTimeLeft))
}
