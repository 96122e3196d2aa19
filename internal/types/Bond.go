/*

This file contains the configuration and state aggregates of the bond contract.

*/

package types

import (
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BondConfig is the admin-owned configuration of the bond contract.
type BondConfig struct {
	Usd               string      `json:"usd"`                 // Quote denom of the oracle; empty disables USD pricing
	Principal         string      `json:"principal"`           // Denom accepted for deposits
	Admin             string      `json:"admin"`               // Address allowed to mutate config, terms and adjustment
	Treasury          string      `json:"treasury"`            // Receives deposited principal
	OracleTrustPeriod uint64      `json:"oracle_trust_period"` // Maximum quote age in seconds
	FloorRelief       bool        `json:"floor_relief"`        // Zero the minimum price once the market price clears it
	MinPayout         sdkmath.Int `json:"min_payout"`          // Smallest payout a deposit may produce
}

// Validate checks the config for obviously broken values.
func (c BondConfig) Validate() error {
	if err := sdk.ValidateDenom(c.Principal); err != nil {
		return ErrInvalidInput.Wrapf("principal denom: %s", err)
	}
	if c.Usd != "" {
		if err := sdk.ValidateDenom(c.Usd); err != nil {
			return ErrInvalidInput.Wrapf("usd denom: %s", err)
		}
	}
	if _, err := sdk.AccAddressFromBech32(c.Admin); err != nil {
		return ErrInvalidInput.Wrapf("admin address: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(c.Treasury); err != nil {
		return ErrInvalidInput.Wrapf("treasury address: %s", err)
	}
	if c.MinPayout.IsNil() || !c.MinPayout.IsPositive() {
		return ErrInvalidInput.Wrap("min payout must be positive")
	}
	return nil
}

// Terms drive bond pricing and capacity.
type Terms struct {
	ControlVariable sdkmath.LegacyDec `json:"control_variable"`
	MinimumPrice    sdkmath.LegacyDec `json:"minimum_price"`
	MaxPayout       sdkmath.LegacyDec `json:"max_payout"` // Fraction of the payout token supply
	MaxDebt         sdkmath.Int       `json:"max_debt"`
	VestingTerm     uint64            `json:"vesting_term"` // Seconds
}

// Validate rejects terms the engine cannot run with. A zero vesting term would make debt decay divide by zero.
func (t Terms) Validate() error {
	if t.ControlVariable.IsNil() || t.ControlVariable.IsNegative() {
		return ErrInvalidInput.Wrap("control variable must be non-negative")
	}
	if t.MinimumPrice.IsNil() || t.MinimumPrice.IsNegative() {
		return ErrInvalidInput.Wrap("minimum price must be non-negative")
	}
	if t.MaxPayout.IsNil() || t.MaxPayout.IsNegative() {
		return ErrInvalidInput.Wrap("max payout must be non-negative")
	}
	if t.MaxDebt.IsNil() || t.MaxDebt.IsNegative() {
		return ErrInvalidInput.Wrap("max debt must be non-negative")
	}
	if t.VestingTerm == 0 {
		return ErrInvalidInput.Wrap("vesting term must be positive")
	}
	return nil
}

// DebtState is the outstanding debt and the time it was last decayed.
type DebtState struct {
	OutstandingDebt sdkmath.Int `json:"outstanding_debt"`
	LastDecayTime   time.Time   `json:"last_decay_time"`
}

// Adjustment schedules control variable creep toward Target.
type Adjustment struct {
	Add      bool              `json:"add"`
	Rate     sdkmath.LegacyDec `json:"rate"`
	Target   sdkmath.LegacyDec `json:"target"`
	Buffer   uint64            `json:"buffer"` // Minimum seconds between two steps
	LastTime time.Time         `json:"last_time"`
}

// NewAdjustment returns an inactive adjustment.
func NewAdjustment(now time.Time) Adjustment {
	return Adjustment{
		Add:      true,
		Rate:     sdkmath.LegacyZeroDec(),
		Target:   sdkmath.LegacyZeroDec(),
		LastTime: now,
	}
}

func (a Adjustment) String() string {
	direction := "decrease"
	if a.Add {
		direction = "increase"
	}
	return fmt.Sprintf("%s by %s toward %s every %ds", direction, a.Rate, a.Target, a.Buffer)
}
