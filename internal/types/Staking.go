/*

This file contains the configuration and state aggregates of the staking contract.

*/

package types

import (
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// StakingConfig is the admin-owned configuration of the staking contract.
type StakingConfig struct {
	Admin         string             `json:"admin"`
	BaseDenom     string             `json:"base_denom"`   // Token held by the pool (the bond payout token)
	StakedDenom   string             `json:"staked_denom"` // Derivative minted to stakers
	EpochLength   uint64             `json:"epoch_length"` // Seconds
	EpochApr      sdkmath.LegacyDec  `json:"epoch_apr"`    // Yield per epoch as a fraction of the pool
	NextEpochApr  *sdkmath.LegacyDec `json:"next_epoch_apr,omitempty"`
	WarmupLength  uint64             `json:"warmup_length"` // Seconds; zero disables warmup
	Minters       []string           `json:"minters"`       // Addresses allowed to mint the base token
	PointsEnabled bool               `json:"points_enabled"`
}

// Validate checks the staking config.
func (c StakingConfig) Validate() error {
	if err := sdk.ValidateDenom(c.BaseDenom); err != nil {
		return ErrInvalidInput.Wrapf("base denom: %s", err)
	}
	if err := sdk.ValidateDenom(c.StakedDenom); err != nil {
		return ErrInvalidInput.Wrapf("staked denom: %s", err)
	}
	if c.BaseDenom == c.StakedDenom {
		return ErrInvalidInput.Wrap("base and staked denoms must differ")
	}
	if _, err := sdk.AccAddressFromBech32(c.Admin); err != nil {
		return ErrInvalidInput.Wrapf("admin address: %s", err)
	}
	if c.EpochLength == 0 {
		return ErrInvalidInput.Wrap("epoch length must be positive")
	}
	if c.EpochApr.IsNil() || c.EpochApr.IsNegative() {
		return ErrInvalidInput.Wrap("epoch apr must be non-negative")
	}
	if c.NextEpochApr != nil && c.NextEpochApr.IsNegative() {
		return ErrInvalidInput.Wrap("next epoch apr must be non-negative")
	}
	for _, m := range c.Minters {
		if _, err := sdk.AccAddressFromBech32(m); err != nil {
			return ErrInvalidInput.Wrapf("minter %q: %s", m, err)
		}
	}
	return nil
}

// IsMinter reports whether addr may mint the base token.
func (c StakingConfig) IsMinter(addr string) bool {
	for _, m := range c.Minters {
		if m == addr {
			return true
		}
	}
	return false
}

// EpochState is advanced exclusively by a rebase.
type EpochState struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Number uint64    `json:"number"`
}

// WarmupEntry is principal waiting for the warmup period to end.
type WarmupEntry struct {
	Principal  sdkmath.Int `json:"principal"`
	Minted     sdkmath.Int `json:"minted"`
	UnlockTime time.Time   `json:"unlock_time"`
}

// StakingPoints accrue staked balance times elapsed seconds.
type StakingPoints struct {
	Total       sdkmath.Int `json:"total"`
	LastUpdated time.Time   `json:"last_updated"`
	Jailed      bool        `json:"jailed"`
}
