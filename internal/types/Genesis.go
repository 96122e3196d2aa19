/*

This file contains the instantiation parameters of the whole protocol.

*/

package types

import (
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Genesis instantiates every contract and seeds the ledger.
type Genesis struct {
	Oracle   OracleGenesis    `json:"oracle" yaml:"oracle"`
	Bond     BondGenesis      `json:"bond" yaml:"bond"`
	Staking  StakingGenesis   `json:"staking" yaml:"staking"`
	Balances []GenesisBalance `json:"balances" yaml:"balances"`
}

// OracleGenesis configures the oracle.
type OracleGenesis struct {
	Config  OracleConfig    `json:"config" yaml:"config"`
	Feeders []FeederGenesis `json:"feeders" yaml:"feeders"`
	Prices  []PriceFeed     `json:"prices" yaml:"prices"`
}

// FeederGenesis registers the feeder of a denom.
type FeederGenesis struct {
	Denom  string `json:"denom" yaml:"denom"`
	Feeder string `json:"feeder" yaml:"feeder"`
}

// BondGenesis configures the bond contract. A nil adjustment starts inactive.
type BondGenesis struct {
	Config     BondConfig  `json:"config" yaml:"config"`
	Terms      Terms       `json:"terms" yaml:"terms"`
	Adjustment *Adjustment `json:"adjustment,omitempty" yaml:"adjustment,omitempty"`
}

// StakingGenesis configures the staking contract. A zero FirstEpochEnd ends the first epoch one
// epoch length after instantiation.
type StakingGenesis struct {
	Config           StakingConfig `json:"config" yaml:"config"`
	FirstEpochNumber uint64        `json:"first_epoch_number" yaml:"first_epoch_number"`
	FirstEpochEnd    time.Time     `json:"first_epoch_end" yaml:"first_epoch_end"`
}

// GenesisBalance is minted to Address at instantiation.
type GenesisBalance struct {
	Address string    `json:"address" yaml:"address"`
	Coins   sdk.Coins `json:"coins" yaml:"coins"`
}

// Validate runs the per-contract validations.
func (g Genesis) Validate() error {
	if err := g.Bond.Config.Validate(); err != nil {
		return err
	}
	if err := g.Bond.Terms.Validate(); err != nil {
		return err
	}
	if err := g.Staking.Config.Validate(); err != nil {
		return err
	}
	if g.Oracle.Config.Admin != "" {
		if _, err := sdk.AccAddressFromBech32(g.Oracle.Config.Admin); err != nil {
			return ErrInvalidInput.Wrapf("oracle admin address: %s", err)
		}
	}
	for _, f := range g.Oracle.Feeders {
		if _, err := sdk.AccAddressFromBech32(f.Feeder); err != nil {
			return ErrInvalidInput.Wrapf("feeder of %s: %s", f.Denom, err)
		}
	}
	for _, b := range g.Balances {
		if _, err := sdk.AccAddressFromBech32(b.Address); err != nil {
			return ErrInvalidInput.Wrapf("genesis balance address: %s", err)
		}
		if err := b.Coins.Validate(); err != nil {
			return ErrInvalidInput.Wrapf("genesis balance of %s: %s", b.Address, err)
		}
	}
	return nil
}
