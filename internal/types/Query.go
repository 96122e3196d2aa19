/*

This file contains the read-only requests answered by the contracts.

*/

package types

import (
	"time"

	sdkmath "cosmossdk.io/math"
)

// Query names, grouped per contract.
const (
	QueryBondConfig            = "config"
	QueryTerms                 = "terms"
	QueryAdjustment            = "adjustment"
	QueryBondPrice             = "bond_price"
	QueryAssetPrice            = "asset_price"
	QueryBondPriceInUsd        = "bond_price_in_usd"
	QueryDebtRatio             = "debt_ratio"
	QueryStandardizedDebtRatio = "standardized_debt_ratio"
	QueryCurrentDebt           = "current_debt"
	QueryDebtDecay             = "debt_decay"
	QueryMaxPayout             = "max_payout"
	QueryPayoutFor             = "payout_for"
	QueryPercentVestedFor      = "percent_vested_for"
	QueryPendingPayoutFor      = "pending_payout_for"
	QueryBondInfo              = "bond_info"

	QueryStakingConfig = "config"
	QueryExchangeRate  = "exchange_rate"
	QueryEpoch         = "epoch"
	QueryWarmupInfo    = "warmup_info"
	QueryPoints        = "points"

	QueryOracleConfig = "config"
	QueryQuote        = "quote"
	QueryPrice        = "price"

	QueryBalance = "balance"
	QuerySupply  = "supply"
)

// QueryRequest addresses one query of one contract. Only the parameters the query uses are read.
type QueryRequest struct {
	Contract string       `json:"contract"`
	Query    string       `json:"query"`
	Address  string       `json:"address,omitempty"`
	Denom    string       `json:"denom,omitempty"`
	Base     string       `json:"base,omitempty"`
	Quote    string       `json:"quote,omitempty"`
	Value    *sdkmath.Int `json:"value,omitempty"`
}

// BondInfoResponse describes a position together with what is claimable right now.
type BondInfoResponse struct {
	Position
	PercentVested sdkmath.LegacyDec `json:"percent_vested"`
	PendingPayout sdkmath.Int       `json:"pending_payout"`
}

// ExchangeRateResponse is the current staked to base rate.
type ExchangeRateResponse struct {
	Rate         sdkmath.LegacyDec `json:"rate"`
	PoolBalance  sdkmath.Int       `json:"pool_balance"`
	StakedSupply sdkmath.Int       `json:"staked_supply"`
}

// EpochResponse describes the running epoch.
type EpochResponse struct {
	EpochState
	EpochApr     sdkmath.LegacyDec  `json:"epoch_apr"`
	NextEpochApr *sdkmath.LegacyDec `json:"next_epoch_apr,omitempty"`
	Due          bool               `json:"due"`
}

// PointsResponse reports points including what accrued since the last update.
type PointsResponse struct {
	StakingPoints
	Pending sdkmath.Int `json:"pending"`
}

// WarmupInfoResponse reports a warmup entry and whether it can be claimed now.
type WarmupInfoResponse struct {
	WarmupEntry
	Claimable bool `json:"claimable"`
}

// PriceResponse is a fed price.
type PriceResponse struct {
	Denom       string            `json:"denom"`
	Price       sdkmath.LegacyDec `json:"price"`
	LastUpdated time.Time         `json:"last_updated"`
}
