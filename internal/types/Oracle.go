package types

import (
	"time"

	sdkmath "cosmossdk.io/math"
)

// OracleConfig holds the oracle admin and the asset every price is expressed in.
type OracleConfig struct {
	Admin     string `json:"admin"`
	BaseAsset string `json:"base_asset"`
}

// PriceEntry is the last fed price of a denom in the base asset.
type PriceEntry struct {
	Price       sdkmath.LegacyDec `json:"price"`
	LastUpdated time.Time         `json:"last_updated"`
}

// PriceFeed is one (denom, price) pair pushed by a feeder.
type PriceFeed struct {
	Denom string            `json:"denom"`
	Price sdkmath.LegacyDec `json:"price"`
}

// Quote is the price of base in quote units together with the age of both legs.
type Quote struct {
	Rate             sdkmath.LegacyDec `json:"rate"`
	LastUpdatedBase  time.Time         `json:"last_updated_base"`
	LastUpdatedQuote time.Time         `json:"last_updated_quote"`
}

// IsFresh reports whether both legs of the quote are within trustPeriod seconds of now.
func (q Quote) IsFresh(now time.Time, trustPeriod uint64) bool {
	limit := time.Duration(trustPeriod) * time.Second
	return !q.LastUpdatedBase.Add(limit).Before(now) && !q.LastUpdatedQuote.Add(limit).Before(now)
}
