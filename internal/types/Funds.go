package types

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// OneCoin returns the amount of funds when they are exactly one positive coin of denom.
func OneCoin(funds sdk.Coins, denom string) (sdkmath.Int, error) {
	if len(funds) != 1 {
		return sdkmath.Int{}, ErrInvalidInput.Wrapf("expected exactly one coin of %s, got %d coins", denom, len(funds))
	}
	coin := funds[0]
	if coin.Denom != denom {
		return sdkmath.Int{}, ErrInvalidInput.Wrapf("expected %s, got %s", denom, coin.Denom)
	}
	if coin.Amount.IsNil() || !coin.Amount.IsPositive() {
		return sdkmath.Int{}, ErrInvalidInput.Wrapf("amount of %s must be positive", denom)
	}
	return coin.Amount, nil
}

// NewCoins builds a single-coin set without panicking on zero amounts.
func NewCoins(denom string, amount sdkmath.Int) sdk.Coins {
	if !amount.IsPositive() {
		return sdk.Coins{}
	}
	return sdk.NewCoins(sdk.NewCoin(denom, amount))
}
