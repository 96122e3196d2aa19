package staking

import (
	sdkmath "cosmossdk.io/math"

	"github.com/elys-network/bondstake/internal/types"
)

// CurrentRate returns how many base tokens one staked token is worth, never less than one.
// depositExclude is subtracted from the pool balance and stakedExclude from the staked supply so
// that tokens already moved by the running call do not count.
func (k Keeper) CurrentRate(ctx types.Context, depositExclude, stakedExclude sdkmath.Int) (sdkmath.LegacyDec, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	deposited, stakedSupply, err := k.poolState(ctx, cfg)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	return exchangeRate(deposited.Sub(depositExclude), stakedSupply.Sub(stakedExclude)), nil
}

func (k Keeper) poolState(ctx types.Context, cfg types.StakingConfig) (sdkmath.Int, sdkmath.Int, error) {
	deposited, err := k.ledger.BalanceOf(ctx, cfg.BaseDenom, k.poolAddress)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	stakedSupply, err := k.ledger.SupplyOf(ctx, cfg.StakedDenom)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	return deposited, stakedSupply, nil
}

func exchangeRate(deposited, stakedSupply sdkmath.Int) sdkmath.LegacyDec {
	if !stakedSupply.IsPositive() || deposited.LTE(stakedSupply) {
		return sdkmath.LegacyOneDec()
	}
	return sdkmath.LegacyNewDecFromInt(deposited).QuoTruncate(sdkmath.LegacyNewDecFromInt(stakedSupply))
}
