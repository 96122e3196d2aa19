package staking

import (
	"errors"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"

	"github.com/elys-network/bondstake/internal/types"
)

// AccruePoints adds the staked balance of addr times the seconds since its last update. Jailed
// addresses do not accrue and keep their clock stopped.
func (k Keeper) AccruePoints(ctx types.Context, cfg types.StakingConfig, addr string) error {
	return k.accruePoints(ctx, cfg, addr, sdkmath.ZeroInt())
}

// accruePoints is AccruePoints for a caller whose held staked tokens already left its balance
// before the call, such as the funds attached to an unstake.
func (k Keeper) accruePoints(ctx types.Context, cfg types.StakingConfig, addr string, held sdkmath.Int) error {
	if !cfg.PointsEnabled {
		return nil
	}
	entry, err := k.getPoints(ctx, addr)
	if err != nil {
		return err
	}
	if entry.Jailed {
		return nil
	}
	pending, err := k.pendingPoints(ctx, cfg, addr, entry, held)
	if err != nil {
		return err
	}
	entry.Total = entry.Total.Add(pending)
	entry.LastUpdated = ctx.BlockTime()
	return k.points.Set(ctx, addr, entry)
}

func (k Keeper) pendingPoints(ctx types.Context, cfg types.StakingConfig, addr string, entry types.StakingPoints, held sdkmath.Int) (sdkmath.Int, error) {
	if entry.Jailed || entry.LastUpdated.IsZero() {
		return sdkmath.ZeroInt(), nil
	}
	balance, err := k.ledger.BalanceOf(ctx, cfg.StakedDenom, addr)
	if err != nil {
		return sdkmath.Int{}, err
	}
	balance = balance.Add(held)
	elapsed := types.ElapsedSeconds(entry.LastUpdated, ctx.BlockTime())
	return balance.Mul(sdkmath.NewIntFromUint64(elapsed)), nil
}

func (k Keeper) getPoints(ctx types.Context, addr string) (types.StakingPoints, error) {
	entry, err := k.points.Get(ctx, addr)
	if errors.Is(err, collections.ErrNotFound) {
		return types.StakingPoints{Total: sdkmath.ZeroInt()}, nil
	}
	return entry, err
}
