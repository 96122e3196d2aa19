package staking

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/elys-network/bondstake/internal/types"
)

// Query answers the staking queries.
func (k Keeper) Query(ctx types.Context, req types.QueryRequest) (any, error) {
	switch req.Query {
	case types.QueryStakingConfig:
		return k.GetConfig(ctx)
	case types.QueryExchangeRate:
		return k.exchangeRateInfo(ctx)
	case types.QueryEpoch:
		return k.epochInfo(ctx)
	case types.QueryWarmupInfo:
		entry, found, err := k.GetWarmup(ctx, req.Address)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, types.ErrNoWarmupEntry.Wrapf("address %s", req.Address)
		}
		return types.WarmupInfoResponse{
			WarmupEntry: entry,
			Claimable:   !ctx.BlockTime().Before(entry.UnlockTime),
		}, nil
	case types.QueryPoints:
		return k.pointsInfo(ctx, req.Address)
	default:
		return nil, types.ErrUnknownMessage.Wrap(fmt.Sprintf("staking query %q", req.Query))
	}
}

func (k Keeper) exchangeRateInfo(ctx types.Context) (types.ExchangeRateResponse, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.ExchangeRateResponse{}, err
	}
	deposited, stakedSupply, err := k.poolState(ctx, cfg)
	if err != nil {
		return types.ExchangeRateResponse{}, err
	}
	return types.ExchangeRateResponse{
		Rate:         exchangeRate(deposited, stakedSupply),
		PoolBalance:  deposited,
		StakedSupply: stakedSupply,
	}, nil
}

func (k Keeper) epochInfo(ctx types.Context) (types.EpochResponse, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.EpochResponse{}, err
	}
	epoch, err := k.GetEpoch(ctx)
	if err != nil {
		return types.EpochResponse{}, err
	}
	return types.EpochResponse{
		EpochState:   epoch,
		EpochApr:     cfg.EpochApr,
		NextEpochApr: cfg.NextEpochApr,
		Due:          !ctx.BlockTime().Before(epoch.End),
	}, nil
}

func (k Keeper) pointsInfo(ctx types.Context, addr string) (types.PointsResponse, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.PointsResponse{}, err
	}
	entry, err := k.getPoints(ctx, addr)
	if err != nil {
		return types.PointsResponse{}, err
	}
	pending := sdkmath.ZeroInt()
	if cfg.PointsEnabled {
		pending, err = k.pendingPoints(ctx, cfg, addr, entry, sdkmath.ZeroInt())
		if err != nil {
			return types.PointsResponse{}, err
		}
	}
	return types.PointsResponse{StakingPoints: entry, Pending: pending}, nil
}
