package bond

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/elys-network/bondstake/internal/types"
)

// Query answers the bond queries.
func (k Keeper) Query(ctx types.Context, req types.QueryRequest) (any, error) {
	switch req.Query {
	case types.QueryBondConfig:
		return k.GetConfig(ctx)
	case types.QueryTerms:
		return k.GetTerms(ctx)
	case types.QueryAdjustment:
		return k.GetAdjustment(ctx)
	case types.QueryBondPrice:
		return k.BondPrice(ctx)
	case types.QueryAssetPrice:
		return k.AssetPrice(ctx)
	case types.QueryBondPriceInUsd:
		return k.BondPriceInUsd(ctx)
	case types.QueryDebtRatio:
		return k.DebtRatio(ctx)
	case types.QueryStandardizedDebtRatio:
		return k.StandardizedDebtRatio(ctx)
	case types.QueryCurrentDebt:
		return k.CurrentDebt(ctx)
	case types.QueryDebtDecay:
		return k.DebtDecay(ctx)
	case types.QueryMaxPayout:
		return k.MaxPayout(ctx)
	case types.QueryPayoutFor:
		if req.Value == nil {
			return nil, types.ErrInvalidInput.Wrap("value is required")
		}
		return k.PayoutFor(ctx, *req.Value)
	case types.QueryPercentVestedFor:
		pos, err := k.mustPosition(ctx, req.Address)
		if err != nil {
			return nil, err
		}
		return pos.PercentVested(ctx.BlockTime()), nil
	case types.QueryPendingPayoutFor:
		pos, found, err := k.GetPosition(ctx, req.Address)
		if err != nil {
			return nil, err
		}
		if !found {
			return sdkmath.ZeroInt(), nil
		}
		return pos.PendingPayout(ctx.BlockTime()), nil
	case types.QueryBondInfo:
		pos, err := k.mustPosition(ctx, req.Address)
		if err != nil {
			return nil, err
		}
		return types.BondInfoResponse{
			Position:      pos,
			PercentVested: pos.PercentVested(ctx.BlockTime()),
			PendingPayout: pos.PendingPayout(ctx.BlockTime()),
		}, nil
	default:
		return nil, types.ErrUnknownMessage.Wrap(fmt.Sprintf("bond query %q", req.Query))
	}
}

func (k Keeper) mustPosition(ctx types.Context, addr string) (types.Position, error) {
	pos, found, err := k.GetPosition(ctx, addr)
	if err != nil {
		return pos, err
	}
	if !found {
		return pos, types.ErrNoPosition.Wrapf("address %s", addr)
	}
	return pos, nil
}
