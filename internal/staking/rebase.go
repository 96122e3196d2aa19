package staking

import (
	"strconv"
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/elys-network/bondstake/internal/types"
)

// EventTypeRebase is emitted when an epoch is closed.
const EventTypeRebase = "rebase"

// Rebase closes the running epoch once it is over: the pool grows by epoch_apr and the next epoch
// opens. Before the end of the epoch it does nothing.
//
// Unlike a plain one-length advance, a rebase on a clock lagging several epochs behind skips the
// new epoch forward past the block time (see advanceEpoch), so the yield is minted once and the
// next rebase waits for a full epoch again.
func (k Keeper) Rebase(ctx types.Context) (*types.Response, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	epoch, err := k.GetEpoch(ctx)
	if err != nil {
		return nil, err
	}
	now := ctx.BlockTime()
	if now.Before(epoch.End) {
		return types.NewResponse(), nil
	}
	if cfg.EpochLength == 0 {
		return nil, types.ErrArithmetic.Wrap("epoch length is zero")
	}

	balance, err := k.ledger.BalanceOf(ctx, cfg.BaseDenom, k.poolAddress)
	if err != nil {
		return nil, err
	}
	apr := cfg.EpochApr
	rebaseAmount := sdkmath.LegacyNewDecFromInt(balance).Mul(apr).TruncateInt()

	next := advanceEpoch(epoch, cfg.EpochLength, now)
	if err := k.setEpoch(ctx, next); err != nil {
		return nil, err
	}
	if cfg.NextEpochApr != nil {
		cfg.EpochApr = *cfg.NextEpochApr
		cfg.NextEpochApr = nil
		if err := k.setConfig(ctx, cfg); err != nil {
			return nil, err
		}
	}

	resp := types.NewResponse()
	if rebaseAmount.IsPositive() {
		resp.AddMessages(types.MsgMint{
			Coin:      sdk.NewCoin(cfg.BaseDenom, rebaseAmount),
			Recipient: k.poolAddress,
		})
	}
	resp.AddEvent(EventTypeRebase,
		"epoch_number", strconv.FormatUint(next.Number, 10),
		"epoch_start", next.Start.Format(time.RFC3339),
		"epoch_end", next.End.Format(time.RFC3339),
		"amount", rebaseAmount.String(),
		"apr", apr.String(),
	)

	k.logger.Info().
		Uint64("epoch", next.Number).
		Str("amount", rebaseAmount.String()).
		Str("pool", balance.String()).
		Msg("Rebase executed")

	return resp, nil
}

// advanceEpoch opens the epoch following epoch. When the new end is not after now, the epoch moves on
// by whole lengths so that one rebase never leaves an epoch that is already over.
func advanceEpoch(epoch types.EpochState, epochLength uint64, now time.Time) types.EpochState {
	length := time.Duration(epochLength) * time.Second
	next := types.EpochState{
		Start:  epoch.End,
		End:    epoch.End.Add(length),
		Number: epoch.Number + 1,
	}
	if !next.End.After(now) {
		behind := types.ElapsedSeconds(next.End, now)/epochLength + 1
		next.End = next.End.Add(time.Duration(behind*epochLength) * time.Second)
		next.Start = next.End.Add(-length)
	}
	return next
}
