package staking

import (
	"strconv"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/elys-network/bondstake/internal/types"
)

// UpdateConfig changes the fields set in msg. A new epoch apr is staged and only replaces the
// running one at the next rebase.
func (k Keeper) UpdateConfig(ctx types.Context, sender string, msg types.UpdateStakingConfigMsg) (*types.Response, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if sender != cfg.Admin {
		return nil, types.ErrUnauthorized.Wrap("only the staking admin can update the config")
	}

	if msg.Admin != nil {
		cfg.Admin = *msg.Admin
	}
	if msg.EpochLength != nil {
		cfg.EpochLength = *msg.EpochLength
	}
	if msg.EpochApr != nil {
		apr := *msg.EpochApr
		cfg.NextEpochApr = &apr
	}
	if msg.WarmupLength != nil {
		cfg.WarmupLength = *msg.WarmupLength
	}
	if msg.Minters != nil {
		cfg.Minters = msg.Minters
	}
	if msg.PointsEnabled != nil {
		cfg.PointsEnabled = *msg.PointsEnabled
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := k.setConfig(ctx, cfg); err != nil {
		return nil, err
	}

	k.logger.Info().Str("admin", cfg.Admin).Msg("Staking config updated")
	return types.NewResponse().AddEvent("update_config", "contract", types.StakingModuleName), nil
}

// Jail freezes points accrual of an address and resets its points. Releasing restarts the clock.
func (k Keeper) Jail(ctx types.Context, sender string, msg types.JailMsg) (*types.Response, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if sender != cfg.Admin {
		return nil, types.ErrUnauthorized.Wrap("only the staking admin can jail")
	}
	if _, err := sdk.AccAddressFromBech32(msg.Address); err != nil {
		return nil, types.ErrInvalidInput.Wrapf("address: %s", err)
	}
	entry, err := k.getPoints(ctx, msg.Address)
	if err != nil {
		return nil, err
	}
	if msg.Jailed {
		entry.Total = sdkmath.ZeroInt()
	}
	entry.Jailed = msg.Jailed
	entry.LastUpdated = ctx.BlockTime()
	if err := k.points.Set(ctx, msg.Address, entry); err != nil {
		return nil, err
	}

	return types.NewResponse().AddEvent("jail",
		"address", msg.Address,
		"jailed", strconv.FormatBool(msg.Jailed),
	), nil
}
