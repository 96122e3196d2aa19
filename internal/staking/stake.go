package staking

import (
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/elys-network/bondstake/internal/types"
)

// Stake converts the attached base tokens into staked tokens for msg.To, directly or through warmup.
// The attached tokens are already in the pool when Stake runs.
func (k Keeper) Stake(ctx types.Context, sender string, funds sdk.Coins, msg types.StakeMsg) (*types.Response, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	amount, err := types.OneCoin(funds, cfg.BaseDenom)
	if err != nil {
		return nil, err
	}
	to := msg.To
	if to == "" {
		to = sender
	}
	if _, err := sdk.AccAddressFromBech32(to); err != nil {
		return nil, types.ErrInvalidInput.Wrapf("recipient address: %s", err)
	}

	rate, err := k.CurrentRate(ctx, amount, sdkmath.ZeroInt())
	if err != nil {
		return nil, err
	}
	mintAmount := sdkmath.LegacyNewDecFromInt(amount).QuoTruncate(rate).TruncateInt()
	if !mintAmount.IsPositive() {
		return nil, types.ErrInvalidInput.Wrapf("staking %s at rate %s mints nothing", amount, rate)
	}

	if err := k.AccruePoints(ctx, cfg, to); err != nil {
		return nil, err
	}

	resp := types.NewResponse()
	if cfg.WarmupLength == 0 {
		resp.AddMessages(types.MsgMint{
			Coin:      sdk.NewCoin(cfg.StakedDenom, mintAmount),
			Recipient: to,
		})
	} else {
		entry, found, err := k.GetWarmup(ctx, to)
		if err != nil {
			return nil, err
		}
		if !found {
			entry = types.WarmupEntry{Principal: sdkmath.ZeroInt(), Minted: sdkmath.ZeroInt()}
		}
		entry.Principal = entry.Principal.Add(amount)
		entry.Minted = entry.Minted.Add(mintAmount)
		entry.UnlockTime = ctx.BlockTime().Add(time.Duration(cfg.WarmupLength) * time.Second)
		if err := k.warmups.Set(ctx, to, entry); err != nil {
			return nil, err
		}
		resp.AddMessages(types.MsgSend{
			From:   k.poolAddress,
			To:     k.escrowAddress,
			Amount: sdk.NewCoins(sdk.NewCoin(cfg.BaseDenom, amount)),
		})
	}

	resp.AddEvent("stake",
		"sender", sender,
		"to", to,
		"amount", amount.String(),
		"minted", mintAmount.String(),
		"rate", rate.String(),
	)
	return resp, nil
}

// Claim settles the warmup entry of sender. Before the unlock time the principal is refunded and
// nothing is minted.
func (k Keeper) Claim(ctx types.Context, sender string, msg types.ClaimMsg) (*types.Response, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	entry, found, err := k.GetWarmup(ctx, sender)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrNoWarmupEntry.Wrapf("address %s", sender)
	}
	recipient := msg.Recipient
	if recipient == "" {
		recipient = sender
	}
	if _, err := sdk.AccAddressFromBech32(recipient); err != nil {
		return nil, types.ErrInvalidInput.Wrapf("recipient address: %s", err)
	}
	if err := k.warmups.Remove(ctx, sender); err != nil {
		return nil, err
	}

	if err := k.AccruePoints(ctx, cfg, recipient); err != nil {
		return nil, err
	}

	principal := types.NewCoins(cfg.BaseDenom, entry.Principal)
	resp := types.NewResponse()
	if ctx.BlockTime().Before(entry.UnlockTime) {
		resp.AddMessages(types.MsgSend{From: k.escrowAddress, To: recipient, Amount: principal})
		resp.AddEvent("claim_refund",
			"claimant", sender,
			"recipient", recipient,
			"principal", entry.Principal.String(),
		)
		return resp, nil
	}

	if entry.Minted.IsPositive() {
		resp.AddMessages(types.MsgMint{
			Coin:      sdk.NewCoin(cfg.StakedDenom, entry.Minted),
			Recipient: recipient,
		})
	}
	resp.AddMessages(types.MsgSend{From: k.escrowAddress, To: k.poolAddress, Amount: principal})
	resp.AddEvent("claim",
		"claimant", sender,
		"recipient", recipient,
		"principal", entry.Principal.String(),
		"minted", entry.Minted.String(),
	)
	return resp, nil
}

// Unstake burns the attached staked tokens and pays their value in base tokens to msg.To.
func (k Keeper) Unstake(ctx types.Context, sender string, funds sdk.Coins, msg types.UnstakeMsg) (*types.Response, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	amount, err := types.OneCoin(funds, cfg.StakedDenom)
	if err != nil {
		return nil, err
	}
	to := msg.To
	if to == "" {
		to = sender
	}
	if _, err := sdk.AccAddressFromBech32(to); err != nil {
		return nil, types.ErrInvalidInput.Wrapf("recipient address: %s", err)
	}

	// The attached staked tokens are still part of the supply until the burn below runs.
	rate, err := k.CurrentRate(ctx, sdkmath.ZeroInt(), sdkmath.ZeroInt())
	if err != nil {
		return nil, err
	}
	redeemAmount := sdkmath.LegacyNewDecFromInt(amount).Mul(rate).TruncateInt()

	// The attached tokens were moved to the pool before this call but were held until now.
	if err := k.accruePoints(ctx, cfg, sender, amount); err != nil {
		return nil, err
	}

	resp := types.NewResponse().AddMessages(
		types.MsgBurn{Holder: k.poolAddress, Coin: sdk.NewCoin(cfg.StakedDenom, amount)},
		types.MsgSend{From: k.poolAddress, To: to, Amount: types.NewCoins(cfg.BaseDenom, redeemAmount)},
	)
	resp.AddEvent("unstake",
		"sender", sender,
		"to", to,
		"amount", amount.String(),
		"redeemed", redeemAmount.String(),
		"rate", rate.String(),
	)
	return resp, nil
}

// Mint creates base tokens for a registered minter such as the bond contract.
func (k Keeper) Mint(ctx types.Context, sender string, msg types.MintMsg) (*types.Response, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.IsMinter(sender) {
		return nil, types.ErrUnauthorized.Wrapf("%s is not a minter", sender)
	}
	if msg.Amount.IsNil() || !msg.Amount.IsPositive() {
		return nil, types.ErrInvalidInput.Wrap("mint amount must be positive")
	}
	if _, err := sdk.AccAddressFromBech32(msg.To); err != nil {
		return nil, types.ErrInvalidInput.Wrapf("recipient address: %s", err)
	}

	return types.NewResponse().
		AddMessages(types.MsgMint{Coin: sdk.NewCoin(cfg.BaseDenom, msg.Amount), Recipient: msg.To}).
		AddEvent("mint", "minter", sender, "to", msg.To, "amount", msg.Amount.String()), nil
}
