package bond

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/elys-network/bondstake/internal/types"
)

// EventTypeRedeem is emitted for every redemption.
const EventTypeRedeem = "bond_redeem"

// Redeem releases the vested part of the position of msg.Recipient. With msg.Stake the payout is
// staked for the recipient instead of sent.
func (k Keeper) Redeem(ctx types.Context, sender string, msg types.RedeemMsg) (*types.Response, error) {
	recipient := msg.Recipient
	if recipient == "" {
		recipient = sender
	}
	pos, found, err := k.GetPosition(ctx, recipient)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, types.ErrNoPosition.Wrapf("address %s", recipient)
	}
	denom, err := k.payoutDenom(ctx)
	if err != nil {
		return nil, err
	}

	now := ctx.BlockTime()
	percent := pos.PercentVested(now)
	var delivered sdkmath.Int
	remaining := "0"
	if pos.FullyVested(now) {
		delivered = pos.Payout
		if err := k.positions.Remove(ctx, recipient); err != nil {
			return nil, err
		}
	} else {
		delivered = pos.PendingPayout(now)
		if delivered.IsZero() {
			return nil, types.ErrNothingToRedeem.Wrapf("address %s", recipient)
		}
		elapsed := types.ElapsedSeconds(pos.LastTime, now)
		pos.Payout = pos.Payout.Sub(delivered)
		pos.VestingTimeLeft -= elapsed
		pos.LastTime = now
		if err := k.positions.Set(ctx, recipient, pos); err != nil {
			return nil, err
		}
		remaining = pos.Payout.String()
	}

	resp := types.NewResponse()
	if delivered.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(denom, delivered))
		if msg.Stake {
			resp.AddMessages(types.MsgExecute{Funds: coins, Msg: types.StakeMsg{To: recipient}})
		} else {
			resp.AddMessages(types.MsgSend{From: k.address, To: recipient, Amount: coins})
		}
	}
	resp.AddEvent(EventTypeRedeem,
		"recipient", recipient,
		"payout", delivered.String(),
		"remaining", remaining,
		"percent_vested", percent.String(),
	)
	return resp, nil
}
