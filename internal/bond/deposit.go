package bond

import (
	"strconv"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/elys-network/bondstake/internal/types"
)

// EventTypeDeposit is emitted for every accepted bond.
const EventTypeDeposit = "bond_deposit"

// Deposit bonds the attached principal for msg.Depositor. The principal goes to the treasury and the
// payout is minted to the bond account, where it vests.
func (k Keeper) Deposit(ctx types.Context, sender string, funds sdk.Coins, msg types.DepositMsg) (*types.Response, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	amount, err := types.OneCoin(funds, cfg.Principal)
	if err != nil {
		return nil, err
	}
	depositor := msg.Depositor
	if depositor == "" {
		depositor = sender
	}
	if _, err := sdk.AccAddressFromBech32(depositor); err != nil {
		return nil, types.ErrInvalidInput.Wrapf("depositor address: %s", err)
	}
	if msg.MaxPrice.IsNil() {
		return nil, types.ErrInvalidInput.Wrap("max price is required")
	}

	debt, err := k.ApplyDecay(ctx)
	if err != nil {
		return nil, err
	}
	terms, err := k.GetTerms(ctx)
	if err != nil {
		return nil, err
	}
	if debt.OutstandingDebt.GT(terms.MaxDebt) {
		return nil, types.ErrMaxDebtReached.Wrapf("debt %s exceeds %s", debt.OutstandingDebt, terms.MaxDebt)
	}

	ratio, err := k.DebtRatio(ctx)
	if err != nil {
		return nil, err
	}
	var price sdkmath.LegacyDec
	if cfg.FloorRelief {
		price, err = k.currentPriceMutating(ctx, terms, ratio)
		if err != nil {
			return nil, err
		}
	} else {
		price = CurrentPrice(terms, ratio)
	}
	if msg.MaxPrice.LT(price) {
		return nil, types.ErrSlippageExceeded.Wrapf("price %s, max price %s", price, msg.MaxPrice)
	}

	pricePaid := price
	if cfg.Usd != "" {
		asset, err := k.AssetPrice(ctx)
		if err != nil {
			return nil, err
		}
		pricePaid = price.Mul(asset)
	}

	payoutAmount, err := payout(amount, price)
	if err != nil {
		return nil, err
	}
	if payoutAmount.LT(cfg.MinPayout) {
		return nil, types.ErrBondTooSmall.Wrapf("payout %s is below %s", payoutAmount, cfg.MinPayout)
	}
	maxPayout, err := k.MaxPayout(ctx)
	if err != nil {
		return nil, err
	}
	if payoutAmount.GT(maxPayout) {
		return nil, types.ErrBondTooLarge.Wrapf("payout %s exceeds %s", payoutAmount, maxPayout)
	}

	if err := k.AddDebt(ctx, payoutAmount); err != nil {
		return nil, err
	}

	pos, found, err := k.GetPosition(ctx, depositor)
	if err != nil {
		return nil, err
	}
	if !found {
		pos = types.NewPosition()
	}
	pos.Payout = pos.Payout.Add(payoutAmount)
	pos.VestingTimeLeft = terms.VestingTerm
	pos.LastTime = ctx.BlockTime()
	pos.PricePaid = pricePaid
	if err := k.positions.Set(ctx, depositor, pos); err != nil {
		return nil, err
	}

	if err := k.StepAdjustment(ctx); err != nil {
		return nil, err
	}

	resp := types.NewResponse().AddMessages(
		types.MsgSend{From: k.address, To: cfg.Treasury, Amount: sdk.NewCoins(sdk.NewCoin(cfg.Principal, amount))},
		types.MsgExecute{Msg: types.MintMsg{To: k.address, Amount: payoutAmount}},
	)
	resp.AddEvent(EventTypeDeposit,
		"depositor", depositor,
		"amount", amount.String(),
		"payout", payoutAmount.String(),
		"price", price.String(),
		"price_paid", pricePaid.String(),
		"expires", strconv.FormatInt(ctx.BlockTime().Unix()+int64(terms.VestingTerm), 10),
	)

	k.logger.Info().
		Str("depositor", depositor).
		Str("amount", amount.String()).
		Str("payout", payoutAmount.String()).
		Str("price", price.String()).
		Msg("Bond created")

	return resp, nil
}
