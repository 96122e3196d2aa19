package bond

import (
	sdkmath "cosmossdk.io/math"

	"github.com/elys-network/bondstake/internal/types"
)

// CurrentPrice is max(control_variable * debtRatio, minimum_price).
func CurrentPrice(terms types.Terms, debtRatio sdkmath.LegacyDec) sdkmath.LegacyDec {
	price := terms.ControlVariable.Mul(debtRatio)
	if price.LT(terms.MinimumPrice) {
		return terms.MinimumPrice
	}
	return price
}

// currentPriceMutating prices like CurrentPrice and, once the floor does not bind anymore, removes it
// for good. Only used when the config asks for floor relief.
func (k Keeper) currentPriceMutating(ctx types.Context, terms types.Terms, debtRatio sdkmath.LegacyDec) (sdkmath.LegacyDec, error) {
	price := terms.ControlVariable.Mul(debtRatio)
	if price.LT(terms.MinimumPrice) {
		return terms.MinimumPrice, nil
	}
	if !terms.MinimumPrice.IsZero() {
		terms.MinimumPrice = sdkmath.LegacyZeroDec()
		if err := k.terms.Set(ctx, terms); err != nil {
			return sdkmath.LegacyDec{}, err
		}
		k.logger.Warn().Str("price", price.String()).Msg("Minimum price lifted")
	}
	return price, nil
}

// DebtRatio is the current debt over the payout token supply. An empty supply gives zero.
func (k Keeper) DebtRatio(ctx types.Context) (sdkmath.LegacyDec, error) {
	debt, err := k.CurrentDebt(ctx)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	supply, err := k.payoutSupply(ctx)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	if !supply.IsPositive() {
		return sdkmath.LegacyZeroDec(), nil
	}
	return sdkmath.LegacyNewDecFromInt(debt).QuoTruncate(sdkmath.LegacyNewDecFromInt(supply)), nil
}

// BondPrice is the current price of one payout token in principal.
func (k Keeper) BondPrice(ctx types.Context) (sdkmath.LegacyDec, error) {
	terms, err := k.GetTerms(ctx)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	ratio, err := k.DebtRatio(ctx)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	return CurrentPrice(terms, ratio), nil
}

// AssetPrice is the oracle price of the principal in USD. Quotes older than the trust period are rejected.
func (k Keeper) AssetPrice(ctx types.Context) (sdkmath.LegacyDec, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	if cfg.Usd == "" {
		return sdkmath.LegacyDec{}, types.ErrPriceNotFound.Wrap("no usd denom configured")
	}
	quote, err := k.oracle.Quote(ctx, cfg.Principal, cfg.Usd)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	if !quote.IsFresh(ctx.BlockTime(), cfg.OracleTrustPeriod) {
		return sdkmath.LegacyDec{}, types.ErrStalePrice.Wrapf("%s/%s", cfg.Principal, cfg.Usd)
	}
	return quote.Rate, nil
}

// BondPriceInUsd is the bond price multiplied by the asset price.
func (k Keeper) BondPriceInUsd(ctx types.Context) (sdkmath.LegacyDec, error) {
	price, err := k.BondPrice(ctx)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	asset, err := k.AssetPrice(ctx)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	return price.Mul(asset), nil
}

// StandardizedDebtRatio is the debt ratio valued in USD.
func (k Keeper) StandardizedDebtRatio(ctx types.Context) (sdkmath.LegacyDec, error) {
	ratio, err := k.DebtRatio(ctx)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	asset, err := k.AssetPrice(ctx)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	return ratio.Mul(asset), nil
}

// MaxPayout is the largest payout a single deposit may produce.
func (k Keeper) MaxPayout(ctx types.Context) (sdkmath.Int, error) {
	terms, err := k.GetTerms(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	supply, err := k.payoutSupply(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return sdkmath.LegacyNewDecFromInt(supply).Mul(terms.MaxPayout).TruncateInt(), nil
}

// PayoutFor returns the payout value would buy at the current price.
func (k Keeper) PayoutFor(ctx types.Context, value sdkmath.Int) (sdkmath.Int, error) {
	price, err := k.BondPrice(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return payout(value, price)
}

func payout(value sdkmath.Int, price sdkmath.LegacyDec) (sdkmath.Int, error) {
	if !price.IsPositive() {
		return sdkmath.Int{}, types.ErrArithmetic.Wrap("bond price is zero")
	}
	return sdkmath.LegacyNewDecFromInt(value).QuoTruncate(price).TruncateInt(), nil
}

// StepAdjustment moves the control variable one step toward the adjustment target when the buffer
// has passed. Reaching the target stops the adjustment.
func (k Keeper) StepAdjustment(ctx types.Context) error {
	adjustment, err := k.GetAdjustment(ctx)
	if err != nil {
		return err
	}
	now := ctx.BlockTime()
	if adjustment.Rate.IsZero() || now.Before(adjustment.LastTime.Add(secondsDuration(adjustment.Buffer))) {
		return nil
	}
	terms, err := k.GetTerms(ctx)
	if err != nil {
		return err
	}

	if adjustment.Add {
		terms.ControlVariable = terms.ControlVariable.Add(adjustment.Rate)
		if terms.ControlVariable.GTE(adjustment.Target) {
			adjustment.Rate = sdkmath.LegacyZeroDec()
		}
	} else {
		if terms.ControlVariable.GT(adjustment.Rate) {
			terms.ControlVariable = terms.ControlVariable.Sub(adjustment.Rate)
		} else {
			terms.ControlVariable = sdkmath.LegacyZeroDec()
		}
		if terms.ControlVariable.LTE(adjustment.Target) {
			adjustment.Rate = sdkmath.LegacyZeroDec()
		}
	}
	adjustment.LastTime = now

	if err := k.terms.Set(ctx, terms); err != nil {
		return err
	}
	if err := k.adjustment.Set(ctx, adjustment); err != nil {
		return err
	}

	k.logger.Debug().
		Str("control_variable", terms.ControlVariable.String()).
		Bool("done", adjustment.Rate.IsZero()).
		Msg("Control variable adjusted")
	return nil
}
