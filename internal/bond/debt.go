package bond

import (
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/elys-network/bondstake/internal/types"
)

// DecayAmount returns how much of debt has decayed at now: min(D, D * elapsed / vestingTerm).
func DecayAmount(debt types.DebtState, vestingTerm uint64, now time.Time) (sdkmath.Int, error) {
	if vestingTerm == 0 {
		return sdkmath.Int{}, types.ErrArithmetic.Wrap("vesting term is zero")
	}
	elapsed := types.ElapsedSeconds(debt.LastDecayTime, now)
	decay := debt.OutstandingDebt.Mul(sdkmath.NewIntFromUint64(elapsed)).Quo(sdkmath.NewIntFromUint64(vestingTerm))
	return sdkmath.MinInt(decay, debt.OutstandingDebt), nil
}

// DebtDecay returns the decay accumulated since the last decay.
func (k Keeper) DebtDecay(ctx types.Context) (sdkmath.Int, error) {
	debt, err := k.GetDebt(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	terms, err := k.GetTerms(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return DecayAmount(debt, terms.VestingTerm, ctx.BlockTime())
}

// CurrentDebt returns the outstanding debt with decay applied, without storing it.
func (k Keeper) CurrentDebt(ctx types.Context) (sdkmath.Int, error) {
	debt, err := k.GetDebt(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	decay, err := k.DebtDecay(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return debt.OutstandingDebt.Sub(decay), nil
}

// ApplyDecay stores the decayed debt and returns it.
func (k Keeper) ApplyDecay(ctx types.Context) (types.DebtState, error) {
	debt, err := k.GetDebt(ctx)
	if err != nil {
		return debt, err
	}
	terms, err := k.GetTerms(ctx)
	if err != nil {
		return debt, err
	}
	decay, err := DecayAmount(debt, terms.VestingTerm, ctx.BlockTime())
	if err != nil {
		return debt, err
	}
	debt.OutstandingDebt = debt.OutstandingDebt.Sub(decay)
	debt.LastDecayTime = ctx.BlockTime()
	return debt, k.debt.Set(ctx, debt)
}

// AddDebt increases the outstanding debt.
func (k Keeper) AddDebt(ctx types.Context, amount sdkmath.Int) error {
	debt, err := k.GetDebt(ctx)
	if err != nil {
		return err
	}
	debt.OutstandingDebt = debt.OutstandingDebt.Add(amount)
	return k.debt.Set(ctx, debt)
}

func secondsDuration(s uint64) time.Duration {
	return time.Duration(s) * time.Second
}
