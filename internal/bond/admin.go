package bond

import (
	"github.com/elys-network/bondstake/internal/types"
)

func (k Keeper) requireAdmin(ctx types.Context, sender string) (types.BondConfig, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return cfg, err
	}
	if sender != cfg.Admin {
		return cfg, types.ErrUnauthorized.Wrap("only the bond admin can do this")
	}
	return cfg, nil
}

// UpdateTerms replaces the terms as a whole.
func (k Keeper) UpdateTerms(ctx types.Context, sender string, msg types.UpdateTermsMsg) (*types.Response, error) {
	if _, err := k.requireAdmin(ctx, sender); err != nil {
		return nil, err
	}
	if err := msg.Terms.Validate(); err != nil {
		return nil, err
	}
	if err := k.terms.Set(ctx, msg.Terms); err != nil {
		return nil, err
	}

	k.logger.Info().
		Str("control_variable", msg.Terms.ControlVariable.String()).
		Str("minimum_price", msg.Terms.MinimumPrice.String()).
		Uint64("vesting_term", msg.Terms.VestingTerm).
		Msg("Bond terms updated")
	return types.NewResponse().AddEvent("update_terms", "contract", types.BondModuleName), nil
}

// UpdateConfig changes the fields set in msg.
func (k Keeper) UpdateConfig(ctx types.Context, sender string, msg types.UpdateBondConfigMsg) (*types.Response, error) {
	cfg, err := k.requireAdmin(ctx, sender)
	if err != nil {
		return nil, err
	}
	if msg.Usd != nil {
		cfg.Usd = *msg.Usd
	}
	if msg.Principal != nil {
		cfg.Principal = *msg.Principal
	}
	if msg.Admin != nil {
		cfg.Admin = *msg.Admin
	}
	if msg.Treasury != nil {
		cfg.Treasury = *msg.Treasury
	}
	if msg.OracleTrustPeriod != nil {
		cfg.OracleTrustPeriod = *msg.OracleTrustPeriod
	}
	if msg.FloorRelief != nil {
		cfg.FloorRelief = *msg.FloorRelief
	}
	if msg.MinPayout != nil {
		cfg.MinPayout = *msg.MinPayout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := k.config.Set(ctx, cfg); err != nil {
		return nil, err
	}
	return types.NewResponse().AddEvent("update_config", "contract", types.BondModuleName), nil
}

// UpdateAdjustment changes the fields set in msg. The buffer is measured from the update.
func (k Keeper) UpdateAdjustment(ctx types.Context, sender string, msg types.UpdateAdjustmentMsg) (*types.Response, error) {
	if _, err := k.requireAdmin(ctx, sender); err != nil {
		return nil, err
	}
	adjustment, err := k.GetAdjustment(ctx)
	if err != nil {
		return nil, err
	}
	if msg.Add != nil {
		adjustment.Add = *msg.Add
	}
	if msg.Rate != nil {
		adjustment.Rate = *msg.Rate
	}
	if msg.Target != nil {
		adjustment.Target = *msg.Target
	}
	if msg.Buffer != nil {
		adjustment.Buffer = *msg.Buffer
	}
	if adjustment.Rate.IsNegative() || adjustment.Target.IsNegative() {
		return nil, types.ErrInvalidInput.Wrap("adjustment rate and target must be non-negative")
	}
	adjustment.LastTime = ctx.BlockTime()
	if err := k.adjustment.Set(ctx, adjustment); err != nil {
		return nil, err
	}

	k.logger.Info().Str("adjustment", adjustment.String()).Msg("Bond adjustment updated")
	return types.NewResponse().AddEvent("update_adjustment", "contract", types.BondModuleName), nil
}
