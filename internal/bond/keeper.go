/*

This file contains the bond keeper.

A deposit buys payout tokens at a price driven by the ratio between the outstanding bond debt and
the payout token supply. The payout vests linearly and is released by redemptions. Outstanding debt
decays linearly over the vesting term.

*/

package bond

import (
	"errors"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog"

	"github.com/elys-network/bondstake/internal/logger"
	"github.com/elys-network/bondstake/internal/store"
	"github.com/elys-network/bondstake/internal/types"
)

var (
	configPrefix     = collections.NewPrefix(0)
	termsPrefix      = collections.NewPrefix(1)
	debtPrefix       = collections.NewPrefix(2)
	adjustmentPrefix = collections.NewPrefix(3)
	positionsPrefix  = collections.NewPrefix(4)
)

// Keeper implements the bond contract.
type Keeper struct {
	ledger  LedgerKeeper
	oracle  OracleKeeper
	staking StakingKeeper
	logger  zerolog.Logger

	address string

	Schema     collections.Schema
	config     collections.Item[types.BondConfig]
	terms      collections.Item[types.Terms]
	debt       collections.Item[types.DebtState]
	adjustment collections.Item[types.Adjustment]
	positions  collections.Map[string, types.Position]
}

// NewKeeper creates a bond keeper.
func NewKeeper(ledger LedgerKeeper, oracle OracleKeeper, staking StakingKeeper) Keeper {
	sb := collections.NewSchemaBuilder(store.NewKVStoreService(types.StorePrefix(types.BondModuleName)))
	k := Keeper{
		ledger:     ledger,
		oracle:     oracle,
		staking:    staking,
		logger:     logger.GetForComponent("bond_keeper"),
		address:    types.ModuleAddress(types.BondModuleName),
		config:     collections.NewItem(sb, configPrefix, "config", store.JSONValue[types.BondConfig]("bond_config")),
		terms:      collections.NewItem(sb, termsPrefix, "terms", store.JSONValue[types.Terms]("terms")),
		debt:       collections.NewItem(sb, debtPrefix, "debt", store.JSONValue[types.DebtState]("debt_state")),
		adjustment: collections.NewItem(sb, adjustmentPrefix, "adjustment", store.JSONValue[types.Adjustment]("adjustment")),
		positions:  collections.NewMap(sb, positionsPrefix, "positions", collections.StringKey, store.JSONValue[types.Position]("position")),
	}
	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema
	return k
}

// Address is the bond account. It receives minted payout until it is redeemed.
func (k Keeper) Address() string { return k.address }

// OwnsAccount reports whether the bond may move funds out of addr.
func (k Keeper) OwnsAccount(addr string) bool { return addr == k.address }

// OwnsDenom reports whether the bond may mint or burn denom. It may not; payout is minted through staking.
func (k Keeper) OwnsDenom(types.Context, string) bool { return false }

// InitGenesis stores config, terms and adjustment and starts with no debt.
func (k Keeper) InitGenesis(ctx types.Context, gen types.BondGenesis) error {
	if gen.Config.MinPayout.IsNil() {
		gen.Config.MinPayout = sdkmath.OneInt()
	}
	if err := gen.Config.Validate(); err != nil {
		return err
	}
	if err := gen.Terms.Validate(); err != nil {
		return err
	}
	adjustment := types.NewAdjustment(ctx.BlockTime())
	if gen.Adjustment != nil {
		adjustment = *gen.Adjustment
		if adjustment.LastTime.IsZero() {
			adjustment.LastTime = ctx.BlockTime()
		}
	}

	if err := k.config.Set(ctx, gen.Config); err != nil {
		return err
	}
	if err := k.terms.Set(ctx, gen.Terms); err != nil {
		return err
	}
	if err := k.adjustment.Set(ctx, adjustment); err != nil {
		return err
	}
	return k.debt.Set(ctx, types.DebtState{
		OutstandingDebt: sdkmath.ZeroInt(),
		LastDecayTime:   ctx.BlockTime(),
	})
}

func notInstantiated[T any](v T, err error) (T, error) {
	if errors.Is(err, collections.ErrNotFound) {
		return v, types.ErrNotInstantiated.Wrap(types.BondModuleName)
	}
	return v, err
}

// GetConfig returns the bond config.
func (k Keeper) GetConfig(ctx types.Context) (types.BondConfig, error) {
	return notInstantiated(k.config.Get(ctx))
}

// GetTerms returns the bond terms.
func (k Keeper) GetTerms(ctx types.Context) (types.Terms, error) {
	return notInstantiated(k.terms.Get(ctx))
}

// GetDebt returns the stored debt state, without decay applied.
func (k Keeper) GetDebt(ctx types.Context) (types.DebtState, error) {
	return notInstantiated(k.debt.Get(ctx))
}

// GetAdjustment returns the control variable adjustment.
func (k Keeper) GetAdjustment(ctx types.Context) (types.Adjustment, error) {
	return notInstantiated(k.adjustment.Get(ctx))
}

// GetPosition returns the position of addr.
func (k Keeper) GetPosition(ctx types.Context, addr string) (types.Position, bool, error) {
	pos, err := k.positions.Get(ctx, addr)
	if errors.Is(err, collections.ErrNotFound) {
		return pos, false, nil
	}
	if err != nil {
		return pos, false, err
	}
	return pos, true, nil
}

// payoutDenom is the token bonds pay out, the base token of staking.
func (k Keeper) payoutDenom(ctx types.Context) (string, error) {
	cfg, err := k.staking.GetConfig(ctx)
	if err != nil {
		return "", err
	}
	return cfg.BaseDenom, nil
}

// payoutSupply is the supply of the payout token.
func (k Keeper) payoutSupply(ctx types.Context) (sdkmath.Int, error) {
	denom, err := k.payoutDenom(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return k.ledger.SupplyOf(ctx, denom)
}
