/*

This file contains the staking keeper: the base token pool, the staked derivative and the epochs
that compound the pool.

The pool is the staking module account. Principal in warmup is escrowed in a separate account so it
does not take part in the exchange rate until it is claimed.

*/

package staking

import (
	"errors"
	"time"

	"cosmossdk.io/collections"
	"github.com/rs/zerolog"

	"github.com/elys-network/bondstake/internal/logger"
	"github.com/elys-network/bondstake/internal/store"
	"github.com/elys-network/bondstake/internal/types"
)

var (
	configPrefix  = collections.NewPrefix(0)
	epochPrefix   = collections.NewPrefix(1)
	warmupsPrefix = collections.NewPrefix(2)
	pointsPrefix  = collections.NewPrefix(3)
)

// Keeper implements the staking contract.
type Keeper struct {
	ledger LedgerKeeper
	logger zerolog.Logger

	poolAddress   string
	escrowAddress string

	Schema  collections.Schema
	config  collections.Item[types.StakingConfig]
	epoch   collections.Item[types.EpochState]
	warmups collections.Map[string, types.WarmupEntry]
	points  collections.Map[string, types.StakingPoints]
}

// NewKeeper creates a staking keeper reading balances from ledger.
func NewKeeper(ledger LedgerKeeper) Keeper {
	sb := collections.NewSchemaBuilder(store.NewKVStoreService(types.StorePrefix(types.StakingModuleName)))
	k := Keeper{
		ledger:        ledger,
		logger:        logger.GetForComponent("staking_keeper"),
		poolAddress:   types.ModuleAddress(types.StakingModuleName),
		escrowAddress: types.ModuleAddress(types.WarmupModuleName),
		config:        collections.NewItem(sb, configPrefix, "config", store.JSONValue[types.StakingConfig]("staking_config")),
		epoch:         collections.NewItem(sb, epochPrefix, "epoch", store.JSONValue[types.EpochState]("epoch_state")),
		warmups:       collections.NewMap(sb, warmupsPrefix, "warmups", collections.StringKey, store.JSONValue[types.WarmupEntry]("warmup_entry")),
		points:        collections.NewMap(sb, pointsPrefix, "points", collections.StringKey, store.JSONValue[types.StakingPoints]("staking_points")),
	}
	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema
	return k
}

// PoolAddress is the account holding the staked base tokens.
func (k Keeper) PoolAddress() string { return k.poolAddress }

// EscrowAddress is the account holding principal during warmup.
func (k Keeper) EscrowAddress() string { return k.escrowAddress }

// OwnsAccount reports whether staking may move funds out of addr.
func (k Keeper) OwnsAccount(addr string) bool {
	return addr == k.poolAddress || addr == k.escrowAddress
}

// OwnsDenom reports whether staking may mint or burn denom.
func (k Keeper) OwnsDenom(ctx types.Context, denom string) bool {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return false
	}
	return denom == cfg.BaseDenom || denom == cfg.StakedDenom
}

// InitGenesis stores the config and opens the first epoch.
func (k Keeper) InitGenesis(ctx types.Context, gen types.StakingGenesis) error {
	if err := gen.Config.Validate(); err != nil {
		return err
	}
	length := time.Duration(gen.Config.EpochLength) * time.Second
	end := gen.FirstEpochEnd.UTC()
	if end.IsZero() {
		end = ctx.BlockTime().Add(length)
	}
	if err := k.config.Set(ctx, gen.Config); err != nil {
		return err
	}
	return k.epoch.Set(ctx, types.EpochState{
		Start:  end.Add(-length),
		End:    end,
		Number: gen.FirstEpochNumber,
	})
}

// GetConfig returns the staking config.
func (k Keeper) GetConfig(ctx types.Context) (types.StakingConfig, error) {
	cfg, err := k.config.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return cfg, types.ErrNotInstantiated.Wrap(types.StakingModuleName)
	}
	return cfg, err
}

func (k Keeper) setConfig(ctx types.Context, cfg types.StakingConfig) error {
	return k.config.Set(ctx, cfg)
}

// GetEpoch returns the running epoch.
func (k Keeper) GetEpoch(ctx types.Context) (types.EpochState, error) {
	epoch, err := k.epoch.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return epoch, types.ErrNotInstantiated.Wrap(types.StakingModuleName)
	}
	return epoch, err
}

func (k Keeper) setEpoch(ctx types.Context, epoch types.EpochState) error {
	return k.epoch.Set(ctx, epoch)
}

// GetWarmup returns the warmup entry of addr.
func (k Keeper) GetWarmup(ctx types.Context, addr string) (types.WarmupEntry, bool, error) {
	entry, err := k.warmups.Get(ctx, addr)
	if errors.Is(err, collections.ErrNotFound) {
		return entry, false, nil
	}
	if err != nil {
		return entry, false, err
	}
	return entry, true, nil
}
