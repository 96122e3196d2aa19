/*

This file contains the host that runs the contracts. Every call executes against a staged copy of
the state and is committed only if the handler and every message it emitted succeeded.

*/

package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/rs/zerolog"

	"github.com/elys-network/bondstake/internal/bond"
	"github.com/elys-network/bondstake/internal/ledger"
	"github.com/elys-network/bondstake/internal/logger"
	"github.com/elys-network/bondstake/internal/metrics"
	"github.com/elys-network/bondstake/internal/oracle"
	"github.com/elys-network/bondstake/internal/staking"
	"github.com/elys-network/bondstake/internal/state"
	"github.com/elys-network/bondstake/internal/store"
	"github.com/elys-network/bondstake/internal/types"
)

// maxCallDepth bounds contract to contract calls.
const maxCallDepth = 8

type hostState struct {
	Height       int64     `json:"height"`
	Instantiated bool      `json:"instantiated"`
	GenesisTime  time.Time `json:"genesis_time"`
}

// Clock supplies block times.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// contract is what the host needs from every contract besides its handlers.
type contract interface {
	OwnsAccount(addr string) bool
	OwnsDenom(ctx types.Context, denom string) bool
	Query(ctx types.Context, req types.QueryRequest) (any, error)
}

// App hosts the ledger, the oracle, the staking and the bond contracts.
type App struct {
	logger   zerolog.Logger
	db       *store.DB
	clock    Clock
	recorder state.Recorder
	metrics  *metrics.Metrics

	// Serializes calls; each one is a block.
	mu sync.Mutex

	Ledger  ledger.Keeper
	Oracle  oracle.Keeper
	Staking staking.Keeper
	Bond    bond.Keeper

	contracts map[string]contract

	host collections.Item[hostState]
}

// Config holds the dependencies of an App.
type Config struct {
	DB       *store.DB
	Clock    Clock
	Recorder state.Recorder
	Metrics  *metrics.Metrics
}

// NewApp wires the keepers together.
func NewApp(cfg Config) (*App, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("app configuration validation failed: %w", err)
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Recorder == nil {
		cfg.Recorder = state.Noop{}
	}

	ledgerKeeper := ledger.NewKeeper()
	oracleKeeper := oracle.NewKeeper()
	stakingKeeper := staking.NewKeeper(ledgerKeeper)
	bondKeeper := bond.NewKeeper(ledgerKeeper, oracleKeeper, stakingKeeper)

	a := &App{
		logger:   logger.GetForComponent("app"),
		db:       cfg.DB,
		clock:    cfg.Clock,
		recorder: cfg.Recorder,
		metrics:  cfg.Metrics,
		Ledger:   ledgerKeeper,
		Oracle:   oracleKeeper,
		Staking:  stakingKeeper,
		Bond:     bondKeeper,
		contracts: map[string]contract{
			types.OracleModuleName:  oracleKeeper,
			types.StakingModuleName: stakingKeeper,
			types.BondModuleName:    bondKeeper,
		},
	}

	sb := collections.NewSchemaBuilder(store.NewKVStoreService(types.StorePrefix(types.HostStoreKey)))
	a.host = collections.NewItem(sb, collections.NewPrefix(0), "state", store.JSONValue[hostState]("host_state"))
	if _, err := sb.Build(); err != nil {
		return nil, fmt.Errorf("host schema: %w", err)
	}
	return a, nil
}

func validateConfig(cfg Config) error {
	if cfg.DB == nil {
		return fmt.Errorf("database cannot be nil")
	}
	return nil
}

// Recorder returns the history recorder of the app.
func (a *App) Recorder() state.Recorder {
	return a.recorder
}

// hostContext wraps kv for host bookkeeping outside of any contract call.
func (a *App) hostContext(kv storetypes.KVStore) types.Context {
	return types.NewContext(context.Background(), kv, a.now(), 0, a.logger)
}

func (a *App) loadHost(kv storetypes.KVStore) (hostState, error) {
	hs, err := a.host.Get(a.hostContext(kv))
	if errors.Is(err, collections.ErrNotFound) {
		return hostState{}, nil
	}
	return hs, err
}

func (a *App) saveHost(kv storetypes.KVStore, hs hostState) error {
	return a.host.Set(a.hostContext(kv), hs)
}

func (a *App) now() time.Time {
	return a.clock.Now().UTC().Truncate(time.Second)
}

// Height returns the height of the last committed call.
func (a *App) Height() (int64, error) {
	hs, err := a.loadHost(a.db.ReadOnly())
	return hs.Height, err
}

// Instantiated reports whether the genesis has been applied.
func (a *App) Instantiated() (bool, error) {
	hs, err := a.loadHost(a.db.ReadOnly())
	return hs.Instantiated, err
}

// Instantiate seeds the ledger and instantiates every contract. The bond contract is added to the
// staking minters so it can mint payout.
func (a *App) Instantiate(ctx context.Context, gen types.Genesis) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	bondAddress := a.Bond.Address()
	if !gen.Staking.Config.IsMinter(bondAddress) {
		gen.Staking.Config.Minters = append(gen.Staking.Config.Minters, bondAddress)
	}
	if gen.Bond.Config.MinPayout.IsNil() {
		gen.Bond.Config.MinPayout = sdkmath.OneInt()
	}
	if err := gen.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}

	tx := a.db.Begin()
	defer tx.Discard()
	kv := tx.KVStore()

	hs, err := a.loadHost(kv)
	if err != nil {
		return err
	}
	if hs.Instantiated {
		return fmt.Errorf("already instantiated at %s", hs.GenesisTime.Format(time.RFC3339))
	}

	now := a.now()
	sdkCtx := types.NewContext(ctx, kv, now, hs.Height, a.logger)
	for _, b := range gen.Balances {
		for _, coin := range b.Coins {
			if err := a.Ledger.Mint(sdkCtx, coin, b.Address); err != nil {
				return fmt.Errorf("genesis balance of %s: %w", b.Address, err)
			}
		}
	}
	if err := a.Oracle.InitGenesis(sdkCtx, gen.Oracle); err != nil {
		return fmt.Errorf("oracle genesis: %w", err)
	}
	if err := a.Staking.InitGenesis(sdkCtx, gen.Staking); err != nil {
		return fmt.Errorf("staking genesis: %w", err)
	}
	if err := a.Bond.InitGenesis(sdkCtx, gen.Bond); err != nil {
		return fmt.Errorf("bond genesis: %w", err)
	}

	hs.Instantiated = true
	hs.GenesisTime = now
	if err := a.saveHost(kv, hs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	version, err := a.recorder.RecordGenesis(ctx, gen)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to record genesis")
	}
	a.logger.Info().
		Time("genesisTime", now).
		Int("version", version).
		Str("bond", bondAddress).
		Str("stakingPool", a.Staking.PoolAddress()).
		Msg("Contracts instantiated")
	a.refreshGauges(ctx)
	return nil
}
