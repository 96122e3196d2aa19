package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/elys-network/bondstake/internal/app"
	"github.com/elys-network/bondstake/internal/store"
	"github.com/elys-network/bondstake/internal/types"
)

// Denoms of the default genesis.
const (
	Principal   = "ulp"
	Usd         = "uusd"
	BaseDenom   = "uohm"
	StakedDenom = "usohm"
)

// Clock is a settable app clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock stopped at t.
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by seconds.
func (c *Clock) Advance(seconds uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Duration(seconds) * time.Second)
}

// DefaultGenesis returns a protocol with a funded treasury, three principal holders and a fed oracle.
// The payout supply starts at 1,000,000 so the bond price is the minimum price until debt builds up.
func DefaultGenesis() types.Genesis {
	return types.Genesis{
		Oracle: types.OracleGenesis{
			Config:  types.OracleConfig{Admin: Admin, BaseAsset: Usd},
			Feeders: []types.FeederGenesis{{Denom: Principal, Feeder: Feeder}},
			Prices:  []types.PriceFeed{{Denom: Principal, Price: sdkmath.LegacyNewDecWithPrec(25, 1)}},
		},
		Bond: types.BondGenesis{
			Config: types.BondConfig{
				Usd:               Usd,
				Principal:         Principal,
				Admin:             Admin,
				Treasury:          Treasury,
				OracleTrustPeriod: 600,
				MinPayout:         sdkmath.OneInt(),
			},
			Terms: types.Terms{
				ControlVariable: sdkmath.LegacyNewDec(1000),
				MinimumPrice:    sdkmath.LegacyNewDec(2),
				MaxPayout:       sdkmath.LegacyNewDecWithPrec(2, 1),
				MaxDebt:         sdkmath.NewInt(500_000),
				VestingTerm:     3600,
			},
		},
		Staking: types.StakingGenesis{
			Config: types.StakingConfig{
				Admin:         Admin,
				BaseDenom:     BaseDenom,
				StakedDenom:   StakedDenom,
				EpochLength:   28800,
				EpochApr:      sdkmath.LegacyNewDecWithPrec(3, 3),
				PointsEnabled: true,
			},
			FirstEpochNumber: 1,
		},
		Balances: []types.GenesisBalance{
			{Address: Treasury, Coins: sdk.NewCoins(sdk.NewInt64Coin(BaseDenom, 1_000_000))},
			{Address: Alice, Coins: sdk.NewCoins(sdk.NewInt64Coin(Principal, 100_000))},
			{Address: Bob, Coins: sdk.NewCoins(sdk.NewInt64Coin(Principal, 100_000))},
			{Address: Carol, Coins: sdk.NewCoins(sdk.NewInt64Coin(Principal, 100_000))},
		},
	}
}

// NewApp instantiates gen on an in-memory app whose clock starts at GenesisTime.
func NewApp(t testing.TB, gen types.Genesis) (*app.App, *Clock) {
	t.Helper()
	return NewAppWithConfig(t, gen, app.Config{})
}

// NewAppWithConfig is NewApp with the recorder and metrics of cfg. The database and the clock are
// always replaced.
func NewAppWithConfig(t testing.TB, gen types.Genesis, cfg app.Config) (*app.App, *Clock) {
	t.Helper()

	db := store.NewMemDB()
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	clock := NewClock(GenesisTime)
	cfg.DB = db
	cfg.Clock = clock
	a, err := app.NewApp(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Instantiate(context.Background(), gen))
	return a, clock
}

// Balance reads a committed ledger balance.
func Balance(t testing.TB, a *app.App, addr, denom string) sdkmath.Int {
	t.Helper()

	ctx, err := a.QueryContext(context.Background())
	require.NoError(t, err)
	amount, err := a.Ledger.BalanceOf(ctx, denom, addr)
	require.NoError(t, err)
	return amount
}

// Supply reads a committed ledger supply.
func Supply(t testing.TB, a *app.App, denom string) sdkmath.Int {
	t.Helper()

	ctx, err := a.QueryContext(context.Background())
	require.NoError(t, err)
	amount, err := a.Ledger.SupplyOf(ctx, denom)
	require.NoError(t, err)
	return amount
}

// Coins builds a single coin set.
func Coins(denom string, amount int64) sdk.Coins {
	return sdk.NewCoins(sdk.NewInt64Coin(denom, amount))
}
