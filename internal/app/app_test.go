package app_test

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/elys-network/bondstake/internal/app"
	"github.com/elys-network/bondstake/internal/metrics"
	"github.com/elys-network/bondstake/internal/state"
	"github.com/elys-network/bondstake/internal/store"
	"github.com/elys-network/bondstake/internal/testutil"
	"github.com/elys-network/bondstake/internal/types"
)

func TestNewAppRequiresDB(t *testing.T) {
	_, err := app.NewApp(app.Config{})
	require.Error(t, err)
}

func TestNotInstantiated(t *testing.T) {
	db := store.NewMemDB()
	defer db.Close()
	a, err := app.NewApp(app.Config{DB: db, Clock: testutil.NewClock(testutil.GenesisTime)})
	require.NoError(t, err)

	_, err = a.Execute(context.Background(), testutil.Alice, nil, types.RebaseMsg{})
	require.ErrorIs(t, err, types.ErrNotInstantiated)
	_, err = a.Query(context.Background(), types.QueryRequest{Contract: types.BondModuleName, Query: types.QueryTerms})
	require.ErrorIs(t, err, types.ErrNotInstantiated)

	instantiated, err := a.Instantiated()
	require.NoError(t, err)
	require.False(t, instantiated)
}

func TestInstantiateOnce(t *testing.T) {
	a, _ := testutil.NewApp(t, testutil.DefaultGenesis())

	instantiated, err := a.Instantiated()
	require.NoError(t, err)
	require.True(t, instantiated)
	require.Error(t, a.Instantiate(context.Background(), testutil.DefaultGenesis()))

	require.Equal(t, int64(1_000_000), testutil.Balance(t, a, testutil.Treasury, testutil.BaseDenom).Int64())
}

func TestInstantiateRejectsInvalidGenesis(t *testing.T) {
	db := store.NewMemDB()
	defer db.Close()
	a, err := app.NewApp(app.Config{DB: db})
	require.NoError(t, err)

	gen := testutil.DefaultGenesis()
	gen.Bond.Terms.VestingTerm = 0
	require.ErrorIs(t, a.Instantiate(context.Background(), gen), types.ErrInvalidInput)

	instantiated, err := a.Instantiated()
	require.NoError(t, err)
	require.False(t, instantiated)
}

func TestFailedCallLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	recorder, err := state.OpenSQLite(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = recorder.Close() })
	a, _ := testutil.NewAppWithConfig(t, testutil.DefaultGenesis(), app.Config{Recorder: recorder})

	// The deposit itself passes, the slippage check fails after funds moved and debt decayed.
	_, err = a.Execute(ctx, testutil.Alice, testutil.Coins(testutil.Principal, 10_000), types.DepositMsg{
		MaxPrice: sdkmath.LegacyOneDec(),
	})
	require.ErrorIs(t, err, types.ErrSlippageExceeded)

	height, err := a.Height()
	require.NoError(t, err)
	require.Equal(t, int64(0), height)
	require.Equal(t, int64(100_000), testutil.Balance(t, a, testutil.Alice, testutil.Principal).Int64())
	require.True(t, testutil.Balance(t, a, a.Bond.Address(), testutil.Principal).IsZero())

	res, err := a.Execute(ctx, testutil.Alice, testutil.Coins(testutil.Principal, 10_000), types.DepositMsg{
		MaxPrice: sdkmath.LegacyNewDec(2),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Height)
	require.NotEmpty(t, res.TraceID)

	receipts, err := recorder.RecentReceipts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	require.True(t, receipts[0].Success)
	require.Equal(t, res.TraceID, receipts[0].TraceID)
	require.False(t, receipts[1].Success)
	require.Contains(t, receipts[1].Error, "slippage")

	summary, err := recorder.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), summary.TotalCalls)
}

func TestRebaseIsRecorded(t *testing.T) {
	ctx := context.Background()
	recorder, err := state.OpenSQLite(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = recorder.Close() })

	gen := testutil.DefaultGenesis()
	gen.Balances = append(gen.Balances, types.GenesisBalance{Address: testutil.Alice, Coins: testutil.Coins(testutil.BaseDenom, 10_000)})
	a, clock := testutil.NewAppWithConfig(t, gen, app.Config{Recorder: recorder})

	_, err = a.Execute(ctx, testutil.Alice, testutil.Coins(testutil.BaseDenom, 10_000), types.StakeMsg{})
	require.NoError(t, err)
	clock.Advance(28800)
	_, err = a.Execute(ctx, testutil.Bob, nil, types.RebaseMsg{})
	require.NoError(t, err)

	epochs, err := recorder.RecentEpochs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, epochs, 1)
	require.Equal(t, uint64(2), epochs[0].Number)
	require.Equal(t, "30", epochs[0].Minted)
	require.Equal(t, int64(2), epochs[0].Height)
	require.True(t, epochs[0].Start.Equal(testutil.GenesisTime.Add(28800*time.Second)))
}

func TestPanicBecomesArithmeticError(t *testing.T) {
	huge := sdkmath.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 250))
	gen := testutil.DefaultGenesis()
	gen.Balances = append(gen.Balances, types.GenesisBalance{
		Address: testutil.Alice,
		Coins:   sdk.NewCoins(sdk.NewInt64Coin(testutil.BaseDenom, 100), sdk.NewCoin(testutil.StakedDenom, huge)),
	})
	a, clock := testutil.NewApp(t, gen)
	ctx := context.Background()

	_, err := a.Execute(ctx, testutil.Alice, testutil.Coins(testutil.BaseDenom, 10), types.StakeMsg{})
	require.NoError(t, err)

	// Points accrue as balance times seconds and overflow 256 bits.
	clock.Advance(1 << 12)
	_, err = a.Execute(ctx, testutil.Alice, testutil.Coins(testutil.BaseDenom, 10), types.StakeMsg{})
	require.ErrorIs(t, err, types.ErrArithmetic)
	require.Equal(t, int64(90), testutil.Balance(t, a, testutil.Alice, testutil.BaseDenom).Int64())

	height, err := a.Height()
	require.NoError(t, err)
	require.Equal(t, int64(1), height)
}

func TestTransfer(t *testing.T) {
	a, _ := testutil.NewApp(t, testutil.DefaultGenesis())
	ctx := context.Background()

	_, err := a.Transfer(ctx, testutil.Alice, testutil.Bob, testutil.Coins(testutil.Principal, 40_000))
	require.NoError(t, err)
	require.Equal(t, int64(60_000), testutil.Balance(t, a, testutil.Alice, testutil.Principal).Int64())
	require.Equal(t, int64(140_000), testutil.Balance(t, a, testutil.Bob, testutil.Principal).Int64())

	_, err = a.Transfer(ctx, testutil.Alice, testutil.Bob, testutil.Coins(testutil.Principal, 60_001))
	require.ErrorIs(t, err, types.ErrInsufficientBalance)
	_, err = a.Transfer(ctx, testutil.Alice, "bogus", testutil.Coins(testutil.Principal, 1))
	require.ErrorIs(t, err, types.ErrInvalidInput)
	_, err = a.Transfer(ctx, testutil.Alice, testutil.Bob, nil)
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestExecuteValidatesSender(t *testing.T) {
	a, _ := testutil.NewApp(t, testutil.DefaultGenesis())
	_, err := a.Execute(context.Background(), "bogus", nil, types.RebaseMsg{})
	require.ErrorIs(t, err, types.ErrInvalidInput)
	_, err = a.Execute(context.Background(), testutil.Alice, nil, nil)
	require.ErrorIs(t, err, types.ErrUnknownMessage)
}

func TestLedgerQueries(t *testing.T) {
	a, _ := testutil.NewApp(t, testutil.DefaultGenesis())
	ctx := context.Background()

	res, err := a.Query(ctx, types.QueryRequest{Contract: types.LedgerStoreKey, Query: types.QueryBalance, Address: testutil.Alice, Denom: testutil.Principal})
	require.NoError(t, err)
	balance := res.(app.BalanceResponse)
	require.Equal(t, "100000ulp", balance.Coin.String())

	res, err = a.Query(ctx, types.QueryRequest{Contract: types.LedgerStoreKey, Query: types.QuerySupply, Denom: testutil.Principal})
	require.NoError(t, err)
	require.Equal(t, "300000ulp", res.(app.BalanceResponse).Coin.String())

	_, err = a.Query(ctx, types.QueryRequest{Contract: types.LedgerStoreKey, Query: types.QuerySupply, Denom: "!"})
	require.ErrorIs(t, err, types.ErrInvalidInput)
	_, err = a.Query(ctx, types.QueryRequest{Contract: "vault", Query: types.QuerySupply})
	require.ErrorIs(t, err, types.ErrUnknownMessage)
}

func TestOracleThroughHost(t *testing.T) {
	a, _ := testutil.NewApp(t, testutil.DefaultGenesis())
	ctx := context.Background()

	_, err := a.Execute(ctx, testutil.Admin, nil, types.RegisterFeederMsg{Denom: testutil.BaseDenom, Feeder: testutil.Carol})
	require.NoError(t, err)
	_, err = a.Execute(ctx, testutil.Carol, nil, types.FeedPriceMsg{Prices: []types.PriceFeed{{Denom: testutil.BaseDenom, Price: sdkmath.LegacyNewDec(10)}}})
	require.NoError(t, err)

	res, err := a.Query(ctx, types.QueryRequest{Contract: types.OracleModuleName, Query: types.QueryQuote, Base: testutil.BaseDenom, Quote: testutil.Principal})
	require.NoError(t, err)
	require.True(t, res.(types.Quote).Rate.Equal(sdkmath.LegacyNewDec(4)))
}

func TestMetricsFollowCalls(t *testing.T) {
	m := metrics.New()
	a, _ := testutil.NewAppWithConfig(t, testutil.DefaultGenesis(), app.Config{Metrics: m})
	ctx := context.Background()

	_, err := a.Execute(ctx, testutil.Alice, testutil.Coins(testutil.Principal, 10_000), types.DepositMsg{MaxPrice: sdkmath.LegacyNewDec(2)})
	require.NoError(t, err)
	_, err = a.Execute(ctx, testutil.Alice, testutil.Coins(testutil.Principal, 10_000), types.DepositMsg{MaxPrice: sdkmath.LegacyNewDec(1)})
	require.Error(t, err)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				// Labels come sorted by name: contract, result, type.
				key := mf.GetName()
				for _, label := range metric.GetLabel() {
					key += "/" + label.GetValue()
				}
				values[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[mf.GetName()] = metric.GetGauge().GetValue()
			}
		}
	}
	require.Equal(t, 1.0, values["bondstake_calls_total/bond/ok/deposit"])
	require.Equal(t, 1.0, values["bondstake_calls_total/bond/error/deposit"])
	require.Equal(t, 1.0, values["bondstake_height"])
	require.Equal(t, 5000.0, values["bondstake_bond_outstanding_debt"])
	require.Equal(t, 1.0, values["bondstake_staking_epoch"])
}
