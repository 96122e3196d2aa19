package scheduler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elys-network/bondstake/internal/scheduler"
	"github.com/elys-network/bondstake/internal/testutil"
	"github.com/elys-network/bondstake/internal/types"
)

func TestRunRebase(t *testing.T) {
	gen := testutil.DefaultGenesis()
	gen.Balances = append(gen.Balances, types.GenesisBalance{Address: testutil.Alice, Coins: testutil.Coins(testutil.BaseDenom, 10_000)})
	a, clock := testutil.NewApp(t, gen)
	ctx := context.Background()
	_, err := a.Execute(ctx, testutil.Alice, testutil.Coins(testutil.BaseDenom, 10_000), types.StakeMsg{})
	require.NoError(t, err)

	s := scheduler.NewScheduler(ctx, a, testutil.Carol)

	sent, err := s.RunRebase()
	require.NoError(t, err)
	require.False(t, sent)

	clock.Advance(28800)
	sent, err = s.RunRebase()
	require.NoError(t, err)
	require.True(t, sent)
	require.Equal(t, int64(10_030), testutil.Balance(t, a, a.Staking.PoolAddress(), testutil.BaseDenom).Int64())

	sent, err = s.RunRebase()
	require.NoError(t, err)
	require.False(t, sent)
}

func TestRegisterRebase(t *testing.T) {
	a, _ := testutil.NewApp(t, testutil.DefaultGenesis())
	s := scheduler.NewScheduler(context.Background(), a, testutil.Carol)

	require.NoError(t, s.RegisterRebase("@every 1m"))
	require.Error(t, s.RegisterRebase("not a schedule"))

	s.Start()
	s.Stop()
}

func TestRunRebaseWithBadSender(t *testing.T) {
	a, clock := testutil.NewApp(t, testutil.DefaultGenesis())
	clock.Advance(28800)

	s := scheduler.NewScheduler(context.Background(), a, "bogus")
	sent, err := s.RunRebase()
	require.ErrorIs(t, err, types.ErrInvalidInput)
	require.False(t, sent)
}
