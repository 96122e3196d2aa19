package app

import (
	"context"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/elys-network/bondstake/internal/store"
	"github.com/elys-network/bondstake/internal/types"
)

func newBareApp(t *testing.T) (*App, types.Context) {
	t.Helper()
	db := store.NewMemDB()
	tx := db.Begin()
	t.Cleanup(func() {
		tx.Discard()
		require.NoError(t, db.Close())
	})
	a, err := NewApp(Config{DB: db})
	require.NoError(t, err)
	return a, types.NewContext(context.Background(), tx.KVStore(), a.now(), 1, zerolog.Nop())
}

func TestApplyChecksOwnership(t *testing.T) {
	a, ctx := newBareApp(t)
	user := types.ModuleAddress("someone")
	coins := sdk.NewCoins(sdk.NewInt64Coin("uohm", 1))

	testCases := []struct {
		name    string
		emitter string
		msg     types.Msg
	}{
		{"bond spends a user account", types.BondModuleName, types.MsgSend{From: user, To: user, Amount: coins}},
		{"bond spends the staking pool", types.BondModuleName, types.MsgSend{From: a.Staking.PoolAddress(), To: user, Amount: coins}},
		{"bond mints", types.BondModuleName, types.MsgMint{Coin: coins[0], Recipient: user}},
		{"oracle mints", types.OracleModuleName, types.MsgMint{Coin: coins[0], Recipient: user}},
		{"staking burns from a user", types.StakingModuleName, types.MsgBurn{Holder: user, Coin: coins[0]}},
		{"oracle spends the bond", types.OracleModuleName, types.MsgSend{From: a.Bond.Address(), To: user, Amount: coins}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.apply(ctx, tc.emitter, tc.msg, 0)
			require.ErrorIs(t, err, types.ErrUnauthorized)
		})
	}
}

func TestExecuteDepthLimit(t *testing.T) {
	a, ctx := newBareApp(t)
	_, err := a.execute(ctx, a.Bond.Address(), nil, types.RebaseMsg{}, maxCallDepth+1)
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestEpochRecordFromEvent(t *testing.T) {
	ev := sdk.NewEvent("rebase",
		sdk.NewAttribute("epoch_number", "4"),
		sdk.NewAttribute("epoch_start", "2024-01-01T08:00:00Z"),
		sdk.NewAttribute("epoch_end", "2024-01-01T16:00:00Z"),
		sdk.NewAttribute("amount", "30"),
		sdk.NewAttribute("apr", "0.003000000000000000"),
	)
	rec, err := epochRecordFromEvent(ev, 9)
	require.NoError(t, err)
	require.Equal(t, uint64(4), rec.Number)
	require.Equal(t, "30", rec.Minted)
	require.Equal(t, int64(9), rec.Height)
	require.Equal(t, 8*3600.0, rec.End.Sub(rec.Start).Seconds())

	_, err = epochRecordFromEvent(sdk.NewEvent("rebase"), 1)
	require.Error(t, err)
}
