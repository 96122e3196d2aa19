package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/elys-network/bondstake/internal/store"
	"github.com/elys-network/bondstake/internal/types"
)

// GenesisTime is the block time every test starts at.
var GenesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// NewContext returns a call context over a fresh in-memory store. The transaction is discarded when
// the test ends.
func NewContext(t testing.TB) types.Context {
	t.Helper()

	db := store.NewMemDB()
	tx := db.Begin()
	t.Cleanup(func() {
		tx.Discard()
		require.NoError(t, db.Close())
	})
	return types.NewContext(context.Background(), tx.KVStore(), GenesisTime, 1, zerolog.Nop())
}

// Advance returns ctx moved forward by seconds.
func Advance(ctx types.Context, seconds uint64) types.Context {
	return ctx.WithBlockTime(ctx.BlockTime().Add(time.Duration(seconds) * time.Second))
}
