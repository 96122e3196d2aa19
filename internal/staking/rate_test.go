package staking

import (
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/elys-network/bondstake/internal/types"
)

func TestExchangeRate(t *testing.T) {
	testCases := []struct {
		name      string
		deposited int64
		staked    int64
		want      string
	}{
		{"empty pool", 0, 0, "1.000000000000000000"},
		{"nothing staked", 500, 0, "1.000000000000000000"},
		{"pool below supply", 900, 1_000, "1.000000000000000000"},
		{"pool equal to supply", 1_000, 1_000, "1.000000000000000000"},
		{"grown pool", 12_563, 10_000, "1.256300000000000000"},
		{"truncated", 2, 3, "1.000000000000000000"},
		{"repeating", 4, 3, "1.333333333333333333"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rate := exchangeRate(sdkmath.NewInt(tc.deposited), sdkmath.NewInt(tc.staked))
			require.Equal(t, tc.want, rate.String())
		})
	}
}

func TestAdvanceEpoch(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	length := uint64(3600)
	epoch := types.EpochState{Start: start, End: start.Add(time.Hour), Number: 7}

	next := advanceEpoch(epoch, length, start.Add(time.Hour))
	require.Equal(t, uint64(8), next.Number)
	require.True(t, next.Start.Equal(start.Add(time.Hour)))
	require.True(t, next.End.Equal(start.Add(2*time.Hour)))

	// Exactly at the next end the epoch skips one more length.
	next = advanceEpoch(epoch, length, start.Add(2*time.Hour))
	require.Equal(t, uint64(8), next.Number)
	require.True(t, next.End.Equal(start.Add(3*time.Hour)))
	require.True(t, next.Start.Equal(start.Add(2*time.Hour)))

	next = advanceEpoch(epoch, length, start.Add(5*time.Hour+30*time.Minute))
	require.True(t, next.End.Equal(start.Add(6*time.Hour)))
	require.True(t, next.Start.Equal(start.Add(5*time.Hour)))
	require.True(t, next.End.After(start.Add(5*time.Hour+30*time.Minute)))
}
