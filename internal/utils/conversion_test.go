package utils

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestSDKIntToFloat64(t *testing.T) {
	f, err := SDKIntToFloat64(sdkmath.NewInt(1_500_000), 6)
	require.NoError(t, err)
	require.InDelta(t, 1.5, f, 1e-9)

	_, err = SDKIntToFloat64(sdkmath.NewInt(-1), 6)
	require.ErrorIs(t, err, ErrAmountNegative)

	_, err = SDKIntToFloat64(sdkmath.Int{}, 6)
	require.ErrorIs(t, err, ErrAmountNil)

	_, err = SDKIntToFloat64(sdkmath.NewInt(1), 19)
	require.ErrorIs(t, err, ErrInvalidPrecision)
}

func TestDecToFloat64(t *testing.T) {
	f, err := DecToFloat64(sdkmath.LegacyNewDecWithPrec(125, 2))
	require.NoError(t, err)
	require.InDelta(t, 1.25, f, 1e-9)

	_, err = DecToFloat64(sdkmath.LegacyDec{})
	require.ErrorIs(t, err, ErrAmountNil)
}
