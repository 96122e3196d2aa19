/*

This file contains the default genesis of the protocol.

The defaults describe a fresh deployment: an empty bond book, an empty staking pool and a treasury
that holds the initial payout supply. Every value can be overridden with a genesis file.

*/

package config

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/elys-network/bondstake/internal/types"
)

// Denoms of the default genesis.
const (
	DefaultPrincipalDenom = "uusdc"
	DefaultUsdDenom       = "uusd"
	DefaultBaseDenom      = "ubond"
	DefaultStakedDenom    = "usbond"
)

// DefaultGenesis returns the genesis used when no genesis file is configured. admin administers every
// contract and treasury receives bonded principal and the initial payout supply.
func DefaultGenesis(admin, treasury string) types.Genesis {
	return types.Genesis{
		Oracle: types.OracleGenesis{
			Config: types.OracleConfig{Admin: admin, BaseAsset: DefaultUsdDenom},
			// Feeders are registered by the admin after start.
		},
		Bond: types.BondGenesis{
			Config: types.BondConfig{
				Usd:       DefaultUsdDenom,
				Principal: DefaultPrincipalDenom,
				Admin:     admin,
				Treasury:  treasury,

				OracleTrustPeriod: 600, // Ten minutes.
				// Rationale: feeders push every minute; ten missed rounds means the feed is down
				// and bonds must not be priced in USD from a stale quote.

				MinPayout: sdkmath.NewInt(10_000), // 0.01 payout token.
				// Rationale: dust bonds cost more in state than they bring in principal.
			},
			Terms: types.Terms{
				ControlVariable: sdkmath.LegacyNewDec(50),
				// Rationale: at a 2% debt ratio the bond price is 1 principal, the floor.

				MinimumPrice: sdkmath.LegacyOneDec(),
				// Rationale: the payout token is never sold below one principal.

				MaxPayout: sdkmath.LegacyNewDecWithPrec(5, 3), // 0.5% of supply per bond.
				MaxDebt:   sdkmath.NewInt(50_000_000_000),     // 50,000 payout tokens.

				VestingTerm: 5 * 24 * 3600, // Five days.
				// Rationale: short enough to attract bonders, long enough to smooth sell pressure.
			},
		},
		Staking: types.StakingGenesis{
			Config: types.StakingConfig{
				Admin:       admin,
				BaseDenom:   DefaultBaseDenom,
				StakedDenom: DefaultStakedDenom,

				EpochLength: 8 * 3600, // Three rebases per day.
				EpochApr:    sdkmath.LegacyNewDecWithPrec(3, 4),
				// Rationale: 0.03% per epoch compounds to roughly 39% a year.

				WarmupLength:  0,
				PointsEnabled: true,
			},
			FirstEpochNumber: 1,
		},
		Balances: []types.GenesisBalance{
			{Address: treasury, Coins: sdk.NewCoins(sdk.NewInt64Coin(DefaultBaseDenom, 1_000_000_000_000))},
		},
	}
}
