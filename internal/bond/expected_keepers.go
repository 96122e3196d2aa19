package bond

import (
	sdkmath "cosmossdk.io/math"

	"github.com/elys-network/bondstake/internal/types"
)

// LedgerKeeper is the read side of the ledger the bond needs.
type LedgerKeeper interface {
	SupplyOf(ctx types.Context, denom string) (sdkmath.Int, error)
}

// OracleKeeper quotes the principal in USD.
type OracleKeeper interface {
	Quote(ctx types.Context, base, quote string) (types.Quote, error)
}

// StakingKeeper exposes the payout token of the bond.
type StakingKeeper interface {
	GetConfig(ctx types.Context) (types.StakingConfig, error)
}
