package staking

import (
	sdkmath "cosmossdk.io/math"

	"github.com/elys-network/bondstake/internal/types"
)

// LedgerKeeper is the read side of the ledger staking needs.
type LedgerKeeper interface {
	BalanceOf(ctx types.Context, denom, addr string) (sdkmath.Int, error)
	SupplyOf(ctx types.Context, denom string) (sdkmath.Int, error)
}
