package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/elys-network/bondstake/internal/types"
	"github.com/elys-network/bondstake/internal/utils"
)

// BalanceResponse answers a ledger balance or supply query.
type BalanceResponse struct {
	Address string   `json:"address,omitempty"`
	Coin    sdk.Coin `json:"coin"`
}

// Query answers req against the committed state at the current time. Nothing a query does is kept.
func (a *App) Query(ctx context.Context, req types.QueryRequest) (any, error) {
	sdkCtx, err := a.QueryContext(ctx)
	if err != nil {
		return nil, err
	}

	if req.Contract == types.LedgerStoreKey {
		return a.queryLedger(sdkCtx, req)
	}
	c, ok := a.contracts[req.Contract]
	if !ok {
		return nil, types.ErrUnknownMessage.Wrapf("contract %q", req.Contract)
	}
	return c.Query(sdkCtx, req)
}

// QueryContext returns a context over the committed state at the current time. Writes made through
// it are dropped.
func (a *App) QueryContext(ctx context.Context) (types.Context, error) {
	kv := a.db.ReadOnly()
	hs, err := a.loadHost(kv)
	if err != nil {
		return types.Context{}, err
	}
	if !hs.Instantiated {
		return types.Context{}, types.ErrNotInstantiated.Wrap("contracts")
	}
	return types.NewContext(ctx, kv, a.now(), hs.Height, a.logger), nil
}

func (a *App) queryLedger(ctx types.Context, req types.QueryRequest) (any, error) {
	if err := sdk.ValidateDenom(req.Denom); err != nil {
		return nil, types.ErrInvalidInput.Wrapf("denom: %s", err)
	}
	switch req.Query {
	case types.QueryBalance:
		amount, err := a.Ledger.BalanceOf(ctx, req.Denom, req.Address)
		if err != nil {
			return nil, err
		}
		return BalanceResponse{Address: req.Address, Coin: sdk.NewCoin(req.Denom, amount)}, nil
	case types.QuerySupply:
		amount, err := a.Ledger.SupplyOf(ctx, req.Denom)
		if err != nil {
			return nil, err
		}
		return BalanceResponse{Coin: sdk.NewCoin(req.Denom, amount)}, nil
	default:
		return nil, types.ErrUnknownMessage.Wrap(fmt.Sprintf("ledger query %q", req.Query))
	}
}

// refreshGauges exports the headline numbers of both contracts.
func (a *App) refreshGauges(ctx context.Context) {
	if a.metrics == nil {
		return
	}
	sdkCtx, err := a.QueryContext(ctx)
	if err != nil {
		return
	}

	debt, err := a.Bond.CurrentDebt(sdkCtx)
	if err != nil {
		a.logger.Debug().Err(err).Msg("Skipping gauges, debt unavailable")
		return
	}
	price, err := a.Bond.BondPrice(sdkCtx)
	if err != nil {
		a.logger.Debug().Err(err).Msg("Skipping gauges, bond price unavailable")
		return
	}
	rate, err := a.Staking.CurrentRate(sdkCtx, sdkmath.ZeroInt(), sdkmath.ZeroInt())
	if err != nil {
		a.logger.Debug().Err(err).Msg("Skipping gauges, exchange rate unavailable")
		return
	}
	epoch, err := a.Staking.GetEpoch(sdkCtx)
	if err != nil {
		return
	}

	debtF, err1 := utils.SDKIntToFloat64(debt, 0)
	priceF, err2 := utils.DecToFloat64(price)
	rateF, err3 := utils.DecToFloat64(rate)
	if err1 != nil || err2 != nil || err3 != nil {
		a.logger.Debug().Msg("Skipping gauges, conversion failed")
		return
	}
	a.metrics.SetProtocolState(debtF, priceF, rateF, epoch.Number)
}

func epochRecordFromEvent(ev sdk.Event, height int64) (types.EpochRecord, error) {
	attrs := make(map[string]string, len(ev.Attributes))
	for _, attr := range ev.Attributes {
		attrs[attr.Key] = attr.Value
	}
	number, err := strconv.ParseUint(attrs["epoch_number"], 10, 64)
	if err != nil {
		return types.EpochRecord{}, fmt.Errorf("epoch_number: %w", err)
	}
	start, err := time.Parse(time.RFC3339, attrs["epoch_start"])
	if err != nil {
		return types.EpochRecord{}, fmt.Errorf("epoch_start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, attrs["epoch_end"])
	if err != nil {
		return types.EpochRecord{}, fmt.Errorf("epoch_end: %w", err)
	}
	return types.EpochRecord{
		Number: number,
		Start:  start,
		End:    end,
		Minted: attrs["amount"],
		Apr:    attrs["apr"],
		Height: height,
	}, nil
}
