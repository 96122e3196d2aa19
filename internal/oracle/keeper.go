/*

This file contains the price oracle. Registered feeders push prices of their denom expressed in the
base asset, and quotes between two denoms are derived from those prices.

*/

package oracle

import (
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/rs/zerolog"

	"github.com/elys-network/bondstake/internal/logger"
	"github.com/elys-network/bondstake/internal/store"
	"github.com/elys-network/bondstake/internal/types"
)

var (
	configPrefix  = collections.NewPrefix(0)
	feedersPrefix = collections.NewPrefix(1)
	pricesPrefix  = collections.NewPrefix(2)
)

// Keeper stores feeders and prices.
type Keeper struct {
	logger zerolog.Logger

	Schema  collections.Schema
	config  collections.Item[types.OracleConfig]
	feeders collections.Map[string, string]
	prices  collections.Map[string, types.PriceEntry]
}

// NewKeeper creates an oracle keeper.
func NewKeeper() Keeper {
	sb := collections.NewSchemaBuilder(store.NewKVStoreService(types.StorePrefix(types.OracleModuleName)))
	k := Keeper{
		logger:  logger.GetForComponent("oracle_keeper"),
		config:  collections.NewItem(sb, configPrefix, "config", store.JSONValue[types.OracleConfig]("oracle_config")),
		feeders: collections.NewMap(sb, feedersPrefix, "feeders", collections.StringKey, collections.StringValue),
		prices:  collections.NewMap(sb, pricesPrefix, "prices", collections.StringKey, store.JSONValue[types.PriceEntry]("price_entry")),
	}
	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema
	return k
}

// OwnsAccount reports whether addr is the oracle contract address.
func (k Keeper) OwnsAccount(addr string) bool {
	return addr == types.ModuleAddress(types.OracleModuleName)
}

// OwnsDenom is always false, the oracle mints nothing.
func (k Keeper) OwnsDenom(types.Context, string) bool {
	return false
}

// InitGenesis stores the config, the feeders and the initial prices.
func (k Keeper) InitGenesis(ctx types.Context, gen types.OracleGenesis) error {
	if err := k.config.Set(ctx, gen.Config); err != nil {
		return err
	}
	for _, f := range gen.Feeders {
		if err := k.feeders.Set(ctx, f.Denom, f.Feeder); err != nil {
			return err
		}
	}
	for _, p := range gen.Prices {
		if err := k.setPrice(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// GetConfig returns the oracle config.
func (k Keeper) GetConfig(ctx types.Context) (types.OracleConfig, error) {
	cfg, err := k.config.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return cfg, types.ErrNotInstantiated.Wrap(types.OracleModuleName)
	}
	return cfg, err
}

// RegisterFeeder allows feeder to push prices of denom. Admin only.
func (k Keeper) RegisterFeeder(ctx types.Context, sender string, msg types.RegisterFeederMsg) (*types.Response, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if sender != cfg.Admin {
		return nil, types.ErrUnauthorized.Wrap("only the oracle admin can register feeders")
	}
	if err := sdk.ValidateDenom(msg.Denom); err != nil {
		return nil, types.ErrInvalidInput.Wrapf("denom: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(msg.Feeder); err != nil {
		return nil, types.ErrInvalidInput.Wrapf("feeder address: %s", err)
	}
	if err := k.feeders.Set(ctx, msg.Denom, msg.Feeder); err != nil {
		return nil, err
	}

	return types.NewResponse().AddEvent("register_feeder",
		"denom", msg.Denom,
		"feeder", msg.Feeder,
	), nil
}

// FeedPrice stores new prices. Every denom must be fed by its registered feeder.
func (k Keeper) FeedPrice(ctx types.Context, sender string, msg types.FeedPriceMsg) (*types.Response, error) {
	if len(msg.Prices) == 0 {
		return nil, types.ErrInvalidInput.Wrap("no prices")
	}
	resp := types.NewResponse()
	for _, p := range msg.Prices {
		feeder, err := k.feeders.Get(ctx, p.Denom)
		if errors.Is(err, collections.ErrNotFound) || (err == nil && feeder != sender) {
			return nil, types.ErrUnauthorized.Wrapf("%s is not the feeder of %s", sender, p.Denom)
		}
		if err != nil {
			return nil, err
		}
		if err := k.setPrice(ctx, p); err != nil {
			return nil, err
		}
		resp.AddEvent("feed_price", "denom", p.Denom, "price", p.Price.String())
	}
	return resp, nil
}

func (k Keeper) setPrice(ctx types.Context, p types.PriceFeed) error {
	if p.Price.IsNil() || !p.Price.IsPositive() {
		return types.ErrInvalidInput.Wrapf("price of %s must be positive", p.Denom)
	}
	return k.prices.Set(ctx, p.Denom, types.PriceEntry{
		Price:       p.Price,
		LastUpdated: ctx.BlockTime(),
	})
}

// Price returns the last fed price of denom in the base asset. The base asset itself is always worth one.
func (k Keeper) Price(ctx types.Context, denom string) (types.PriceEntry, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.PriceEntry{}, err
	}
	if denom == cfg.BaseAsset {
		return types.PriceEntry{Price: sdkmath.LegacyOneDec(), LastUpdated: ctx.BlockTime()}, nil
	}
	entry, err := k.prices.Get(ctx, denom)
	if errors.Is(err, collections.ErrNotFound) {
		return entry, types.ErrPriceNotFound.Wrap(denom)
	}
	return entry, err
}

// Quote returns the price of base expressed in quote.
func (k Keeper) Quote(ctx types.Context, base, quote string) (types.Quote, error) {
	b, err := k.Price(ctx, base)
	if err != nil {
		return types.Quote{}, err
	}
	q, err := k.Price(ctx, quote)
	if err != nil {
		return types.Quote{}, err
	}
	return types.Quote{
		Rate:             b.Price.Quo(q.Price),
		LastUpdatedBase:  b.LastUpdated,
		LastUpdatedQuote: q.LastUpdated,
	}, nil
}

// Query answers the oracle queries.
func (k Keeper) Query(ctx types.Context, req types.QueryRequest) (any, error) {
	switch req.Query {
	case types.QueryOracleConfig:
		return k.GetConfig(ctx)
	case types.QueryQuote:
		return k.Quote(ctx, req.Base, req.Quote)
	case types.QueryPrice:
		entry, err := k.Price(ctx, req.Denom)
		if err != nil {
			return nil, err
		}
		return types.PriceResponse{Denom: req.Denom, Price: entry.Price, LastUpdated: entry.LastUpdated}, nil
	default:
		return nil, types.ErrUnknownMessage.Wrap(fmt.Sprintf("oracle query %q", req.Query))
	}
}
