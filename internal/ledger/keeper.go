/*

This file contains the ledger: balances per (address, denom) and the supply of every denom.

The ledger does no authorization of its own. The host decides which contract may mint, burn or
move which coins before calling into it.

*/

package ledger

import (
	"errors"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/rs/zerolog"

	"github.com/elys-network/bondstake/internal/logger"
	"github.com/elys-network/bondstake/internal/store"
	"github.com/elys-network/bondstake/internal/types"
)

var (
	balancesPrefix = collections.NewPrefix(0)
	supplyPrefix   = collections.NewPrefix(1)
)

// Keeper manages balances and supplies.
type Keeper struct {
	logger zerolog.Logger

	Schema collections.Schema
	// balances is keyed by (address, denom). Zero balances are not stored.
	balances collections.Map[collections.Pair[string, string], sdkmath.Int]
	supply   collections.Map[string, sdkmath.Int]
}

// NewKeeper creates a ledger keeper.
func NewKeeper() Keeper {
	sb := collections.NewSchemaBuilder(store.NewKVStoreService(types.StorePrefix(types.LedgerStoreKey)))
	k := Keeper{
		logger:   logger.GetForComponent("ledger_keeper"),
		balances: collections.NewMap(sb, balancesPrefix, "balances", collections.PairKeyCodec(collections.StringKey, collections.StringKey), sdk.IntValue),
		supply:   collections.NewMap(sb, supplyPrefix, "supply", collections.StringKey, sdk.IntValue),
	}
	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema
	return k
}

// BalanceOf returns the amount of denom held by addr.
func (k Keeper) BalanceOf(ctx types.Context, denom, addr string) (sdkmath.Int, error) {
	return k.getBalance(ctx, addr, denom)
}

// SupplyOf returns the total supply of denom.
func (k Keeper) SupplyOf(ctx types.Context, denom string) (sdkmath.Int, error) {
	amount, err := k.supply.Get(ctx, denom)
	if errors.Is(err, collections.ErrNotFound) {
		return sdkmath.ZeroInt(), nil
	}
	return amount, err
}

// Balances returns every coin held by addr.
func (k Keeper) Balances(ctx types.Context, addr string) (sdk.Coins, error) {
	coins := sdk.NewCoins()
	rng := collections.NewPrefixedPairRange[string, string](addr)
	err := k.balances.Walk(ctx, rng, func(key collections.Pair[string, string], amount sdkmath.Int) (bool, error) {
		coins = coins.Add(sdk.NewCoin(key.K2(), amount))
		return false, nil
	})
	return coins, err
}

func (k Keeper) getBalance(ctx types.Context, addr, denom string) (sdkmath.Int, error) {
	amount, err := k.balances.Get(ctx, collections.Join(addr, denom))
	if errors.Is(err, collections.ErrNotFound) {
		return sdkmath.ZeroInt(), nil
	}
	return amount, err
}

func (k Keeper) setBalance(ctx types.Context, addr, denom string, amount sdkmath.Int) error {
	key := collections.Join(addr, denom)
	if amount.IsZero() {
		return k.balances.Remove(ctx, key)
	}
	return k.balances.Set(ctx, key, amount)
}

func (k Keeper) setSupply(ctx types.Context, denom string, amount sdkmath.Int) error {
	if amount.IsZero() {
		return k.supply.Remove(ctx, denom)
	}
	return k.supply.Set(ctx, denom, amount)
}

// Mint creates coin and credits it to addr.
func (k Keeper) Mint(ctx types.Context, coin sdk.Coin, addr string) error {
	if err := validateCoin(coin); err != nil {
		return err
	}
	if coin.Amount.IsZero() {
		return nil
	}
	supply, err := k.SupplyOf(ctx, coin.Denom)
	if err != nil {
		return err
	}
	if err := k.setSupply(ctx, coin.Denom, supply.Add(coin.Amount)); err != nil {
		return err
	}
	if err := k.add(ctx, addr, coin); err != nil {
		return err
	}

	k.logger.Debug().Str("coin", coin.String()).Str("to", addr).Msg("Minted")
	return nil
}

// Burn destroys coin held by addr.
func (k Keeper) Burn(ctx types.Context, coin sdk.Coin, addr string) error {
	if err := validateCoin(coin); err != nil {
		return err
	}
	if coin.Amount.IsZero() {
		return nil
	}
	if err := k.sub(ctx, addr, coin); err != nil {
		return err
	}
	supply, err := k.SupplyOf(ctx, coin.Denom)
	if err != nil {
		return err
	}
	if supply.LT(coin.Amount) {
		return types.ErrArithmetic.Wrapf("burning %s exceeds supply %s", coin, supply)
	}
	if err := k.setSupply(ctx, coin.Denom, supply.Sub(coin.Amount)); err != nil {
		return err
	}

	k.logger.Debug().Str("coin", coin.String()).Str("from", addr).Msg("Burned")
	return nil
}

// Send moves coins from one address to another.
func (k Keeper) Send(ctx types.Context, from, to string, coins sdk.Coins) error {
	for _, coin := range coins {
		if err := validateCoin(coin); err != nil {
			return err
		}
		if coin.Amount.IsZero() {
			continue
		}
		if err := k.sub(ctx, from, coin); err != nil {
			return err
		}
		if err := k.add(ctx, to, coin); err != nil {
			return err
		}
	}
	return nil
}

func (k Keeper) add(ctx types.Context, addr string, coin sdk.Coin) error {
	balance, err := k.getBalance(ctx, addr, coin.Denom)
	if err != nil {
		return err
	}
	return k.setBalance(ctx, addr, coin.Denom, balance.Add(coin.Amount))
}

func (k Keeper) sub(ctx types.Context, addr string, coin sdk.Coin) error {
	balance, err := k.getBalance(ctx, addr, coin.Denom)
	if err != nil {
		return err
	}
	if balance.LT(coin.Amount) {
		return types.ErrInsufficientBalance.Wrapf("%s has %s%s, needs %s", addr, balance, coin.Denom, coin)
	}
	return k.setBalance(ctx, addr, coin.Denom, balance.Sub(coin.Amount))
}

func validateCoin(coin sdk.Coin) error {
	if err := sdk.ValidateDenom(coin.Denom); err != nil {
		return types.ErrInvalidInput.Wrapf("denom: %s", err)
	}
	if coin.Amount.IsNil() || coin.Amount.IsNegative() {
		return types.ErrInvalidInput.Wrapf("negative amount %s", coin.Amount)
	}
	return nil
}
