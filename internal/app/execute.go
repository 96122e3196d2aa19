package app

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/elys-network/bondstake/internal/staking"
	"github.com/elys-network/bondstake/internal/types"
)

// Result describes a committed call.
type Result struct {
	TraceID string     `json:"trace_id"`
	Height  int64      `json:"height"`
	Time    time.Time  `json:"time"`
	Events  sdk.Events `json:"events"`
}

// Execute runs msg on behalf of sender, who attaches funds to the call. Either every state change of
// the call and of the messages it emits is committed, or none is.
func (a *App) Execute(ctx context.Context, sender string, funds sdk.Coins, msg types.ExecuteMsg) (*Result, error) {
	if msg == nil {
		return nil, types.ErrUnknownMessage.Wrap("empty message")
	}
	return a.call(ctx, sender, msg.Contract(), msg.Type(), funds, func(sdkCtx types.Context) (sdk.Events, error) {
		return a.execute(sdkCtx, sender, funds, msg, 0)
	})
}

// Transfer moves coins between two accounts outside of any contract.
func (a *App) Transfer(ctx context.Context, from, to string, coins sdk.Coins) (*Result, error) {
	return a.call(ctx, from, types.LedgerStoreKey, "send", coins, func(sdkCtx types.Context) (sdk.Events, error) {
		if _, err := sdk.AccAddressFromBech32(from); err != nil {
			return nil, types.ErrInvalidInput.Wrapf("sender address: %s", err)
		}
		if _, err := sdk.AccAddressFromBech32(to); err != nil {
			return nil, types.ErrInvalidInput.Wrapf("recipient address: %s", err)
		}
		if coins.Empty() {
			return nil, types.ErrInvalidInput.Wrap("nothing to send")
		}
		if err := a.Ledger.Send(sdkCtx, from, to, coins); err != nil {
			return nil, err
		}
		return sdk.Events{sdk.NewEvent("transfer",
			sdk.NewAttribute("sender", from),
			sdk.NewAttribute("recipient", to),
			sdk.NewAttribute("amount", coins.String()),
		)}, nil
	})
}

// call runs body as one block: it stages every write, commits on success and records a receipt
// either way.
func (a *App) call(ctx context.Context, sender, contractName, msgType string, funds sdk.Coins, body func(types.Context) (sdk.Events, error)) (*Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	started := time.Now()
	traceID := uuid.New().String()
	callLogger := a.logger.With().
		Str("trace_id", traceID).
		Str("contract", contractName).
		Str("msg", msgType).
		Logger()

	tx := a.db.Begin()
	defer tx.Discard()
	kv := tx.KVStore()

	hs, err := a.loadHost(kv)
	if err != nil {
		return nil, err
	}
	height := hs.Height + 1
	now := a.now()
	sdkCtx := types.NewContext(ctx, kv, now, height, callLogger)

	events, err := a.runCall(sdkCtx, hs, body)
	if err == nil {
		hs.Height = height
		if err = a.saveHost(kv, hs); err == nil {
			err = tx.Commit()
		}
	}

	receipt := types.Receipt{
		TraceID:    traceID,
		Height:     height,
		Time:       now,
		Sender:     sender,
		Contract:   contractName,
		MsgType:    msgType,
		Funds:      funds,
		Success:    err == nil,
		Events:     events,
		DurationMs: time.Since(started).Milliseconds(),
	}
	if err != nil {
		receipt.Events = nil
		receipt.Error = err.Error()
		callLogger.Warn().Err(err).Str("sender", sender).Msg("Call failed, state reverted")
	} else {
		callLogger.Info().Int64("height", height).Int("events", len(events)).Msg("Call committed")
	}
	a.record(ctx, callLogger, receipt)
	a.metrics.ObserveCall(contractName, msgType, receipt.Success, time.Since(started))
	if err != nil {
		return nil, err
	}

	a.metrics.SetHeight(height)
	a.refreshGauges(ctx)
	return &Result{TraceID: traceID, Height: height, Time: now, Events: events}, nil
}

// runCall executes body and turns a panic into an arithmetic error.
func (a *App) runCall(ctx types.Context, hs hostState, body func(types.Context) (sdk.Events, error)) (events sdk.Events, err error) {
	defer func() {
		if r := recover(); r != nil {
			log := ctx.Logger()
			log.Error().Interface("panic", r).Msg("Recovered from panic in contract call")
			events = nil
			err = types.ErrArithmetic.Wrapf("%v", r)
		}
	}()
	if !hs.Instantiated {
		return nil, types.ErrNotInstantiated.Wrap("contracts")
	}
	return body(ctx)
}

func (a *App) execute(ctx types.Context, sender string, funds sdk.Coins, msg types.ExecuteMsg, depth int) (sdk.Events, error) {
	if depth > maxCallDepth {
		return nil, types.ErrInvalidInput.Wrapf("call depth exceeds %d", maxCallDepth)
	}
	if msg == nil {
		return nil, types.ErrUnknownMessage.Wrap("empty message")
	}
	if _, err := sdk.AccAddressFromBech32(sender); err != nil {
		return nil, types.ErrInvalidInput.Wrapf("sender address: %s", err)
	}
	if err := funds.Validate(); err != nil {
		return nil, types.ErrInvalidInput.Wrapf("funds: %s", err)
	}
	if _, ok := a.contracts[msg.Contract()]; !ok {
		return nil, types.ErrUnknownMessage.Wrapf("contract %q", msg.Contract())
	}
	if !funds.IsZero() {
		if err := a.Ledger.Send(ctx, sender, types.ModuleAddress(msg.Contract()), funds); err != nil {
			return nil, err
		}
	}

	resp, err := a.dispatch(ctx, sender, funds, msg)
	if err != nil {
		return nil, err
	}
	events := append(sdk.Events{}, resp.Events...)
	for _, m := range resp.Messages {
		sub, err := a.apply(ctx, msg.Contract(), m, depth)
		if err != nil {
			return nil, fmt.Errorf("%s emitted by %s: %w", m.MsgType(), msg.Contract(), err)
		}
		events = append(events, sub...)
	}
	return events, nil
}

func (a *App) dispatch(ctx types.Context, sender string, funds sdk.Coins, msg types.ExecuteMsg) (*types.Response, error) {
	switch m := msg.(type) {
	case types.DepositMsg:
		return a.Bond.Deposit(ctx, sender, funds, m)
	case types.RedeemMsg:
		return a.Bond.Redeem(ctx, sender, m)
	case types.UpdateTermsMsg:
		return a.Bond.UpdateTerms(ctx, sender, m)
	case types.UpdateBondConfigMsg:
		return a.Bond.UpdateConfig(ctx, sender, m)
	case types.UpdateAdjustmentMsg:
		return a.Bond.UpdateAdjustment(ctx, sender, m)
	case types.StakeMsg:
		return a.Staking.Stake(ctx, sender, funds, m)
	case types.UnstakeMsg:
		return a.Staking.Unstake(ctx, sender, funds, m)
	case types.ClaimMsg:
		return a.Staking.Claim(ctx, sender, m)
	case types.RebaseMsg:
		return a.Staking.Rebase(ctx)
	case types.MintMsg:
		return a.Staking.Mint(ctx, sender, m)
	case types.UpdateStakingConfigMsg:
		return a.Staking.UpdateConfig(ctx, sender, m)
	case types.JailMsg:
		return a.Staking.Jail(ctx, sender, m)
	case types.RegisterFeederMsg:
		return a.Oracle.RegisterFeeder(ctx, sender, m)
	case types.FeedPriceMsg:
		return a.Oracle.FeedPrice(ctx, sender, m)
	default:
		return nil, types.ErrUnknownMessage.Wrapf("%T", msg)
	}
}

// apply executes one message emitted by the contract named emitter.
func (a *App) apply(ctx types.Context, emitter string, msg types.Msg, depth int) (sdk.Events, error) {
	owner := a.contracts[emitter]
	switch m := msg.(type) {
	case types.MsgSend:
		if !owner.OwnsAccount(m.From) {
			return nil, types.ErrUnauthorized.Wrapf("%s cannot spend from %s", emitter, m.From)
		}
		return nil, a.Ledger.Send(ctx, m.From, m.To, m.Amount)
	case types.MsgMint:
		if !owner.OwnsDenom(ctx, m.Coin.Denom) {
			return nil, types.ErrUnauthorized.Wrapf("%s cannot mint %s", emitter, m.Coin.Denom)
		}
		return nil, a.Ledger.Mint(ctx, m.Coin, m.Recipient)
	case types.MsgBurn:
		if !owner.OwnsDenom(ctx, m.Coin.Denom) || !owner.OwnsAccount(m.Holder) {
			return nil, types.ErrUnauthorized.Wrapf("%s cannot burn %s held by %s", emitter, m.Coin.Denom, m.Holder)
		}
		return nil, a.Ledger.Burn(ctx, m.Coin, m.Holder)
	case types.MsgExecute:
		return a.execute(ctx, types.ModuleAddress(emitter), m.Funds, m.Msg, depth+1)
	default:
		return nil, types.ErrUnknownMessage.Wrapf("%T", msg)
	}
}

// record stores the receipt and, for every closed epoch, an epoch record. Recording failures never
// fail the call.
func (a *App) record(ctx context.Context, log zerolog.Logger, receipt types.Receipt) {
	if err := a.recorder.RecordReceipt(ctx, receipt); err != nil {
		log.Error().Err(err).Msg("Failed to record receipt")
	}
	for _, ev := range receipt.Events {
		if ev.Type != staking.EventTypeRebase {
			continue
		}
		epoch, err := epochRecordFromEvent(ev, receipt.Height)
		if err != nil {
			log.Error().Err(err).Msg("Failed to parse rebase event")
			continue
		}
		if err := a.recorder.RecordEpoch(ctx, epoch); err != nil {
			log.Error().Err(err).Msg("Failed to record epoch")
		}
	}
}
