/*

This file contains the execute messages accepted by the contracts.

On the wire a message is a JSON object with a single key naming the message type, for example
{"deposit": {"max_price": "2.5", "depositor": "cosmos1..."}}. The contract is chosen by the caller.

*/

package types

import (
	"encoding/json"

	sdkmath "cosmossdk.io/math"
)

// ExecuteMsg is a state mutating call into a contract.
type ExecuteMsg interface {
	Contract() string
	Type() string
}

// DepositMsg bonds the attached principal.
type DepositMsg struct {
	MaxPrice  sdkmath.LegacyDec `json:"max_price"`
	Depositor string            `json:"depositor"`
}

// RedeemMsg releases the vested part of a position, optionally straight into staking.
type RedeemMsg struct {
	Recipient string `json:"recipient"`
	Stake     bool   `json:"stake"`
}

// UpdateTermsMsg replaces the bond terms as a whole.
type UpdateTermsMsg struct {
	Terms Terms `json:"terms"`
}

// UpdateBondConfigMsg changes the set fields of the bond config.
type UpdateBondConfigMsg struct {
	Usd               *string      `json:"usd,omitempty"`
	Principal         *string      `json:"principal,omitempty"`
	Admin             *string      `json:"admin,omitempty"`
	Treasury          *string      `json:"treasury,omitempty"`
	OracleTrustPeriod *uint64      `json:"oracle_trust_period,omitempty"`
	FloorRelief       *bool        `json:"floor_relief,omitempty"`
	MinPayout         *sdkmath.Int `json:"min_payout,omitempty"`
}

// UpdateAdjustmentMsg changes the set fields of the control variable adjustment.
type UpdateAdjustmentMsg struct {
	Add    *bool              `json:"add,omitempty"`
	Rate   *sdkmath.LegacyDec `json:"rate,omitempty"`
	Target *sdkmath.LegacyDec `json:"target,omitempty"`
	Buffer *uint64            `json:"buffer,omitempty"`
}

// StakeMsg stakes the attached base tokens for To.
type StakeMsg struct {
	To string `json:"to"`
}

// UnstakeMsg redeems the attached staked tokens for base tokens sent to To.
type UnstakeMsg struct {
	To string `json:"to"`
}

// ClaimMsg settles the warmup entry of the sender, paying Recipient (the sender when empty).
type ClaimMsg struct {
	Recipient string `json:"recipient,omitempty"`
}

// RebaseMsg advances the epoch when it is over.
type RebaseMsg struct{}

// MintMsg mints base tokens; only registered minters may send it.
type MintMsg struct {
	To     string      `json:"to"`
	Amount sdkmath.Int `json:"amount"`
}

// UpdateStakingConfigMsg changes the set fields of the staking config.
// A new epoch apr only applies from the next rebase on.
type UpdateStakingConfigMsg struct {
	Admin         *string            `json:"admin,omitempty"`
	EpochLength   *uint64            `json:"epoch_length,omitempty"`
	EpochApr      *sdkmath.LegacyDec `json:"epoch_apr,omitempty"`
	WarmupLength  *uint64            `json:"warmup_length,omitempty"`
	Minters       []string           `json:"minters,omitempty"`
	PointsEnabled *bool              `json:"points_enabled,omitempty"`
}

// JailMsg freezes or resumes points accrual of an address.
type JailMsg struct {
	Address string `json:"address"`
	Jailed  bool   `json:"jailed"`
}

// RegisterFeederMsg allows Feeder to push prices of Denom.
type RegisterFeederMsg struct {
	Denom  string `json:"denom"`
	Feeder string `json:"feeder"`
}

// FeedPriceMsg pushes new prices.
type FeedPriceMsg struct {
	Prices []PriceFeed `json:"prices"`
}

func (DepositMsg) Contract() string             { return BondModuleName }
func (RedeemMsg) Contract() string              { return BondModuleName }
func (UpdateTermsMsg) Contract() string         { return BondModuleName }
func (UpdateBondConfigMsg) Contract() string    { return BondModuleName }
func (UpdateAdjustmentMsg) Contract() string    { return BondModuleName }
func (StakeMsg) Contract() string               { return StakingModuleName }
func (UnstakeMsg) Contract() string             { return StakingModuleName }
func (ClaimMsg) Contract() string               { return StakingModuleName }
func (RebaseMsg) Contract() string              { return StakingModuleName }
func (MintMsg) Contract() string                { return StakingModuleName }
func (UpdateStakingConfigMsg) Contract() string { return StakingModuleName }
func (JailMsg) Contract() string                { return StakingModuleName }
func (RegisterFeederMsg) Contract() string      { return OracleModuleName }
func (FeedPriceMsg) Contract() string           { return OracleModuleName }

func (DepositMsg) Type() string             { return "deposit" }
func (RedeemMsg) Type() string              { return "redeem" }
func (UpdateTermsMsg) Type() string         { return "update_terms" }
func (UpdateBondConfigMsg) Type() string    { return "update_config" }
func (UpdateAdjustmentMsg) Type() string    { return "update_adjustment" }
func (StakeMsg) Type() string               { return "stake" }
func (UnstakeMsg) Type() string             { return "unstake" }
func (ClaimMsg) Type() string               { return "claim" }
func (RebaseMsg) Type() string              { return "rebase" }
func (MintMsg) Type() string                { return "mint" }
func (UpdateStakingConfigMsg) Type() string { return "update_config" }
func (JailMsg) Type() string                { return "jail" }
func (RegisterFeederMsg) Type() string      { return "register_feeder" }
func (FeedPriceMsg) Type() string           { return "feed_price" }

type executeDecoder func(json.RawMessage) (ExecuteMsg, error)

func decodeExecute[T ExecuteMsg](raw json.RawMessage) (ExecuteMsg, error) {
	var msg T
	if len(raw) == 0 || string(raw) == "null" {
		return msg, nil
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, ErrInvalidInput.Wrapf("decoding %s: %s", msg.Type(), err)
	}
	return msg, nil
}

var executeRegistry = map[string]map[string]executeDecoder{
	BondModuleName: {
		"deposit":           decodeExecute[DepositMsg],
		"redeem":            decodeExecute[RedeemMsg],
		"update_terms":      decodeExecute[UpdateTermsMsg],
		"update_config":     decodeExecute[UpdateBondConfigMsg],
		"update_adjustment": decodeExecute[UpdateAdjustmentMsg],
	},
	StakingModuleName: {
		"stake":         decodeExecute[StakeMsg],
		"unstake":       decodeExecute[UnstakeMsg],
		"claim":         decodeExecute[ClaimMsg],
		"rebase":        decodeExecute[RebaseMsg],
		"mint":          decodeExecute[MintMsg],
		"update_config": decodeExecute[UpdateStakingConfigMsg],
		"jail":          decodeExecute[JailMsg],
	},
	OracleModuleName: {
		"register_feeder": decodeExecute[RegisterFeederMsg],
		"feed_price":      decodeExecute[FeedPriceMsg],
	},
}

// DecodeExecuteMsg decodes a single-key JSON message addressed to contract.
func DecodeExecuteMsg(contract string, raw []byte) (ExecuteMsg, error) {
	decoders, ok := executeRegistry[contract]
	if !ok {
		return nil, ErrUnknownMessage.Wrapf("unknown contract %q", contract)
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, ErrInvalidInput.Wrapf("decoding message: %s", err)
	}
	if len(envelope) != 1 {
		return nil, ErrInvalidInput.Wrapf("message must have exactly one type key, got %d", len(envelope))
	}
	for msgType, body := range envelope {
		decode, ok := decoders[msgType]
		if !ok {
			return nil, ErrUnknownMessage.Wrapf("%s has no message %q", contract, msgType)
		}
		return decode(body)
	}
	return nil, ErrUnknownMessage
}

// EncodeExecuteMsg is the inverse of DecodeExecuteMsg.
func EncodeExecuteMsg(msg ExecuteMsg) ([]byte, error) {
	return json.Marshal(map[string]ExecuteMsg{msg.Type(): msg})
}
