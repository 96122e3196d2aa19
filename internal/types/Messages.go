/*

This file contains the outgoing ledger messages a contract emits and the response that carries them.

Messages are executed by the host after the handler returned, in the order they were added.
A failing message aborts the whole call.

*/

package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Msg is an outgoing side effect of a contract call.
type Msg interface {
	MsgType() string
}

// MsgMint creates Coin and credits it to Recipient. The emitting contract must own the denom.
type MsgMint struct {
	Coin      sdk.Coin `json:"coin"`
	Recipient string   `json:"recipient"`
}

// MsgBurn destroys Coin held by Holder. The emitting contract must own both the denom and the holder account.
type MsgBurn struct {
	Holder string   `json:"holder"`
	Coin   sdk.Coin `json:"coin"`
}

// MsgSend moves Amount between accounts. From must be an account of the emitting contract.
type MsgSend struct {
	From   string    `json:"from"`
	To     string    `json:"to"`
	Amount sdk.Coins `json:"amount"`
}

// MsgExecute calls another contract with the emitting contract's account as sender.
type MsgExecute struct {
	Funds sdk.Coins  `json:"funds"`
	Msg   ExecuteMsg `json:"msg"`
}

func (MsgMint) MsgType() string    { return "mint" }
func (MsgBurn) MsgType() string    { return "burn" }
func (MsgSend) MsgType() string    { return "send" }
func (MsgExecute) MsgType() string { return "execute" }

func (m MsgMint) String() string { return fmt.Sprintf("mint %s to %s", m.Coin, m.Recipient) }
func (m MsgBurn) String() string { return fmt.Sprintf("burn %s from %s", m.Coin, m.Holder) }
func (m MsgSend) String() string { return fmt.Sprintf("send %s from %s to %s", m.Amount, m.From, m.To) }
func (m MsgExecute) String() string {
	return fmt.Sprintf("execute %s/%s with %s", m.Msg.Contract(), m.Msg.Type(), m.Funds)
}

// Response is what a contract handler returns on success.
type Response struct {
	Messages []Msg     `json:"-"`
	Events   sdk.Events `json:"events"`
}

// NewResponse returns an empty response.
func NewResponse() *Response {
	return &Response{}
}

// AddMessages appends messages in execution order.
func (r *Response) AddMessages(msgs ...Msg) *Response {
	r.Messages = append(r.Messages, msgs...)
	return r
}

// AddEvent appends an event with the given type and attributes given as key/value pairs.
func (r *Response) AddEvent(eventType string, kv ...string) *Response {
	attrs := make([]sdk.Attribute, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, sdk.NewAttribute(kv[i], kv[i+1]))
	}
	r.Events = append(r.Events, sdk.NewEvent(eventType, attrs...))
	return r
}
