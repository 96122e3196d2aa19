/*

This file contains the sentinel errors shared by every module of the protocol.

Errors are registered under a single codespace so clients can tell "nothing to do" conditions
(NoPosition, NothingToRedeem, NoWarmupEntry) apart from genuine faults.

*/

package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace is the error codespace of the protocol.
const Codespace = "bondstake"

var (
	ErrUnauthorized        = errorsmod.Register(Codespace, 2, "unauthorized")
	ErrInvalidInput        = errorsmod.Register(Codespace, 3, "invalid input")
	ErrSlippageExceeded    = errorsmod.Register(Codespace, 4, "slippage limit: more than max price")
	ErrMaxDebtReached      = errorsmod.Register(Codespace, 5, "max capacity reached")
	ErrBondTooSmall        = errorsmod.Register(Codespace, 6, "bond too small")
	ErrBondTooLarge        = errorsmod.Register(Codespace, 7, "bond too large")
	ErrNoPosition          = errorsmod.Register(Codespace, 8, "no bond position")
	ErrNoWarmupEntry       = errorsmod.Register(Codespace, 9, "no warmup entry")
	ErrNothingToRedeem     = errorsmod.Register(Codespace, 10, "nothing to redeem")
	ErrStalePrice          = errorsmod.Register(Codespace, 11, "price data is too old for bonding")
	ErrArithmetic          = errorsmod.Register(Codespace, 12, "arithmetic error")
	ErrInsufficientBalance = errorsmod.Register(Codespace, 13, "insufficient balance")
	ErrPriceNotFound       = errorsmod.Register(Codespace, 14, "price not found")
	ErrNotInstantiated     = errorsmod.Register(Codespace, 15, "contract not instantiated")
	ErrUnknownMessage      = errorsmod.Register(Codespace, 16, "unknown message")
)
