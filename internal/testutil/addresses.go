package testutil

import (
	"crypto/sha256"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AccAddress derives a deterministic bech32 address from a name.
func AccAddress(name string) string {
	sum := sha256.Sum256([]byte(name))
	return sdk.AccAddress(sum[:20]).String()
}

var (
	Admin    = AccAddress("admin")
	Treasury = AccAddress("treasury")
	Feeder   = AccAddress("feeder")
	Alice    = AccAddress("alice")
	Bob      = AccAddress("bob")
	Carol    = AccAddress("carol")
)
