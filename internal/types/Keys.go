package types

import (
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

const (
	// BondModuleName is the name of the bond contract; its account receives principal and holds unvested payout.
	BondModuleName = "bond"
	// StakingModuleName is the name of the staking contract; its account is the base token pool.
	StakingModuleName = "staking"
	// WarmupModuleName names the escrow account holding principal during warmup. Owned by staking.
	WarmupModuleName = "staking_warmup"
	// OracleModuleName is the name of the price oracle contract.
	OracleModuleName = "oracle"
	// LedgerStoreKey is the store namespace of the ledger.
	LedgerStoreKey = "ledger"
	// HostStoreKey is the store namespace of the host itself.
	HostStoreKey = "host"
)

// ModuleAddress returns the bech32 account address of a module.
func ModuleAddress(name string) string {
	return authtypes.NewModuleAddress(name).String()
}

// StorePrefix returns the key prefix under which a module keeps its state.
func StorePrefix(name string) []byte {
	return []byte(name + "/")
}
