package types

import (
	"cosmossdk.io/errors"
)

// Pair contract sentinel errors
var (
	ErrAssetMismatch      = errors.Register(ModuleName, 2, "asset does not belong to the pair")
	ErrInvariantViolation = errors.Register(ModuleName, 3, "pool invariant violated")
	ErrSlippageExceeded   = errors.Register(ModuleName, 4, "slippage bound exceeded")
	ErrFundsMismatch      = errors.Register(ModuleName, 5, "sent funds do not match the declared amount")
	ErrAlreadyInitialized = errors.Register(ModuleName, 6, "liquidity token already set")
	ErrInvalidFee         = errors.Register(ModuleName, 7, "invalid swap fee")
	ErrZeroAmount         = errors.Register(ModuleName, 8, "amount cannot be zero")
	ErrNotInitialized     = errors.Register(ModuleName, 9, "liquidity token not set")
	ErrInvalidAssets      = errors.Register(ModuleName, 10, "invalid pair assets")
)
