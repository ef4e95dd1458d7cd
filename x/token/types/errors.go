package types

import (
	"cosmossdk.io/errors"
)

var (
	ErrInsufficientBalance   = errors.Register(ModuleName, 2, "insufficient balance")
	ErrInsufficientAllowance = errors.Register(ModuleName, 3, "insufficient allowance")
	ErrInvalidTokenInfo      = errors.Register(ModuleName, 4, "invalid token info")
	ErrMintingDisabled       = errors.Register(ModuleName, 5, "minting disabled")
)
