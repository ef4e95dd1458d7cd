package types

import (
	"cosmossdk.io/errors"
)

var (
	ErrPairExists    = errors.Register(ModuleName, 2, "pair already exists")
	ErrSameAssets    = errors.Register(ModuleName, 3, "pair assets are identical")
	ErrPairNotFound  = errors.Register(ModuleName, 4, "pair not found")
	ErrInvalidFee    = errors.Register(ModuleName, 5, "invalid swap fee")
	ErrNoPendingPair = errors.Register(ModuleName, 6, "no pair creation in flight")
)
