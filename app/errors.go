package app

import (
	"cosmossdk.io/errors"
)

var (
	ErrUnknownCode      = errors.Register(ModuleName, 2, "unknown code id")
	ErrUnknownContract  = errors.Register(ModuleName, 3, "no contract at address")
	ErrCodeHashMismatch = errors.Register(ModuleName, 4, "code hash mismatch")
	ErrMaxDepth         = errors.Register(ModuleName, 5, "max dispatch depth exceeded")
	ErrInvalidConfig    = errors.Register(ModuleName, 6, "invalid app config")
)
