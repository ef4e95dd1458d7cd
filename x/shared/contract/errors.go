package contract

import (
	"cosmossdk.io/errors"
)

// Codespace is shared by every contract for failures that are not specific
// to one of them.
const Codespace = "contract"

var (
	ErrUnauthorized      = errors.Register(Codespace, 2, "unauthorized")
	ErrNotFound          = errors.Register(Codespace, 3, "not found")
	ErrInvalidRequest    = errors.Register(Codespace, 4, "invalid request")
	ErrUnknownMsg        = errors.Register(Codespace, 5, "unknown message")
	ErrInsufficientFunds = errors.Register(Codespace, 6, "insufficient funds")
	ErrEncoding          = errors.Register(Codespace, 7, "encoding failure")
)
