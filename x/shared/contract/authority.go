package contract

import (
	"cosmossdk.io/math"
)

// ValidateOwner checks that actual is the address allowed to run an owner
// only operation.
//
// Usage example:
//
//	if err := contract.ValidateOwner(cfg.Owner, ctx.Env.Sender); err != nil {
//	    return nil, err
//	}
func ValidateOwner(expected, actual string) error {
	if expected != actual {
		return ErrUnauthorized.Wrapf("expected %s, got %s", expected, actual)
	}
	return nil
}

// ValidateSelf checks that the current call was made by the contract itself.
func ValidateSelf(ctx Context) error {
	if ctx.Env.Sender != ctx.Env.Contract.Address {
		return ErrUnauthorized.Wrapf("%s may only be called by the contract itself", ctx.Env.Contract.Address)
	}
	return nil
}

// IsUnset reports whether u was never assigned, as happens when a JSON
// field is missing.
func IsUnset(u math.Uint) bool {
	return u == (math.Uint{})
}

// RequireAmount rejects a missing amount.
func RequireAmount(field string, u math.Uint) error {
	if IsUnset(u) {
		return ErrInvalidRequest.Wrapf("missing %s", field)
	}
	return nil
}
