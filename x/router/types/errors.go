package types

import (
	"cosmossdk.io/errors"
)

// Route protocol violations.
var (
	ErrRouteTooShort    = errors.Register(ModuleName, 2, "route must have at least two hops")
	ErrNativeHop        = errors.Register(ModuleName, 3, "native asset allowed only as the first hop input")
	ErrNoActiveRoute    = errors.Register(ModuleName, 4, "no route in flight")
	ErrRouteInProgress  = errors.Register(ModuleName, 5, "a route is already in flight")
	ErrRouteNotDone     = errors.Register(ModuleName, 6, "route is not done")
	ErrEmptyRoute       = errors.Register(ModuleName, 7, "no hops left in route")
	ErrFirstHopMismatch = errors.Register(ModuleName, 8, "input does not match the first hop")
)
