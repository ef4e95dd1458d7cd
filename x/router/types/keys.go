package types

const (
	// ModuleName is the router's error codespace and event prefix.
	ModuleName = "router"
)

// Store keys of the router instance.
const (
	OwnerKey      = "owner"
	TokensKey     = "tokens"
	CashbackKey   = "cashback"
	RouteStateKey = "route_state"
)
