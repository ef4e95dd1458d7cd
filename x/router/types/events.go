package types

// Event types emitted by the router.
const (
	EventTypeRouteStarted   = "router_route_started"
	EventTypeRouteHop       = "router_route_hop"
	EventTypeRouteFinalized = "router_route_finalized"
	EventTypeRecoverFunds   = "router_recover_funds"
)

const (
	AttributeKeyHops     = "hops"
	AttributeKeyHop      = "hop"
	AttributeKeyPair     = "pair"
	AttributeKeyOffer    = "offer"
	AttributeKeyTo       = "to"
	AttributeKeyCashback = "cashback"
	AttributeKeyAmount   = "amount"
)
