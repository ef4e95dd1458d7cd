package types

import (
	"cosmossdk.io/math"

	pairtypes "github.com/paw-chain/pawswap/x/pair/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

// InstantiateMsg creates a router. Owner defaults to the sender.
type InstantiateMsg struct {
	Owner          string              `json:"owner,omitempty"`
	RegisterTokens []contract.Callable `json:"register_tokens,omitempty"`
	Cashback       *contract.Callable  `json:"cashback,omitempty"`
}

// ExecuteMsg is the set of router operations. Exactly one field is set.
//
// Receive is used both by token callbacks and, with a native coin attached,
// directly by a trader starting a route with a native input.
type ExecuteMsg struct {
	Receive        *contract.ReceiveMsg `json:"receive,omitempty"`
	FinalizeRoute  *struct{}            `json:"finalize_route,omitempty"`
	RegisterTokens *RegisterTokensMsg   `json:"register_tokens,omitempty"`
	RecoverFunds   *RecoverFundsMsg     `json:"recover_funds,omitempty"`
	UpdateSettings *UpdateSettingsMsg   `json:"update_settings,omitempty"`
}

type RegisterTokensMsg struct {
	Tokens []contract.Callable `json:"tokens"`
}

// RecoverFundsMsg moves assets stuck in the router.
type RecoverFundsMsg struct {
	Token  pairtypes.AssetInfo `json:"token"`
	Amount math.Uint           `json:"amount"`
	To     string              `json:"to"`
}

type UpdateSettingsMsg struct {
	NewOwner    *string            `json:"new_owner,omitempty"`
	NewCashback *contract.Callable `json:"new_cashback,omitempty"`
}

// QueryMsg is the set of router queries.
type QueryMsg struct {
	SupportedTokens *struct{} `json:"supported_tokens,omitempty"`
	RouteState      *struct{} `json:"route_state,omitempty"`
	Config          *struct{} `json:"config,omitempty"`
}

type SupportedTokensResponse struct {
	Tokens []contract.Callable `json:"tokens"`
}

type RouteStateResponse struct {
	Phase Phase       `json:"phase"`
	State *RouteState `json:"state,omitempty"`
}

type ConfigResponse struct {
	Owner       string             `json:"owner"`
	Cashback    *contract.Callable `json:"cashback,omitempty"`
	NativeDenom string             `json:"native_denom"`
}
