package types

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/pkg/ratio"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

// InstantiateMsg creates a pair. The pair instantiates its own liquidity
// token from TokenCodeID.
type InstantiateMsg struct {
	AssetInfos    [2]AssetInfo       `json:"asset_infos"`
	TokenCodeID   uint64             `json:"token_code_id"`
	TokenCodeHash string             `json:"token_code_hash"`
	Factory       contract.Callable  `json:"factory_info"`
	InitHook      *contract.InitHook `json:"init_hook,omitempty"`
}

// ValidateBasic performs stateless checks.
func (m InstantiateMsg) ValidateBasic() error {
	for _, info := range m.AssetInfos {
		if err := info.Validate(); err != nil {
			return err
		}
	}
	if m.AssetInfos[0].Equal(m.AssetInfos[1]) {
		return ErrInvalidAssets.Wrap("assets must differ")
	}
	if m.Factory.Address == "" {
		return contract.ErrInvalidRequest.Wrap("missing factory")
	}
	return nil
}

// ExecuteMsg is the set of pair operations. Exactly one field is set.
type ExecuteMsg struct {
	Receive          *contract.ReceiveMsg `json:"receive,omitempty"`
	PostInitialize   *struct{}            `json:"post_initialize,omitempty"`
	ProvideLiquidity *ProvideLiquidityMsg `json:"provide_liquidity,omitempty"`
	Swap             *SwapMsg             `json:"swap,omitempty"`
}

// ProvideLiquidityMsg deposits both assets for liquidity shares.
type ProvideLiquidityMsg struct {
	Assets            [2]Asset        `json:"assets"`
	SlippageTolerance *math.LegacyDec `json:"slippage_tolerance,omitempty"`
}

// SwapBounds are the caller's limits on an acceptable swap.
type SwapBounds struct {
	BeliefPrice    *math.LegacyDec `json:"belief_price,omitempty"`
	MaxSpread      *math.LegacyDec `json:"max_spread,omitempty"`
	ExpectedReturn *math.Uint      `json:"expected_return,omitempty"`
}

// SwapMsg swaps a native offer attached to the call.
type SwapMsg struct {
	OfferAsset Asset `json:"offer_asset"`
	SwapBounds
	To string `json:"to,omitempty"`
}

// ReceivePayload is the message a token transfer into the pair carries.
type ReceivePayload struct {
	Swap              *SwapHook `json:"swap,omitempty"`
	WithdrawLiquidity *struct{} `json:"withdraw_liquidity,omitempty"`
}

// SwapHook swaps the tokens that came with the transfer.
type SwapHook struct {
	SwapBounds
	To string `json:"to,omitempty"`
}

// QueryMsg is the set of pair queries.
type QueryMsg struct {
	Pair              *struct{}               `json:"pair,omitempty"`
	Pool              *struct{}               `json:"pool,omitempty"`
	Simulation        *SimulationQuery        `json:"simulation,omitempty"`
	ReverseSimulation *ReverseSimulationQuery `json:"reverse_simulation,omitempty"`
}

type SimulationQuery struct {
	OfferAsset Asset `json:"offer_asset"`
}

type ReverseSimulationQuery struct {
	AskAsset Asset `json:"ask_asset"`
}

// PairInfo is stored under PairInfoKey and returned by the pair query.
type PairInfo struct {
	AssetInfos     [2]AssetInfo      `json:"asset_infos"`
	ContractAddr   string            `json:"contract_addr"`
	LiquidityToken contract.Callable `json:"liquidity_token"`
	Factory        contract.Callable `json:"factory"`
	AssetVolumes   [2]math.Uint      `json:"asset_volumes"`
}

// PoolResponse lists the pair's balances and LP supply.
type PoolResponse struct {
	Assets     [2]Asset  `json:"assets"`
	TotalShare math.Uint `json:"total_share"`
}

type SimulationResponse struct {
	ReturnAmount     math.Uint `json:"return_amount"`
	SpreadAmount     math.Uint `json:"spread_amount"`
	CommissionAmount math.Uint `json:"commission_amount"`
}

type ReverseSimulationResponse struct {
	OfferAmount      math.Uint `json:"offer_amount"`
	SpreadAmount     math.Uint `json:"spread_amount"`
	CommissionAmount math.Uint `json:"commission_amount"`
}

// Validate rejects negative ratios.
func (b SwapBounds) Validate() error {
	if b.BeliefPrice != nil {
		if err := ratio.Validate(*b.BeliefPrice); err != nil {
			return errorsmod.Wrap(err, "belief price")
		}
	}
	if b.MaxSpread != nil {
		if err := ratio.Validate(*b.MaxSpread); err != nil {
			return errorsmod.Wrap(err, "max spread")
		}
	}
	if b.ExpectedReturn != nil && contract.IsUnset(*b.ExpectedReturn) {
		return contract.ErrInvalidRequest.Wrap("empty expected return")
	}
	return nil
}
