package types

import (
	"cosmossdk.io/math"

	"github.com/paw-chain/pawswap/pkg/ratio"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

// Fee is a commission rate expressed as an exact fraction.
type Fee struct {
	Nom   uint64 `json:"nom"`
	Denom uint64 `json:"denom"`
}

// NewFee returns nom/denom.
func NewFee(nom, denom uint64) Fee {
	return Fee{Nom: nom, Denom: denom}
}

// Validate requires a positive denominator and a rate below one.
func (f Fee) Validate() error {
	if f.Denom == 0 {
		return ErrInvalidFee.Wrap("denominator must be positive")
	}
	if f.Nom >= f.Denom {
		return ErrInvalidFee.Wrapf("rate %d/%d must be below one", f.Nom, f.Denom)
	}
	return nil
}

// Rate returns the fee as a ratio.
func (f Fee) Rate() (math.LegacyDec, error) {
	if err := f.Validate(); err != nil {
		return math.LegacyDec{}, err
	}
	return ratio.FromRatio(math.NewUint(f.Nom), math.NewUint(f.Denom))
}

// PairSettings is shared by every pair created by one factory.
type PairSettings struct {
	SwapFee          Fee                `json:"swap_fee"`
	SwapDataEndpoint *contract.Callable `json:"swap_data_endpoint,omitempty"`
}

// Validate checks the fee.
func (s PairSettings) Validate() error {
	return s.SwapFee.Validate()
}

// SettingsQuery is the query a pair sends to its factory for PairSettings.
type SettingsQuery struct {
	PairSettings *struct{} `json:"pair_settings,omitempty"`
}

// NewSettingsQuery returns the pair_settings query.
func NewSettingsQuery() SettingsQuery {
	return SettingsQuery{PairSettings: &struct{}{}}
}

// SwapDataMsg is sent best-effort to the swap data endpoint after every swap.
type SwapDataMsg struct {
	ReceiveSwapData *SwapData `json:"receive_swap_data,omitempty"`
}

// SwapData describes one executed swap. AssetOut includes the commission.
type SwapData struct {
	AssetIn  Asset  `json:"asset_in"`
	AssetOut Asset  `json:"asset_out"`
	Account  string `json:"account"`
}
