package types

import (
	errorsmod "cosmossdk.io/errors"

	pairtypes "github.com/paw-chain/pawswap/x/pair/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

// Config is the factory's code references and owner.
type Config struct {
	Owner         string `json:"owner"`
	PairCodeID    uint64 `json:"pair_code_id"`
	PairCodeHash  string `json:"pair_code_hash"`
	TokenCodeID   uint64 `json:"token_code_id"`
	TokenCodeHash string `json:"token_code_hash"`
}

// InstantiateMsg creates the factory. The sender becomes the owner.
type InstantiateMsg struct {
	PairCodeID    uint64                 `json:"pair_code_id"`
	PairCodeHash  string                 `json:"pair_code_hash"`
	TokenCodeID   uint64                 `json:"token_code_id"`
	TokenCodeHash string                 `json:"token_code_hash"`
	PairSettings  pairtypes.PairSettings `json:"pair_settings"`
}

// ValidateBasic performs stateless checks.
func (m InstantiateMsg) ValidateBasic() error {
	if m.PairCodeHash == "" || m.TokenCodeHash == "" {
		return contract.ErrInvalidRequest.Wrap("pair and token code hashes are required")
	}
	return ValidateSettings(m.PairSettings)
}

// ValidateSettings checks settings, reporting fee problems as ErrInvalidFee.
func ValidateSettings(s pairtypes.PairSettings) error {
	if err := s.Validate(); err != nil {
		return errorsmod.Wrap(ErrInvalidFee, err.Error())
	}
	return nil
}

// ExecuteMsg is the set of factory operations. Exactly one field is set.
type ExecuteMsg struct {
	UpdateConfig *UpdateConfigMsg `json:"update_config,omitempty"`
	CreatePair   *AssetInfosMsg   `json:"create_pair,omitempty"`
	Register     *AssetInfosMsg   `json:"register,omitempty"`
}

// UpdateConfigMsg replaces the fields that are set.
type UpdateConfigMsg struct {
	Owner         *string                 `json:"owner,omitempty"`
	PairCodeID    *uint64                 `json:"pair_code_id,omitempty"`
	PairCodeHash  *string                 `json:"pair_code_hash,omitempty"`
	TokenCodeID   *uint64                 `json:"token_code_id,omitempty"`
	TokenCodeHash *string                 `json:"token_code_hash,omitempty"`
	PairSettings  *pairtypes.PairSettings `json:"pair_settings,omitempty"`
}

type AssetInfosMsg struct {
	AssetInfos [2]pairtypes.AssetInfo `json:"asset_infos"`
}

// ValidateBasic checks both assets and that they differ.
func (m AssetInfosMsg) ValidateBasic() error {
	for _, info := range m.AssetInfos {
		if err := info.Validate(); err != nil {
			return err
		}
	}
	if m.AssetInfos[0].Equal(m.AssetInfos[1]) {
		return ErrSameAssets.Wrap(m.AssetInfos[0].String())
	}
	return nil
}

// PendingPair is the creation waiting for its pair's register call.
type PendingPair struct {
	AssetInfos [2]pairtypes.AssetInfo `json:"asset_infos"`
}

// PairRecord is a registered pair.
type PairRecord struct {
	AssetInfos     [2]pairtypes.AssetInfo `json:"asset_infos"`
	Pair           contract.Callable      `json:"pair"`
	LiquidityToken contract.Callable      `json:"liquidity_token"`
}

// QueryMsg is the set of factory queries. pair_settings answers the query
// pairs send for their settings.
type QueryMsg struct {
	Config       *struct{}      `json:"config,omitempty"`
	Pair         *AssetInfosMsg `json:"pair,omitempty"`
	Pairs        *PairsQuery    `json:"pairs,omitempty"`
	PairSettings *struct{}      `json:"pair_settings,omitempty"`
}

type PairsQuery struct {
	StartAfter *[2]pairtypes.AssetInfo `json:"start_after,omitempty"`
	Limit      *uint32                 `json:"limit,omitempty"`
}

type PairsResponse struct {
	Pairs []PairRecord `json:"pairs"`
}
