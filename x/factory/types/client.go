package types

import (
	pairtypes "github.com/paw-chain/pawswap/x/pair/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

// NewCreatePair asks factory to create the pair of infos.
func NewCreatePair(factory contract.Callable, infos [2]pairtypes.AssetInfo) (contract.Msg, error) {
	return contract.NewExecuteMsg(factory, ExecuteMsg{CreatePair: &AssetInfosMsg{AssetInfos: infos}}, nil)
}

// QueryPair returns the registered pair of infos.
func QueryPair(q contract.Querier, factory contract.Callable, infos [2]pairtypes.AssetInfo) (PairRecord, error) {
	return contract.Query[PairRecord](q, factory, QueryMsg{Pair: &AssetInfosMsg{AssetInfos: infos}})
}

// QueryPairs returns one page of registered pairs.
func QueryPairs(q contract.Querier, factory contract.Callable, startAfter *[2]pairtypes.AssetInfo, limit uint32) ([]PairRecord, error) {
	res, err := contract.Query[PairsResponse](q, factory, QueryMsg{Pairs: &PairsQuery{StartAfter: startAfter, Limit: &limit}})
	if err != nil {
		return nil, err
	}
	return res.Pairs, nil
}
