package keeper

import (
	"encoding/json"

	"cosmossdk.io/math"

	pairtypes "github.com/paw-chain/pawswap/x/pair/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

// SwapStats is a swap data endpoint for tests. It counts the swaps pairs
// report and can be told to reject them.
type SwapStats struct{}

var _ contract.Contract = SwapStats{}

// SwapStatsInit configures a SwapStats instance.
type SwapStatsInit struct {
	Reject bool `json:"reject"`
}

// SwapStatsResponse answers every SwapStats query.
type SwapStatsResponse struct {
	Swaps   uint64              `json:"swaps"`
	Last    *pairtypes.SwapData `json:"last,omitempty"`
	Reject  bool                `json:"reject"`
	Volumes map[string]string   `json:"volumes"`
}

var swapStats = contract.NewItem[SwapStatsResponse]("stats")

func (SwapStats) Instantiate(ctx contract.Context, raw json.RawMessage) (*contract.Response, error) {
	var msg SwapStatsInit
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, contract.ErrInvalidRequest.Wrap(err.Error())
	}
	if err := swapStats.Save(ctx.Store, SwapStatsResponse{Reject: msg.Reject, Volumes: map[string]string{}}); err != nil {
		return nil, err
	}
	return contract.NewResponse(), nil
}

func (SwapStats) Execute(ctx contract.Context, raw json.RawMessage) (*contract.Response, error) {
	var msg pairtypes.SwapDataMsg
	if err := json.Unmarshal(raw, &msg); err != nil || msg.ReceiveSwapData == nil {
		return nil, contract.ErrUnknownMsg.Wrap("swap stats execute")
	}
	stats, err := swapStats.Load(ctx.Store)
	if err != nil {
		return nil, err
	}
	if stats.Reject {
		return nil, contract.ErrUnauthorized.Wrap("swap stats rejects reports")
	}

	data := *msg.ReceiveSwapData
	stats.Swaps++
	stats.Last = &data
	key := data.AssetIn.Info.String()
	vol := math.ZeroUint()
	if prev, ok := stats.Volumes[key]; ok {
		vol = math.NewUintFromString(prev)
	}
	stats.Volumes[key] = vol.Add(data.AssetIn.Amount).String()

	return contract.NewResponse(), swapStats.Save(ctx.Store, stats)
}

func (SwapStats) Query(ctx contract.Context, _ json.RawMessage) ([]byte, error) {
	stats, err := swapStats.Load(ctx.Store)
	if err != nil {
		return nil, err
	}
	return contract.QueryResult(stats)
}
