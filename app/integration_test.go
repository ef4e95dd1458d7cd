package app_test

import (
	"encoding/json"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pawswap/app"
	keepertest "github.com/paw-chain/pawswap/testutil/keeper"
	factorytypes "github.com/paw-chain/pawswap/x/factory/types"
	pairtypes "github.com/paw-chain/pawswap/x/pair/types"
	routertypes "github.com/paw-chain/pawswap/x/router/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

const (
	provider = "provider"
	alice    = "alice"
	bob      = "bob"
)

func uintPtr(v uint64) *math.Uint {
	u := math.NewUint(v)
	return &u
}

// market deploys tokens X, Y and Z with 1000/1000 pools upaw/X, X/Y and Y/Z.
type market struct {
	*keepertest.DEX
	x, y, z        contract.Callable
	nx, xy, yz     factorytypes.PairRecord
	native, tx, ty pairtypes.AssetInfo
}

func newMarket(t *testing.T) *market {
	d := keepertest.SetupDEX(t)
	m := &market{DEX: d}

	balances := map[string]uint64{provider: 10_000}
	m.x = d.CreateToken(t, "TKX", balances)
	m.y = d.CreateToken(t, "TKY", balances)
	m.z = d.CreateToken(t, "TKZ", balances)
	m.native, m.tx, m.ty = pairtypes.NativeAsset(d.Denom), pairtypes.TokenAsset(m.x), pairtypes.TokenAsset(m.y)

	m.nx = d.CreatePair(t, m.native, m.tx)
	m.xy = d.CreatePair(t, m.tx, m.ty)
	m.yz = d.CreatePair(t, m.ty, pairtypes.TokenAsset(m.z))

	d.Fund(t, provider, 1000)
	for _, rec := range []factorytypes.PairRecord{m.nx, m.xy, m.yz} {
		_, err := d.ProvideLiquidity(t, provider, rec, [2]uint64{1000, 1000})
		require.NoError(t, err)
	}
	return m
}

func (m *market) threeHops(expected *math.Uint) routertypes.Route {
	return routertypes.Route{
		Hops: []routertypes.Hop{
			{FromToken: m.native, Pair: m.nx.Pair},
			{FromToken: m.tx, Pair: m.xy.Pair},
			{FromToken: m.ty, Pair: m.yz.Pair},
		},
		To:             bob,
		ExpectedReturn: expected,
	}
}

func TestProvideAndWithdrawEverything(t *testing.T) {
	d := keepertest.SetupDEX(t)
	tok := d.CreateToken(t, "TKN", map[string]uint64{provider: 400})
	rec := d.CreatePair(t, pairtypes.NativeAsset(d.Denom), pairtypes.TokenAsset(tok))
	d.Fund(t, provider, 100)

	_, err := d.ProvideLiquidity(t, provider, rec, [2]uint64{100, 400})
	require.NoError(t, err)
	require.Equal(t, "200", d.TokenBalance(t, rec.LiquidityToken, provider))
	require.Equal(t, "0", d.NativeBalance(t, provider))
	require.Equal(t, "0", d.TokenBalance(t, tok, provider))

	pool, err := pairtypes.QueryPool(d.App, rec.Pair)
	require.NoError(t, err)
	require.Equal(t, "200", pool.TotalShare.String())

	_, err = d.App.WithdrawLiquidity(provider, rec, math.NewUint(200))
	require.NoError(t, err)

	require.Equal(t, "100", d.NativeBalance(t, provider))
	require.Equal(t, "400", d.TokenBalance(t, tok, provider))
	require.Equal(t, "0", d.TokenBalance(t, rec.LiquidityToken, provider))

	pool, err = pairtypes.QueryPool(d.App, rec.Pair)
	require.NoError(t, err)
	require.Equal(t, "0", pool.TotalShare.String())
	require.Equal(t, "0", pool.Assets[0].Amount.String())
	require.Equal(t, "0", pool.Assets[1].Amount.String())
}

func TestThreeHopRoute(t *testing.T) {
	m := newMarket(t)
	m.Fund(t, alice, 100)

	start, err := routertypes.NewNativeRoute(m.Router, alice, sdk.NewInt64Coin(m.Denom, 100), m.threeHops(uintPtr(75)))
	require.NoError(t, err)
	_, err = m.App.Dispatch(alice, start)
	require.NoError(t, err)

	// 100upaw -> 90 X -> 82 Y -> 75 Z
	require.Equal(t, "0", m.NativeBalance(t, alice))
	require.Equal(t, "75", m.TokenBalance(t, m.z, bob))
	require.Equal(t, "0", m.TokenBalance(t, m.x, m.Router.Address))
	require.Equal(t, "0", m.TokenBalance(t, m.y, m.Router.Address))
	require.Equal(t, routertypes.PhaseIdle, m.RouteState(t).Phase)

	pool, err := pairtypes.QueryPool(m.App, m.xy.Pair)
	require.NoError(t, err)
	require.Equal(t, "1090", pool.Assets[0].Amount.String())
	require.Equal(t, "918", pool.Assets[1].Amount.String())
}

func TestRouteRollsBackOnFailedHop(t *testing.T) {
	m := newMarket(t)
	m.Fund(t, alice, 100)

	start, err := routertypes.NewNativeRoute(m.Router, alice, sdk.NewInt64Coin(m.Denom, 100), m.threeHops(uintPtr(76)))
	require.NoError(t, err)
	_, err = m.App.Dispatch(alice, start)
	require.ErrorIs(t, err, pairtypes.ErrSlippageExceeded)

	require.Equal(t, "100", m.NativeBalance(t, alice))
	require.Equal(t, "0", m.TokenBalance(t, m.z, bob))
	require.Equal(t, routertypes.PhaseIdle, m.RouteState(t).Phase)
	for _, rec := range []factorytypes.PairRecord{m.nx, m.xy, m.yz} {
		pool, err := pairtypes.QueryPool(m.App, rec.Pair)
		require.NoError(t, err)
		require.Equal(t, "1000", pool.Assets[0].Amount.String())
		require.Equal(t, "1000", pool.Assets[1].Amount.String())
	}
}

func TestTokenRoute(t *testing.T) {
	m := newMarket(t)

	route := routertypes.Route{
		Hops: []routertypes.Hop{
			{FromToken: m.tx, Pair: m.xy.Pair},
			{FromToken: m.ty, Pair: m.yz.Pair},
		},
		To: alice,
	}
	start, err := routertypes.NewTokenRoute(m.Router, m.x, math.NewUint(100), route)
	require.NoError(t, err)
	_, err = m.App.Dispatch(provider, start)
	require.NoError(t, err)

	// 100 X -> 90 Y -> 82 Z
	require.Equal(t, "82", m.TokenBalance(t, m.z, alice))
	require.Equal(t, "7900", m.TokenBalance(t, m.x, provider))
}

func TestSwapDataEndpoint(t *testing.T) {
	for _, tc := range []struct {
		name   string
		reject bool
	}{
		{"recorded", false},
		{"rejected", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m := newMarket(t)
			stats, _, err := m.App.Instantiate(keepertest.Owner, m.Codes[keepertest.CodeSwapStats].ID, "stats", keepertest.SwapStatsInit{Reject: tc.reject}, nil)
			require.NoError(t, err)

			endpoint := stats.Callable()
			_, err = m.App.Execute(keepertest.Owner, m.Factory.Address, factorytypes.ExecuteMsg{
				UpdateConfig: &factorytypes.UpdateConfigMsg{PairSettings: &pairtypes.PairSettings{
					SwapFee:          pairtypes.NewFee(3, 1000),
					SwapDataEndpoint: &endpoint,
				}},
			}, nil)
			require.NoError(t, err)

			m.Fund(t, alice, 100)
			offer := pairtypes.NewAsset(m.native, math.NewUint(100))
			res, err := m.App.Execute(alice, m.nx.Pair.Address, pairtypes.ExecuteMsg{
				Swap: &pairtypes.SwapMsg{OfferAsset: offer},
			}, offer.Coins())
			require.NoError(t, err)
			require.Equal(t, "90", m.TokenBalance(t, m.x, alice))

			raw, err := m.App.QuerySmart(endpoint, []byte(`{}`))
			require.NoError(t, err)
			var got keepertest.SwapStatsResponse
			require.NoError(t, json.Unmarshal(raw, &got))

			failures := 0
			for _, ev := range res.Events {
				if ev.Type == app.EventTypeDispatchFailure {
					failures++
				}
			}
			if tc.reject {
				require.Equal(t, uint64(0), got.Swaps)
				require.Equal(t, 1, failures)
				return
			}
			require.Zero(t, failures)
			require.Equal(t, uint64(1), got.Swaps)
			require.Equal(t, "91", got.Last.AssetOut.Amount.String())
			require.Equal(t, alice, got.Last.Account)
			require.Equal(t, "100", got.Volumes[m.native.String()])
		})
	}
}

// relay calls itself once per execute, forever.
type relay struct{}

func (relay) Instantiate(contract.Context, json.RawMessage) (*contract.Response, error) {
	return contract.NewResponse(), nil
}

func (relay) Execute(ctx contract.Context, raw json.RawMessage) (*contract.Response, error) {
	msg, err := contract.NewExecuteMsg(ctx.Self(), raw, nil)
	if err != nil {
		return nil, err
	}
	return contract.NewResponse().AddMessages(msg), nil
}

func (relay) Query(contract.Context, json.RawMessage) ([]byte, error) {
	return contract.QueryResult(struct{}{})
}

func TestDispatchLimits(t *testing.T) {
	m := newMarket(t)

	t.Run("max depth", func(t *testing.T) {
		code := m.App.StoreCode("relay", relay{})
		inst, _, err := m.App.Instantiate(alice, code.ID, "relay", struct{}{}, nil)
		require.NoError(t, err)
		_, err = m.App.Execute(alice, inst.Address, struct{}{}, nil)
		require.ErrorIs(t, err, app.ErrMaxDepth)
	})

	t.Run("code hash mismatch", func(t *testing.T) {
		wrong := contract.Callable{Address: m.nx.Pair.Address, CodeHash: m.Codes[app.CodeToken].Hash}
		msg, err := contract.NewExecuteMsg(wrong, pairtypes.ExecuteMsg{PostInitialize: &struct{}{}}, nil)
		require.NoError(t, err)
		_, err = m.App.Dispatch(alice, msg)
		require.ErrorIs(t, err, app.ErrCodeHashMismatch)

		_, err = m.App.QuerySmart(wrong, []byte(`{"pair":{}}`))
		require.ErrorIs(t, err, app.ErrCodeHashMismatch)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		offer := pairtypes.NewAsset(m.native, math.NewUint(100))
		_, err := m.App.Execute(bob, m.nx.Pair.Address, pairtypes.ExecuteMsg{
			Swap: &pairtypes.SwapMsg{OfferAsset: offer},
		}, offer.Coins())
		require.ErrorIs(t, err, contract.ErrInsufficientFunds)
	})

	t.Run("unknown contract", func(t *testing.T) {
		_, err := m.App.Execute(alice, "nowhere", struct{}{}, nil)
		require.ErrorIs(t, err, app.ErrUnknownContract)
	})
}
