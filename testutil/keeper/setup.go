package keeper

import (
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pawswap/app"
	factorytypes "github.com/paw-chain/pawswap/x/factory/types"
	pairtypes "github.com/paw-chain/pawswap/x/pair/types"
	routertypes "github.com/paw-chain/pawswap/x/router/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
	tokentypes "github.com/paw-chain/pawswap/x/token/types"
)

// Owner deploys the fixture contracts and owns the factory and router.
const Owner = "owner"

// CodeSwapStats is the name the SwapStats test code is stored under.
const CodeSwapStats = "swap_stats"

// DEX is a deployed factory and router with helpers to add tokens and pairs.
type DEX struct {
	*app.DEX
	App   *app.App
	Denom string
}

// SetupDEX deploys a factory charging 3/1000 and a router into a fresh
// environment. The SwapStats code is stored next to the DEX codes.
func SetupDEX(t testing.TB) *DEX {
	t.Helper()

	cfg := app.DefaultConfig()
	a, err := app.NewApp(cfg, log.NewNopLogger())
	require.NoError(t, err)

	d, err := a.DeployDEX(Owner, pairtypes.PairSettings{SwapFee: pairtypes.NewFee(3, 1000)})
	require.NoError(t, err)
	d.Codes[CodeSwapStats] = a.StoreCode(CodeSwapStats, SwapStats{})

	return &DEX{DEX: d, App: a, Denom: cfg.NativeDenom}
}

// Fund mints native coins to address.
func (d *DEX) Fund(t testing.TB, address string, amount int64) {
	t.Helper()
	require.NoError(t, d.App.Mint(address, sdk.NewCoins(sdk.NewInt64Coin(d.Denom, amount))))
}

// CreateToken deploys a token with initial balances and registers it with
// the router.
func (d *DEX) CreateToken(t testing.TB, symbol string, balances map[string]uint64) contract.Callable {
	t.Helper()

	initial := make(map[string]math.Uint, len(balances))
	for addr, amount := range balances {
		initial[addr] = math.NewUint(amount)
	}
	token, err := d.App.CreateToken(d.DEX, symbol, initial)
	require.NoError(t, err)
	return token
}

// CreatePair asks the factory for a pair of a and b and returns its record.
func (d *DEX) CreatePair(t testing.TB, a, b pairtypes.AssetInfo) factorytypes.PairRecord {
	t.Helper()
	rec, err := d.App.CreatePair(d.DEX, Owner, [2]pairtypes.AssetInfo{a, b})
	require.NoError(t, err)
	return rec
}

// ProvideLiquidity deposits amounts, ordered as the pair's assets, as
// provider.
func (d *DEX) ProvideLiquidity(t testing.TB, provider string, pair factorytypes.PairRecord, amounts [2]uint64) (*app.Result, error) {
	t.Helper()
	return d.App.ProvideLiquidity(provider, pair, [2]math.Uint{math.NewUint(amounts[0]), math.NewUint(amounts[1])})
}

// TokenBalance returns address's balance of token.
func (d *DEX) TokenBalance(t testing.TB, token contract.Callable, address string) string {
	t.Helper()
	bal, err := tokentypes.QueryBalance(d.App, token, address)
	require.NoError(t, err)
	return bal.String()
}

// NativeBalance returns address's native balance.
func (d *DEX) NativeBalance(t testing.TB, address string) string {
	t.Helper()
	bal, err := d.App.Balance(address, d.Denom)
	require.NoError(t, err)
	return bal.String()
}

// RouteState returns the router's route progress.
func (d *DEX) RouteState(t testing.TB) routertypes.RouteStateResponse {
	t.Helper()
	res, err := routertypes.QueryRouteState(d.App, d.Router)
	require.NoError(t, err)
	return res
}
