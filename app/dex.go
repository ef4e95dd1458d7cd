package app

import (
	"sort"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	factorykeeper "github.com/paw-chain/pawswap/x/factory/keeper"
	factorytypes "github.com/paw-chain/pawswap/x/factory/types"
	pairkeeper "github.com/paw-chain/pawswap/x/pair/keeper"
	pairtypes "github.com/paw-chain/pawswap/x/pair/types"
	routerkeeper "github.com/paw-chain/pawswap/x/router/keeper"
	routertypes "github.com/paw-chain/pawswap/x/router/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
	tokenkeeper "github.com/paw-chain/pawswap/x/token/keeper"
	tokentypes "github.com/paw-chain/pawswap/x/token/types"
)

// Names the DEX codes are stored under.
const (
	CodeToken   = "token"
	CodePair    = "pair"
	CodeFactory = "factory"
	CodeRouter  = "router"
)

// DEX is a deployed factory and router.
type DEX struct {
	Owner   string
	Codes   map[string]Code
	Factory contract.Callable
	Router  contract.Callable
}

// StoreDEXCodes stores the token, pair, factory and router codes.
func (a *App) StoreDEXCodes() map[string]Code {
	return map[string]Code{
		CodeToken:   a.StoreCode(CodeToken, tokenkeeper.NewKeeper(a.logger)),
		CodePair:    a.StoreCode(CodePair, pairkeeper.NewKeeper(nil, a.logger)),
		CodeFactory: a.StoreCode(CodeFactory, factorykeeper.NewKeeper(a.logger)),
		CodeRouter:  a.StoreCode(CodeRouter, routerkeeper.NewKeeper(a.cfg.NativeDenom, a.logger)),
	}
}

// DeployDEX stores the DEX codes and instantiates a factory creating pairs
// under settings and a router, both owned by owner.
func (a *App) DeployDEX(owner string, settings pairtypes.PairSettings) (*DEX, error) {
	d := &DEX{Owner: owner, Codes: a.StoreDEXCodes()}

	factory, _, err := a.Instantiate(owner, d.Codes[CodeFactory].ID, CodeFactory, factorytypes.InstantiateMsg{
		PairCodeID:    d.Codes[CodePair].ID,
		PairCodeHash:  d.Codes[CodePair].Hash,
		TokenCodeID:   d.Codes[CodeToken].ID,
		TokenCodeHash: d.Codes[CodeToken].Hash,
		PairSettings:  settings,
	}, nil)
	if err != nil {
		return nil, err
	}
	d.Factory = factory.Callable()

	router, _, err := a.Instantiate(owner, d.Codes[CodeRouter].ID, CodeRouter, routertypes.InstantiateMsg{}, nil)
	if err != nil {
		return nil, err
	}
	d.Router = router.Callable()

	a.logger.Info("dex deployed", "factory", d.Factory.Address, "router", d.Router.Address)
	return d, nil
}

// CreateToken instantiates a token with initial balances and registers it
// with the router.
func (a *App) CreateToken(d *DEX, symbol string, balances map[string]math.Uint) (contract.Callable, error) {
	msg := tokentypes.InstantiateMsg{Name: symbol, Symbol: symbol, Decimals: 6}
	for addr, amount := range balances {
		msg.InitialBalances = append(msg.InitialBalances, tokentypes.InitialBalance{Address: addr, Amount: amount})
	}
	sort.Slice(msg.InitialBalances, func(i, j int) bool {
		return msg.InitialBalances[i].Address < msg.InitialBalances[j].Address
	})

	inst, _, err := a.Instantiate(d.Owner, d.Codes[CodeToken].ID, symbol, msg, nil)
	if err != nil {
		return contract.Callable{}, err
	}
	_, err = a.Execute(d.Owner, d.Router.Address, routertypes.ExecuteMsg{
		RegisterTokens: &routertypes.RegisterTokensMsg{Tokens: []contract.Callable{inst.Callable()}},
	}, nil)
	return inst.Callable(), err
}

// CreatePair asks the factory for a pair of infos and returns its record.
func (a *App) CreatePair(d *DEX, sender string, infos [2]pairtypes.AssetInfo) (factorytypes.PairRecord, error) {
	msg, err := factorytypes.NewCreatePair(d.Factory, infos)
	if err != nil {
		return factorytypes.PairRecord{}, err
	}
	if _, err := a.Dispatch(sender, msg); err != nil {
		return factorytypes.PairRecord{}, err
	}
	return factorytypes.QueryPair(a, d.Factory, infos)
}

// ProvideLiquidity approves the pair for the token deposits and deposits
// amounts, ordered as the pair's assets, in one transaction.
func (a *App) ProvideLiquidity(provider string, pair factorytypes.PairRecord, amounts [2]math.Uint) (*Result, error) {
	var (
		assets [2]pairtypes.Asset
		msgs   []contract.Msg
	)
	funds := sdk.NewCoins()
	for i, info := range pair.AssetInfos {
		assets[i] = pairtypes.NewAsset(info, amounts[i])
		if info.IsNative() {
			funds = funds.Add(assets[i].Coin())
			continue
		}
		approve, err := contract.NewExecuteMsg(*info.Token, tokentypes.ExecuteMsg{
			IncreaseAllowance: &tokentypes.AllowanceMsg{Spender: pair.Pair.Address, Amount: amounts[i]},
		}, nil)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, approve)
	}
	provide, err := contract.NewExecuteMsg(pair.Pair, pairtypes.ExecuteMsg{
		ProvideLiquidity: &pairtypes.ProvideLiquidityMsg{Assets: assets},
	}, funds)
	if err != nil {
		return nil, err
	}
	return a.Dispatch(provider, append(msgs, provide)...)
}

// WithdrawLiquidity burns shares of pair's liquidity token for the
// underlying assets.
func (a *App) WithdrawLiquidity(provider string, pair factorytypes.PairRecord, shares math.Uint) (*Result, error) {
	msg, err := tokentypes.NewSend(pair.LiquidityToken, pair.Pair, shares, pairtypes.ReceivePayload{WithdrawLiquidity: &struct{}{}})
	if err != nil {
		return nil, err
	}
	return a.Dispatch(provider, msg)
}
