package keeper_test

import (
	"encoding/json"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/suite"

	keepertest "github.com/paw-chain/pawswap/testutil/keeper"
	pairtypes "github.com/paw-chain/pawswap/x/pair/types"
	"github.com/paw-chain/pawswap/x/router/keeper"
	"github.com/paw-chain/pawswap/x/router/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
	tokentypes "github.com/paw-chain/pawswap/x/token/types"
)

const (
	routerAddr = "router1"
	denom      = "upaw"
	alice      = "alice"
	bob        = "bob"
	admin      = "admin"
)

var (
	tokenX = contract.Callable{Address: "tokenX", CodeHash: "token-hash"}
	tokenY = contract.Callable{Address: "tokenY", CodeHash: "token-hash"}
	pairA  = contract.Callable{Address: "pairA", CodeHash: "pair-hash"}
	pairB  = contract.Callable{Address: "pairB", CodeHash: "pair-hash"}
	pairC  = contract.Callable{Address: "pairC", CodeHash: "pair-hash"}
)

func uintPtr(v uint64) *math.Uint {
	u := math.NewUint(v)
	return &u
}

// threeHops routes upaw -> tokenX -> tokenY -> out.
func threeHops() types.Route {
	return types.Route{
		Hops: []types.Hop{
			{FromToken: pairtypes.NativeAsset(denom), Pair: pairA, ExpectedReturn: uintPtr(1)},
			{FromToken: pairtypes.TokenAsset(tokenX), Pair: pairB, ExpectedReturn: uintPtr(2)},
			{FromToken: pairtypes.TokenAsset(tokenY), Pair: pairC, ExpectedReturn: uintPtr(3)},
		},
		To:             bob,
		ExpectedReturn: uintPtr(70),
	}
}

type KeeperTestSuite struct {
	suite.Suite
	keeper  keeper.Keeper
	ctx     contract.Context
	querier *keepertest.MockQuerier
}

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

func (s *KeeperTestSuite) SetupTest() {
	s.keeper = keeper.NewKeeper(denom, log.NewNopLogger())
	s.ctx, s.querier = keepertest.ContractContext(s.T(), routerAddr, admin)

	resp, err := s.keeper.Instantiate(s.ctx, keepertest.MustJSON(types.InstantiateMsg{
		RegisterTokens: []contract.Callable{tokenX, tokenY, tokenX},
	}))
	s.Require().NoError(err)
	s.Require().Len(resp.Messages, 2)
}

func (s *KeeperTestSuite) exec(sender string, msg types.ExecuteMsg, funds ...sdk.Coin) (*contract.Response, error) {
	return s.keeper.Execute(keepertest.WithSender(s.ctx, sender, funds...), keepertest.MustJSON(msg))
}

func (s *KeeperTestSuite) initiateNative(route types.Route, amount int64) (*contract.Response, error) {
	return s.exec(alice, types.ExecuteMsg{Receive: &contract.ReceiveMsg{
		Sender: alice,
		From:   alice,
		Amount: math.NewUint(uint64(amount)),
		Msg:    keepertest.MustJSON(route),
	}}, sdk.NewInt64Coin(denom, amount))
}

func (s *KeeperTestSuite) hopOutput(token, pair string, amount uint64) (*contract.Response, error) {
	return s.exec(token, types.ExecuteMsg{Receive: &contract.ReceiveMsg{
		Sender: pair,
		From:   pair,
		Amount: math.NewUint(amount),
	}})
}

func (s *KeeperTestSuite) finalize(sender string) (*contract.Response, error) {
	return s.exec(sender, types.ExecuteMsg{FinalizeRoute: &struct{}{}})
}

func (s *KeeperTestSuite) state() types.RouteStateResponse {
	bz, err := s.keeper.Query(s.ctx, keepertest.MustJSON(types.QueryMsg{RouteState: &struct{}{}}))
	s.Require().NoError(err)
	var res types.RouteStateResponse
	s.Require().NoError(json.Unmarshal(bz, &res))
	return res
}

func (s *KeeperTestSuite) rawState() []byte {
	return s.ctx.Store.Get([]byte(types.RouteStateKey))
}

// tokenSwap decodes a token send carrying a pair swap payload.
func (s *KeeperTestSuite) tokenSwap(msg contract.Msg) (tokentypes.SendMsg, pairtypes.SwapHook) {
	s.Require().NotNil(msg.Execute)
	var exec tokentypes.ExecuteMsg
	s.Require().NoError(json.Unmarshal(msg.Execute.Msg, &exec))
	s.Require().NotNil(exec.Send)
	var payload pairtypes.ReceivePayload
	s.Require().NoError(json.Unmarshal(exec.Send.Msg, &payload))
	s.Require().NotNil(payload.Swap)
	return *exec.Send, *payload.Swap
}

func (s *KeeperTestSuite) TestThreeHopRoute() {
	s.Require().Equal(types.PhaseIdle, s.state().Phase)

	resp, err := s.initiateNative(threeHops(), 100)
	s.Require().NoError(err)
	s.Require().Len(resp.Messages, 2)

	first := resp.Messages[0].Execute
	s.Require().Equal(pairA.Address, first.Contract.Address)
	s.Require().Equal("100upaw", first.Funds.String())
	var swap pairtypes.ExecuteMsg
	s.Require().NoError(json.Unmarshal(first.Msg, &swap))
	s.Require().Equal(routerAddr, swap.Swap.To)
	s.Require().Equal("1", swap.Swap.ExpectedReturn.String())

	finalize := resp.Messages[1].Execute
	s.Require().Equal(routerAddr, finalize.Contract.Address)
	s.Require().Equal(keepertest.TestCodeHash, finalize.Contract.CodeHash)

	st := s.state()
	s.Require().Equal(types.PhaseHopping, st.Phase)
	s.Require().Equal(pairA.Address, st.State.CurrentHop.Pair.Address)
	s.Require().Len(st.State.RemainingRoute.Hops, 2)

	// Nothing has come back from the first hop yet.
	_, err = s.finalize(routerAddr)
	s.Require().ErrorIs(err, types.ErrRouteNotDone)
	_, err = s.initiateNative(threeHops(), 100)
	s.Require().ErrorIs(err, types.ErrRouteInProgress)

	resp, err = s.hopOutput(tokenX.Address, pairA.Address, 90)
	s.Require().NoError(err)
	s.Require().Len(resp.Messages, 1)
	s.Require().Equal(tokenX.Address, resp.Messages[0].Execute.Contract.Address)
	send, hook := s.tokenSwap(resp.Messages[0])
	s.Require().Equal(pairB.Address, send.Recipient)
	s.Require().Equal("90", send.Amount.String())
	s.Require().Equal(routerAddr, hook.To)
	s.Require().Equal("2", hook.ExpectedReturn.String())
	s.Require().Equal(pairB.Address, s.state().State.CurrentHop.Pair.Address)

	resp, err = s.hopOutput(tokenY.Address, pairB.Address, 80)
	s.Require().NoError(err)
	send, hook = s.tokenSwap(resp.Messages[0])
	s.Require().Equal(pairC.Address, send.Recipient)
	s.Require().Equal(bob, hook.To)
	s.Require().Equal("70", hook.ExpectedReturn.String())

	st = s.state()
	s.Require().Equal(types.PhaseFinalizing, st.Phase)
	s.Require().Nil(st.State.CurrentHop)
	s.Require().Empty(st.State.RemainingRoute.Hops)

	_, err = s.hopOutput(tokenY.Address, pairC.Address, 1)
	s.Require().ErrorIs(err, types.ErrEmptyRoute)

	_, err = s.finalize(alice)
	s.Require().ErrorIs(err, contract.ErrUnauthorized)

	_, err = s.finalize(routerAddr)
	s.Require().NoError(err)
	s.Require().Equal(types.PhaseIdle, s.state().Phase)
	s.Require().Nil(s.rawState())

	_, err = s.hopOutput(tokenX.Address, pairA.Address, 90)
	s.Require().ErrorIs(err, types.ErrNoActiveRoute)
}

func (s *KeeperTestSuite) TestLastHopFallsBackToItsOwnBound() {
	route := threeHops()
	route.Hops = route.Hops[1:]
	route.ExpectedReturn = nil

	_, err := s.exec(tokenX.Address, types.ExecuteMsg{Receive: &contract.ReceiveMsg{
		Sender: alice, From: alice, Amount: math.NewUint(50), Msg: keepertest.MustJSON(route),
	}})
	s.Require().NoError(err)

	resp, err := s.hopOutput(tokenY.Address, pairB.Address, 40)
	s.Require().NoError(err)
	_, hook := s.tokenSwap(resp.Messages[0])
	s.Require().Equal(bob, hook.To)
	s.Require().Equal("3", hook.ExpectedReturn.String())
}

func (s *KeeperTestSuite) TestContinueRejectionLeavesStateUntouched() {
	_, err := s.initiateNative(threeHops(), 100)
	s.Require().NoError(err)
	before := s.rawState()
	s.Require().NotNil(before)

	// wrong token
	_, err = s.hopOutput(tokenY.Address, pairA.Address, 90)
	s.Require().ErrorIs(err, contract.ErrUnauthorized)
	s.Require().Equal(before, s.rawState())

	// wrong pair
	_, err = s.hopOutput(tokenX.Address, pairB.Address, 90)
	s.Require().ErrorIs(err, contract.ErrUnauthorized)
	s.Require().Equal(before, s.rawState())
}

func (s *KeeperTestSuite) TestInitiateRejections() {
	short := threeHops()
	short.Hops = short.Hops[:1]
	_, err := s.initiateNative(short, 100)
	s.Require().ErrorIs(err, types.ErrRouteTooShort)

	nativeLater := threeHops()
	nativeLater.Hops[1].FromToken = pairtypes.NativeAsset(denom)
	_, err = s.initiateNative(nativeLater, 100)
	s.Require().ErrorIs(err, types.ErrNativeHop)

	// declared amount differs from the attached coin
	_, err = s.exec(alice, types.ExecuteMsg{Receive: &contract.ReceiveMsg{
		Sender: alice, From: alice, Amount: math.NewUint(100), Msg: keepertest.MustJSON(threeHops()),
	}}, sdk.NewInt64Coin(denom, 99))
	s.Require().ErrorIs(err, types.ErrFirstHopMismatch)

	otherDenom := threeHops()
	otherDenom.Hops[0].FromToken = pairtypes.NativeAsset("uother")
	_, err = s.exec(alice, types.ExecuteMsg{Receive: &contract.ReceiveMsg{
		Sender: alice, From: alice, Amount: math.NewUint(100), Msg: keepertest.MustJSON(otherDenom),
	}}, sdk.NewInt64Coin("uother", 100))
	s.Require().ErrorIs(err, types.ErrFirstHopMismatch)

	tokenRoute := threeHops()
	tokenRoute.Hops = tokenRoute.Hops[1:]
	_, err = s.exec(tokenY.Address, types.ExecuteMsg{Receive: &contract.ReceiveMsg{
		Sender: alice, From: alice, Amount: math.NewUint(100), Msg: keepertest.MustJSON(tokenRoute),
	}})
	s.Require().ErrorIs(err, types.ErrFirstHopMismatch)

	_, err = s.exec(tokenX.Address, types.ExecuteMsg{Receive: &contract.ReceiveMsg{
		Sender: alice, From: alice, Amount: math.NewUint(100), Msg: json.RawMessage(`{"hops":"nope"}`),
	}})
	s.Require().ErrorIs(err, contract.ErrInvalidRequest)

	s.Require().Nil(s.rawState())
}

func (s *KeeperTestSuite) TestFinalizeSweepsCashback() {
	cash := contract.Callable{Address: "cashback", CodeHash: "token-hash"}
	_, err := s.exec(admin, types.ExecuteMsg{UpdateSettings: &types.UpdateSettingsMsg{NewCashback: &cash}})
	s.Require().NoError(err)
	s.querier.Respond(cash.Address, tokentypes.BalanceResponse{Amount: math.NewUint(7)})

	route := threeHops()
	route.Hops = route.Hops[:2]
	_, err = s.initiateNative(route, 100)
	s.Require().NoError(err)
	_, err = s.hopOutput(tokenX.Address, pairA.Address, 90)
	s.Require().NoError(err)

	resp, err := s.finalize(routerAddr)
	s.Require().NoError(err)
	s.Require().Len(resp.Messages, 1)
	s.Require().Equal(cash.Address, resp.Messages[0].Execute.Contract.Address)
	var exec tokentypes.ExecuteMsg
	s.Require().NoError(json.Unmarshal(resp.Messages[0].Execute.Msg, &exec))
	s.Require().Equal(bob, exec.Transfer.Recipient)
	s.Require().Equal("7", exec.Transfer.Amount.String())
}

func (s *KeeperTestSuite) TestRegisterTokens() {
	resp, err := s.exec(alice, types.ExecuteMsg{RegisterTokens: &types.RegisterTokensMsg{
		Tokens: []contract.Callable{tokenX, {Address: "tokenZ", CodeHash: "token-hash"}},
	}})
	s.Require().NoError(err)
	s.Require().Len(resp.Messages, 1)
	s.Require().Equal("tokenZ", resp.Messages[0].Execute.Contract.Address)

	bz, err := s.keeper.Query(s.ctx, keepertest.MustJSON(types.QueryMsg{SupportedTokens: &struct{}{}}))
	s.Require().NoError(err)
	var res types.SupportedTokensResponse
	s.Require().NoError(json.Unmarshal(bz, &res))
	s.Require().Len(res.Tokens, 3)
}

func (s *KeeperTestSuite) TestOwnerOperations() {
	rescue := types.RecoverFundsMsg{Token: pairtypes.NativeAsset(denom), Amount: math.NewUint(5), To: alice}
	_, err := s.exec(alice, types.ExecuteMsg{RecoverFunds: &rescue})
	s.Require().ErrorIs(err, contract.ErrUnauthorized)

	resp, err := s.exec(admin, types.ExecuteMsg{RecoverFunds: &rescue})
	s.Require().NoError(err)
	s.Require().Equal("5upaw", resp.Messages[0].Bank.Amount.String())

	rescue.Token = pairtypes.TokenAsset(tokenX)
	resp, err = s.exec(admin, types.ExecuteMsg{RecoverFunds: &rescue})
	s.Require().NoError(err)
	s.Require().Equal(tokenX.Address, resp.Messages[0].Execute.Contract.Address)

	newOwner := alice
	_, err = s.exec(admin, types.ExecuteMsg{UpdateSettings: &types.UpdateSettingsMsg{NewOwner: &newOwner}})
	s.Require().NoError(err)

	bz, err := s.keeper.Query(s.ctx, keepertest.MustJSON(types.QueryMsg{Config: &struct{}{}}))
	s.Require().NoError(err)
	var cfg types.ConfigResponse
	s.Require().NoError(json.Unmarshal(bz, &cfg))
	s.Require().Equal(alice, cfg.Owner)
	s.Require().Equal(denom, cfg.NativeDenom)
	s.Require().Nil(cfg.Cashback)

	_, err = s.exec(admin, types.ExecuteMsg{UpdateSettings: &types.UpdateSettingsMsg{NewOwner: &newOwner}})
	s.Require().ErrorIs(err, contract.ErrUnauthorized)
}
