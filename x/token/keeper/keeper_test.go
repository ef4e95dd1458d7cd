package keeper_test

import (
	"encoding/json"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/paw-chain/pawswap/pkg/wide"
	keepertest "github.com/paw-chain/pawswap/testutil/keeper"
	"github.com/paw-chain/pawswap/x/shared/contract"
	"github.com/paw-chain/pawswap/x/token/keeper"
	"github.com/paw-chain/pawswap/x/token/types"
)

const (
	tokenAddr = "token1"
	alice     = "alice"
	bob       = "bob"
	minterAcc = "minter"
)

type KeeperTestSuite struct {
	suite.Suite
	keeper keeper.Keeper
	ctx    contract.Context
}

func (s *KeeperTestSuite) SetupTest() {
	s.keeper = keeper.NewKeeper(log.NewNopLogger())
	s.ctx, _ = keepertest.ContractContext(s.T(), tokenAddr, "creator")

	_, err := s.keeper.Instantiate(s.ctx, keepertest.MustJSON(types.InstantiateMsg{
		Name:     "Alpha",
		Symbol:   "ALPHA",
		Decimals: 6,
		InitialBalances: []types.InitialBalance{
			{Address: alice, Amount: math.NewUint(1000)},
		},
		Minter: minterAcc,
	}))
	s.Require().NoError(err)
}

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

func (s *KeeperTestSuite) exec(sender string, msg types.ExecuteMsg) (*contract.Response, error) {
	return s.keeper.Execute(keepertest.WithSender(s.ctx, sender), keepertest.MustJSON(msg))
}

func (s *KeeperTestSuite) balance(addr string) string {
	bal, err := s.keeper.GetBalance(s.ctx, addr)
	s.Require().NoError(err)
	return bal.String()
}

func (s *KeeperTestSuite) supply() string {
	bz, err := s.keeper.Query(s.ctx, keepertest.MustJSON(types.QueryMsg{TokenInfo: &struct{}{}}))
	s.Require().NoError(err)
	var info types.TokenInfo
	s.Require().NoError(json.Unmarshal(bz, &info))
	return info.TotalSupply.String()
}

func (s *KeeperTestSuite) TestTransfer() {
	_, err := s.exec(alice, types.ExecuteMsg{Transfer: &types.TransferMsg{Recipient: bob, Amount: math.NewUint(300)}})
	s.Require().NoError(err)
	s.Require().Equal("700", s.balance(alice))
	s.Require().Equal("300", s.balance(bob))

	_, err = s.exec(bob, types.ExecuteMsg{Transfer: &types.TransferMsg{Recipient: alice, Amount: math.NewUint(301)}})
	s.Require().ErrorIs(err, types.ErrInsufficientBalance)
}

func (s *KeeperTestSuite) TestSendWithoutReceiverIsPlainTransfer() {
	resp, err := s.exec(alice, types.ExecuteMsg{Send: &types.SendMsg{Recipient: bob, Amount: math.NewUint(10)}})
	s.Require().NoError(err)
	s.Require().Empty(resp.Messages)
	s.Require().Equal("10", s.balance(bob))
}

func (s *KeeperTestSuite) TestSendToRegisteredReceiver() {
	_, err := s.exec("pair1", types.ExecuteMsg{RegisterReceive: &types.RegisterReceiveMsg{CodeHash: "pairhash"}})
	s.Require().NoError(err)

	resp, err := s.exec(alice, types.ExecuteMsg{Send: &types.SendMsg{
		Recipient: "pair1",
		Amount:    math.NewUint(25),
		Msg:       json.RawMessage(`{"swap":{}}`),
	}})
	s.Require().NoError(err)
	s.Require().Len(resp.Messages, 1)

	exec := resp.Messages[0].Execute
	s.Require().NotNil(exec)
	s.Require().Equal(contract.Callable{Address: "pair1", CodeHash: "pairhash"}, exec.Contract)

	var hook struct {
		Receive contract.ReceiveMsg `json:"receive"`
	}
	s.Require().NoError(json.Unmarshal(exec.Msg, &hook))
	s.Require().Equal(alice, hook.Receive.Sender)
	s.Require().Equal(alice, hook.Receive.From)
	s.Require().Equal("25", hook.Receive.Amount.String())
	s.Require().JSONEq(`{"swap":{}}`, string(hook.Receive.Msg))
}

func (s *KeeperTestSuite) TestTransferFromUsesAllowance() {
	_, err := s.exec(bob, types.ExecuteMsg{TransferFrom: &types.TransferFromMsg{Owner: alice, Recipient: bob, Amount: math.NewUint(1)}})
	s.Require().ErrorIs(err, types.ErrInsufficientAllowance)

	_, err = s.exec(alice, types.ExecuteMsg{IncreaseAllowance: &types.AllowanceMsg{Spender: bob, Amount: math.NewUint(50)}})
	s.Require().NoError(err)

	_, err = s.exec(bob, types.ExecuteMsg{TransferFrom: &types.TransferFromMsg{Owner: alice, Recipient: "carol", Amount: math.NewUint(40)}})
	s.Require().NoError(err)
	s.Require().Equal("40", s.balance("carol"))

	allowance, err := s.keeper.GetAllowance(s.ctx, alice, bob)
	s.Require().NoError(err)
	s.Require().Equal("10", allowance.String())

	_, err = s.exec(alice, types.ExecuteMsg{DecreaseAllowance: &types.AllowanceMsg{Spender: bob, Amount: math.NewUint(100)}})
	s.Require().NoError(err)
	allowance, err = s.keeper.GetAllowance(s.ctx, alice, bob)
	s.Require().NoError(err)
	s.Require().True(allowance.IsZero())
}

func (s *KeeperTestSuite) TestMintAndBurn() {
	_, err := s.exec(alice, types.ExecuteMsg{Mint: &types.MintMsg{Recipient: alice, Amount: math.NewUint(1)}})
	s.Require().ErrorIs(err, contract.ErrUnauthorized)

	_, err = s.exec(minterAcc, types.ExecuteMsg{Mint: &types.MintMsg{Recipient: bob, Amount: math.NewUint(500)}})
	s.Require().NoError(err)
	s.Require().Equal("1500", s.supply())

	_, err = s.exec(bob, types.ExecuteMsg{Burn: &types.BurnMsg{Amount: math.NewUint(200)}})
	s.Require().NoError(err)
	s.Require().Equal("300", s.balance(bob))
	s.Require().Equal("1300", s.supply())

	_, err = s.exec(minterAcc, types.ExecuteMsg{Mint: &types.MintMsg{Recipient: bob, Amount: wide.MaxAmount}})
	s.Require().ErrorIs(err, wide.ErrOverflow)
}

func (s *KeeperTestSuite) TestBurnFrom() {
	_, err := s.exec(alice, types.ExecuteMsg{IncreaseAllowance: &types.AllowanceMsg{Spender: bob, Amount: math.NewUint(100)}})
	s.Require().NoError(err)
	_, err = s.exec(bob, types.ExecuteMsg{BurnFrom: &types.BurnFromMsg{Owner: alice, Amount: math.NewUint(100)}})
	s.Require().NoError(err)
	s.Require().Equal("900", s.balance(alice))
	s.Require().Equal("900", s.supply())
}

func (s *KeeperTestSuite) TestUnknownAndMalformedMessages() {
	_, err := s.keeper.Execute(s.ctx, json.RawMessage(`{}`))
	s.Require().ErrorIs(err, contract.ErrUnknownMsg)

	_, err = s.keeper.Execute(s.ctx, json.RawMessage(`{"transfer":{"recipient":"bob"}}`))
	s.Require().ErrorIs(err, contract.ErrInvalidRequest)
}

func TestInstantiateFiresInitHook(t *testing.T) {
	k := keeper.NewKeeper(log.NewNopLogger())
	ctx, _ := keepertest.ContractContext(t, "lp1", "pair1")

	hook, err := contract.NewInitHook(contract.Callable{Address: "pair1", CodeHash: "pairhash"}, map[string]any{"post_initialize": struct{}{}})
	require.NoError(t, err)

	resp, err := k.Instantiate(ctx, keepertest.MustJSON(types.InstantiateMsg{
		Name:     "LP",
		Symbol:   "LP",
		Minter:   "pair1",
		InitHook: hook,
	}))
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	require.Equal(t, "pair1", resp.Messages[0].Execute.Contract.Address)
	require.JSONEq(t, `{"post_initialize":{}}`, string(resp.Messages[0].Execute.Msg))
}

func TestInstantiateRejectsMissingSymbol(t *testing.T) {
	k := keeper.NewKeeper(log.NewNopLogger())
	ctx, _ := keepertest.ContractContext(t, "tok", "creator")
	_, err := k.Instantiate(ctx, keepertest.MustJSON(types.InstantiateMsg{Name: "x"}))
	require.ErrorIs(t, err, types.ErrInvalidTokenInfo)
}
