package app_test

import (
	"encoding/json"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/paw-chain/pawswap/app"
	"github.com/paw-chain/pawswap/pkg/wide"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

// counterMsg drives the counter contract. Incr bumps the count; Fail makes
// the call error after bumping; Child is called next, best-effort or not.
type counterMsg struct {
	Incr       bool        `json:"incr,omitempty"`
	Fail       bool        `json:"fail,omitempty"`
	Child      *counterMsg `json:"child,omitempty"`
	BestEffort bool        `json:"best_effort,omitempty"`
	Pay        string      `json:"pay,omitempty"`
}

var count = contract.NewItem[uint64]("count")

type counter struct{}

func (counter) Instantiate(ctx contract.Context, _ json.RawMessage) (*contract.Response, error) {
	return contract.NewResponse(), count.Save(ctx.Store, 0)
}

func (counter) Execute(ctx contract.Context, raw json.RawMessage) (*contract.Response, error) {
	var msg counterMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, contract.ErrInvalidRequest.Wrap(err.Error())
	}
	resp := contract.NewResponse()
	if msg.Incr {
		n, err := count.Load(ctx.Store)
		if err != nil {
			return nil, err
		}
		if err := count.Save(ctx.Store, n+1); err != nil {
			return nil, err
		}
		resp.AddEvent(sdk.NewEvent("incr"))
	}
	if msg.Fail {
		return nil, contract.ErrUnauthorized.Wrap("told to fail")
	}
	if msg.Pay != "" {
		resp.AddMessages(contract.NewBankMsg(msg.Pay, ctx.Env.SentFunds))
	}
	if msg.Child != nil {
		child, err := contract.NewExecuteMsg(ctx.Self(), msg.Child, nil)
		if err != nil {
			return nil, err
		}
		child.BestEffort = msg.BestEffort
		resp.AddMessages(child)
	}
	return resp, nil
}

func (counter) Query(ctx contract.Context, _ json.RawMessage) ([]byte, error) {
	n, err := count.Load(ctx.Store)
	if err != nil {
		return nil, err
	}
	// Writes made while answering are discarded.
	if err := count.Save(ctx.Store, n+100); err != nil {
		return nil, err
	}
	return contract.QueryResult(n)
}

type AppTestSuite struct {
	suite.Suite
	app     *app.App
	code    app.Code
	counter app.Instance
}

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (s *AppTestSuite) SetupTest() {
	a, err := app.NewApp(app.DefaultConfig(), log.NewNopLogger())
	s.Require().NoError(err)
	s.app = a
	s.code = a.StoreCode("counter", counter{})
	s.counter, _, err = a.Instantiate(alice, s.code.ID, "counter", struct{}{}, nil)
	s.Require().NoError(err)
}

func (s *AppTestSuite) count() uint64 {
	n, err := contract.Query[uint64](s.app, s.counter.Callable(), struct{}{})
	s.Require().NoError(err)
	return n
}

func eventTypes(res *app.Result) []string {
	var out []string
	for _, ev := range res.Events {
		out = append(out, ev.Type)
	}
	return out
}

func (s *AppTestSuite) TestNestedCallsShareTheTransaction() {
	res, err := s.app.Execute(alice, s.counter.Address, counterMsg{Incr: true, Child: &counterMsg{Incr: true}}, nil)
	s.Require().NoError(err)
	s.Require().Equal(uint64(2), s.count())
	s.Require().Equal([]string{app.EventTypeExecute, "incr", app.EventTypeExecute, "incr"}, eventTypes(res))
}

func (s *AppTestSuite) TestFailedChildAbortsTransaction() {
	_, err := s.app.Execute(alice, s.counter.Address, counterMsg{Incr: true, Child: &counterMsg{Incr: true, Fail: true}}, nil)
	s.Require().ErrorIs(err, contract.ErrUnauthorized)
	s.Require().Equal(uint64(0), s.count())
}

func (s *AppTestSuite) TestBestEffortChildIsDropped() {
	res, err := s.app.Execute(alice, s.counter.Address, counterMsg{
		Incr:       true,
		BestEffort: true,
		Child:      &counterMsg{Incr: true, Child: &counterMsg{Fail: true}},
	}, nil)
	s.Require().NoError(err)

	// The child and everything it emitted is rolled back; the parent stays.
	s.Require().Equal(uint64(1), s.count())
	s.Require().Equal([]string{app.EventTypeExecute, "incr", app.EventTypeDispatchFailure}, eventTypes(res))
}

func (s *AppTestSuite) TestQueriesDoNotWrite() {
	s.Require().Equal(uint64(0), s.count())
	s.Require().Equal(uint64(0), s.count())
}

func (s *AppTestSuite) TestFundsMoveWithCalls() {
	s.Require().NoError(s.app.Mint(alice, sdk.NewCoins(sdk.NewInt64Coin("upaw", 50))))

	_, err := s.app.Execute(alice, s.counter.Address, counterMsg{Pay: bob}, sdk.NewCoins(sdk.NewInt64Coin("upaw", 30)))
	s.Require().NoError(err)

	bal, err := s.app.Balance(alice, "upaw")
	s.Require().NoError(err)
	s.Require().Equal("20", bal.String())
	coins, err := s.app.Balances(bob)
	s.Require().NoError(err)
	s.Require().Equal("30upaw", coins.String())
	coins, err = s.app.Balances(s.counter.Address)
	s.Require().NoError(err)
	s.Require().True(coins.Empty())

	_, err = s.app.Execute(alice, s.counter.Address, counterMsg{}, sdk.NewCoins(sdk.NewInt64Coin("upaw", 21)))
	s.Require().ErrorIs(err, contract.ErrInsufficientFunds)
}

func (s *AppTestSuite) TestBalancesAreCappedAt128Bits() {
	capped := sdk.NewCoin("upaw", math.NewIntFromBigInt(wide.MaxAmount.BigInt()))
	s.Require().NoError(s.app.Mint(alice, sdk.NewCoins(capped)))

	err := s.app.Mint(alice, sdk.NewCoins(sdk.NewInt64Coin("upaw", 1)))
	s.Require().ErrorIs(err, wide.ErrOverflow)

	s.Require().NoError(s.app.Mint(bob, sdk.NewCoins(sdk.NewInt64Coin("upaw", 1))))
	_, err = s.app.Execute(bob, s.counter.Address, counterMsg{Pay: alice}, sdk.NewCoins(sdk.NewInt64Coin("upaw", 1)))
	s.Require().ErrorIs(err, wide.ErrOverflow)

	bal, err := s.app.Balance(alice, "upaw")
	s.Require().NoError(err)
	s.Require().Equal(wide.MaxAmount.String(), bal.String())
	bal, err = s.app.Balance(bob, "upaw")
	s.Require().NoError(err)
	s.Require().Equal("1", bal.String())
}

func (s *AppTestSuite) TestInstances() {
	second, _, err := s.app.Instantiate(bob, s.code.ID, "second", struct{}{}, nil)
	s.Require().NoError(err)
	s.Require().NotEqual(s.counter.Address, second.Address)
	s.Require().Equal(app.CodeHash("counter"), second.CodeHash)

	got, err := s.app.Contract(second.Address)
	s.Require().NoError(err)
	s.Require().Equal(second, got)
	s.Require().Equal(bob, got.Creator)

	_, _, err = s.app.Instantiate(bob, 99, "missing", struct{}{}, nil)
	s.Require().ErrorIs(err, app.ErrUnknownCode)

	_, err = s.app.Contract("nowhere")
	s.Require().ErrorIs(err, app.ErrUnknownContract)
}

func (s *AppTestSuite) TestHeightAdvancesPerTransaction() {
	h := s.app.Height()
	_, err := s.app.Execute(alice, s.counter.Address, counterMsg{Incr: true}, nil)
	s.Require().NoError(err)
	s.Require().Equal(h+1, s.app.Height())
}

func TestInvalidConfig(t *testing.T) {
	cfg := app.DefaultConfig()
	cfg.MaxDepth = 0
	_, err := app.NewApp(cfg, log.NewNopLogger())
	require.ErrorIs(t, err, app.ErrInvalidConfig)

	cfg = app.DefaultConfig()
	cfg.NativeDenom = "!"
	require.ErrorIs(t, cfg.Validate(), app.ErrInvalidConfig)
}
