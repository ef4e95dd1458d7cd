package keeper

import (
	"encoding/json"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store/dbadapter"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/shared/contract"
)

// TestCodeHash is the code hash ContractContext assigns to the called
// contract.
const TestCodeHash = "test-code-hash"

// ContractContext returns a context for calling a contract keeper directly,
// backed by an in-memory store and a MockQuerier.
func ContractContext(t testing.TB, self, sender string) (contract.Context, *MockQuerier) {
	t.Helper()

	querier := NewMockQuerier()
	ctx := contract.Context{
		Env: contract.Env{
			BlockHeight: 1,
			BlockTime:   time.Unix(1_700_000_000, 0).UTC(),
			Contract:    contract.Callable{Address: self, CodeHash: TestCodeHash},
			Sender:      sender,
		},
		Store:   &dbadapter.Store{DB: dbm.NewMemDB()},
		Querier: querier,
		Logger:  log.NewNopLogger(),
	}
	return ctx, querier
}

// WithSender returns ctx called by sender with the given native funds.
func WithSender(ctx contract.Context, sender string, funds ...sdk.Coin) contract.Context {
	ctx.Env.Sender = sender
	ctx.Env.SentFunds = sdk.NewCoins(funds...)
	return ctx
}

// MustJSON encodes v or panics.
func MustJSON(v any) json.RawMessage {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}

// QueryHandler answers a smart query made against one contract address.
type QueryHandler func(req []byte) ([]byte, error)

// MockQuerier serves queries from registered handlers and a native balance
// table.
type MockQuerier struct {
	handlers map[string]QueryHandler
	balances map[string]math.Int
	Calls    []string
}

var _ contract.Querier = (*MockQuerier)(nil)

// NewMockQuerier returns an empty querier.
func NewMockQuerier() *MockQuerier {
	return &MockQuerier{
		handlers: make(map[string]QueryHandler),
		balances: make(map[string]math.Int),
	}
}

// Handle registers the handler for address.
func (q *MockQuerier) Handle(address string, h QueryHandler) {
	q.handlers[address] = h
}

// Respond registers a handler answering every query to address with v.
func (q *MockQuerier) Respond(address string, v any) {
	q.handlers[address] = func([]byte) ([]byte, error) {
		return json.Marshal(v)
	}
}

// SetBalance sets the native balance of address.
func (q *MockQuerier) SetBalance(address, denom string, amount math.Int) {
	q.balances[address+"/"+denom] = amount
}

func (q *MockQuerier) QuerySmart(target contract.Callable, req []byte) ([]byte, error) {
	q.Calls = append(q.Calls, target.Address)
	h, ok := q.handlers[target.Address]
	if !ok {
		return nil, contract.ErrNotFound.Wrapf("no contract at %s", target.Address)
	}
	return h(req)
}

func (q *MockQuerier) QueryBalance(address, denom string) (math.Int, error) {
	if amount, ok := q.balances[address+"/"+denom]; ok {
		return amount, nil
	}
	return math.ZeroInt(), nil
}
