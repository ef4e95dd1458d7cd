// Package contract defines the interface between contracts and the
// environment hosting them.
//
// A contract is stateless code. Each call receives a Context carrying the
// caller, the instance's private store and a read-only Querier, and returns a
// Response whose messages the environment dispatches after the call returns.
// Nothing a contract emits is observable inside the same call.
package contract

import (
	"encoding/json"
	"time"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Callable identifies a contract instance together with the code hash the
// caller expects to find there.
type Callable struct {
	Address  string `json:"address"`
	CodeHash string `json:"code_hash"`
}

func (c Callable) String() string {
	return c.Address
}

// Env describes the block and the message a contract is invoked for.
type Env struct {
	BlockHeight int64     `json:"block_height"`
	BlockTime   time.Time `json:"block_time"`
	Contract    Callable  `json:"contract"`
	Sender      string    `json:"sender"`
	SentFunds   sdk.Coins `json:"sent_funds"`
}

// Context is handed to every contract entry point.
type Context struct {
	Env     Env
	Store   storetypes.KVStore
	Querier Querier
	Logger  log.Logger
}

// Self returns the called contract.
func (ctx Context) Self() Callable {
	return ctx.Env.Contract
}

// Contract is implemented by every contract code.
type Contract interface {
	Instantiate(ctx Context, msg json.RawMessage) (*Response, error)
	Execute(ctx Context, msg json.RawMessage) (*Response, error)
	Query(ctx Context, msg json.RawMessage) ([]byte, error)
}
