package app

import (
	"cosmossdk.io/math"
	"cosmossdk.io/store/cachekv"
	storetypes "cosmossdk.io/store/types"

	"github.com/paw-chain/pawswap/x/shared/contract"
)

// branchQuerier answers a contract's queries against the branch it runs in,
// so state written earlier in the same transaction is visible.
type branchQuerier struct {
	app   *App
	store storetypes.KVStore
	depth int
}

var _ contract.Querier = (*branchQuerier)(nil)

func (q *branchQuerier) QuerySmart(target contract.Callable, req []byte) ([]byte, error) {
	if q.depth > q.app.cfg.MaxDepth {
		return nil, ErrMaxDepth.Wrapf("query depth %d", q.depth)
	}
	inst, code, err := q.app.resolve(q.store, target, false)
	if err != nil {
		return nil, err
	}
	// Queries never write; whatever they touch is discarded.
	scratch := cachekv.NewStore(q.store)
	ctx := q.app.contractContext(scratch, inst, "", nil, q.depth+1)
	return code.contract.Query(ctx, req)
}

func (q *branchQuerier) QueryBalance(address, denom string) (math.Int, error) {
	return balanceOf(q.store, address, denom)
}

// QuerySmart runs a smart query against committed state.
func (a *App) QuerySmart(target contract.Callable, req []byte) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	bz, err := (&branchQuerier{app: a, store: a.root}).QuerySmart(target, req)
	if err != nil {
		a.metrics.Queries.WithLabelValues("failed").Inc()
		return nil, err
	}
	a.metrics.Queries.WithLabelValues("ok").Inc()
	return bz, nil
}

// QueryBalance returns a committed native balance.
func (a *App) QueryBalance(address, denom string) (math.Int, error) {
	return a.Balance(address, denom)
}

// Query encodes req and queries the contract at address.
func (a *App) Query(address string, req []byte) ([]byte, error) {
	return a.QuerySmart(contract.Callable{Address: address}, req)
}
