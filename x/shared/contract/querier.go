package contract

import (
	"encoding/json"

	"cosmossdk.io/math"
)

// Querier gives a contract read-only access to other contracts and to the
// native coin bank.
type Querier interface {
	// QuerySmart runs a JSON query against target.
	QuerySmart(target Callable, req []byte) ([]byte, error)
	// QueryBalance returns the native balance of address in denom.
	QueryBalance(address, denom string) (math.Int, error)
}

// Query encodes req, queries target and decodes the answer into T.
func Query[T any](q Querier, target Callable, req any) (T, error) {
	var out T
	bz, err := json.Marshal(req)
	if err != nil {
		return out, ErrEncoding.Wrapf("query %s: %s", target.Address, err)
	}
	res, err := q.QuerySmart(target, bz)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(res, &out); err != nil {
		return out, ErrEncoding.Wrapf("query %s response: %s", target.Address, err)
	}
	return out, nil
}

// QueryResult encodes a query answer.
func QueryResult(v any) ([]byte, error) {
	bz, err := json.Marshal(v)
	if err != nil {
		return nil, ErrEncoding.Wrap(err.Error())
	}
	return bz, nil
}
