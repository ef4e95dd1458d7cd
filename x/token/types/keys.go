package types

const (
	// ModuleName is the token ledger's error codespace and event prefix.
	ModuleName = "token"
)

// Store keys of a token instance.
const (
	TokenInfoKey    = "token_info"
	MinterKey       = "minter"
	BalancePrefix   = "b/"
	AllowancePrefix = "a/"
	ReceiverPrefix  = "r/"
)

// AllowanceKey returns the allowance key of spender on owner's balance.
func AllowanceKey(owner, spender string) []byte {
	key := make([]byte, 0, len(owner)+len(spender)+1)
	key = append(key, owner...)
	key = append(key, '/')
	return append(key, spender...)
}
