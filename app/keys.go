package app

// ModuleName is the environment's error codespace.
const ModuleName = "app"

// Store layout of the root store.
const (
	BankPrefix     = "bank/"
	InstancePrefix = "instances/"
	StatePrefix    = "state/"
	InstanceSeqKey = "instance_seq"
)

// BankKey returns the bank key of address's denom balance.
func BankKey(address, denom string) []byte {
	return []byte(address + "/" + denom)
}

// StateKey returns the prefix of a contract's own store.
func StateKey(address string) []byte {
	return []byte(StatePrefix + address + "/")
}
