package types

const (
	// ModuleName is the pair contract's error codespace.
	ModuleName = "pair"

	// PairInfoKey stores the pair's PairInfo.
	PairInfoKey = "pair_info"
)
