package types

const (
	// ModuleName is the pair registry's error codespace and event prefix.
	ModuleName = "factory"
)

// Store keys of the factory instance.
const (
	ConfigKey       = "config"
	PairSettingsKey = "pair_settings"
	PairsPrefix     = "pairs/"
	PendingPairKey  = "pending_pair"
)

// Pagination of the pairs query.
const (
	DefaultPairsLimit = 10
	MaxPairsLimit     = 30
)
