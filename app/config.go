package app

import (
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Config holds the environment settings.
type Config struct {
	// NativeDenom is the chain coin routes may start with.
	NativeDenom string `mapstructure:"native_denom" yaml:"native_denom"`
	// MaxDepth bounds how deep emitted messages may nest.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`
	// BlockTimeStep is how far the block clock advances per transaction.
	BlockTimeStep time.Duration `mapstructure:"block_time_step" yaml:"block_time_step"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		NativeDenom:   "upaw",
		MaxDepth:      16,
		BlockTimeStep: 5 * time.Second,
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	if err := sdk.ValidateDenom(c.NativeDenom); err != nil {
		return ErrInvalidConfig.Wrapf("native denom: %s", err)
	}
	if c.MaxDepth <= 0 {
		return ErrInvalidConfig.Wrapf("max depth must be positive, got %d", c.MaxDepth)
	}
	if c.BlockTimeStep < 0 {
		return ErrInvalidConfig.Wrap("negative block time step")
	}
	return nil
}
