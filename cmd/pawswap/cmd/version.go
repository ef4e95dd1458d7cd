package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/paw-chain/pawswap/cmd/pawswap/cmd.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
)

// VersionCmd prints the build version.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pawswap version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "pawswap %s (%s, %s)\n", Version, Commit, runtime.Version())
			return err
		},
	}
}
