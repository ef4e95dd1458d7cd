package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// SimulateCmd replays a scenario file in a fresh environment.
func SimulateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [scenario.yaml]",
		Short: "Replay a market scenario and report balances and pools",
		Long: `Deploy the tokens and pairs a scenario declares, replay its steps as
separate transactions and print each step's outcome with the final balances
of the reported accounts and every pool.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := LoadScenario(args[0])
			if err != nil {
				return err
			}
			a, shutdown, err := newEnvironment(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer func() { _ = shutdown(context.Background()) }()
			sim, err := NewSimulator(a, sc)
			if err != nil {
				return err
			}
			report, err := sim.Replay(sc.Steps, sc.Report)
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString(FlagOutput)
			return printOutput(cmd.OutOrStdout(), output, report)
		},
	}
	cmd.Flags().StringP(FlagOutput, "o", "yaml", "output format (yaml or json)")
	return cmd
}
