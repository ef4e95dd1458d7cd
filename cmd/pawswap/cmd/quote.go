package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/paw-chain/pawswap/pkg/wide"
	pairkeeper "github.com/paw-chain/pawswap/x/pair/keeper"
)

const (
	flagOfferPool = "offer-pool"
	flagAskPool   = "ask-pool"
	flagFee       = "fee"
	flagReverse   = "reverse"
)

// Quote is the answer of the quote command.
type Quote struct {
	OfferPool        string `json:"offer_pool" yaml:"offer_pool"`
	AskPool          string `json:"ask_pool" yaml:"ask_pool"`
	Fee              string `json:"fee" yaml:"fee"`
	OfferAmount      string `json:"offer_amount" yaml:"offer_amount"`
	ReturnAmount     string `json:"return_amount" yaml:"return_amount"`
	SpreadAmount     string `json:"spread_amount" yaml:"spread_amount"`
	CommissionAmount string `json:"commission_amount" yaml:"commission_amount"`
}

// QuoteCmd prices a swap against pool balances without an environment.
func QuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote [amount]",
		Short: "Price a constant-product swap offline",
		Long: `Price a swap of amount against a pool holding --offer-pool and --ask-pool.
With --reverse, amount is the return wanted and the quote solves for the
smallest offer paying it.`,
		Example: "pawswap quote 100 --offer-pool 1000 --ask-pool 1000 --fee 0.003",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			offerPoolStr, _ := flags.GetString(flagOfferPool)
			askPoolStr, _ := flags.GetString(flagAskPool)
			offerPool, err := parseAmount(offerPoolStr)
			if err != nil {
				return err
			}
			askPool, err := parseAmount(askPoolStr)
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			feeStr, _ := flags.GetString(flagFee)
			fee, err := ParseFee(feeStr)
			if err != nil {
				return err
			}
			reverse, _ := flags.GetBool(flagReverse)

			q := Quote{OfferPool: offerPool.String(), AskPool: askPool.String(), Fee: FormatFee(fee)}
			if reverse {
				res, err := pairkeeper.ComputeOfferAmount(offerPool, askPool, amount, fee)
				if err != nil {
					return err
				}
				q.OfferAmount, q.ReturnAmount = res.OfferAmount.String(), amount.String()
				q.SpreadAmount, q.CommissionAmount = res.SpreadAmount.String(), res.CommissionAmount.String()
			} else {
				res, err := pairkeeper.ComputeSwap(offerPool, askPool, amount, fee)
				if err != nil {
					return err
				}
				q.OfferAmount, q.ReturnAmount = amount.String(), res.ReturnAmount.String()
				q.SpreadAmount, q.CommissionAmount = res.SpreadAmount.String(), res.CommissionAmount.String()
			}

			output, _ := flags.GetString(FlagOutput)
			return printOutput(cmd.OutOrStdout(), output, q)
		},
	}

	cmd.Flags().String(flagOfferPool, "", "pool balance of the offered asset")
	cmd.Flags().String(flagAskPool, "", "pool balance of the asked asset")
	cmd.Flags().String(flagFee, "0.003", "swap fee as a decimal")
	cmd.Flags().Bool(flagReverse, false, "solve for the offer paying amount")
	cmd.Flags().StringP(FlagOutput, "o", "yaml", "output format (yaml or json)")
	_ = cmd.MarkFlagRequired(flagOfferPool)
	_ = cmd.MarkFlagRequired(flagAskPool)
	return cmd
}

func parseAmount(s string) (math.Uint, error) {
	u, err := math.ParseUint(s)
	if err != nil {
		return math.Uint{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if err := wide.CheckAmount(u); err != nil {
		return math.Uint{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return u, nil
}

// printOutput writes v as YAML or indented JSON.
func printOutput(w io.Writer, format string, v any) error {
	var (
		bz  []byte
		err error
	)
	switch format {
	case "json":
		bz, err = json.MarshalIndent(v, "", "  ")
		bz = append(bz, '\n')
	case "yaml", "":
		bz, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(bz)
	return err
}
