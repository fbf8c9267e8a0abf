package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ammpool/internal/amm"
)

type quoteResult struct {
	AmountOut uint64 `json:"amount_out"`
	Fee       uint64 `json:"fee"`
}

func runQuote(cmd *cobra.Command, _ []string) error {
	reserveIn, _ := cmd.Flags().GetUint64("reserve-in")
	reserveOut, _ := cmd.Flags().GetUint64("reserve-out")
	amountIn, _ := cmd.Flags().GetUint64("amount-in")
	feeNum, _ := cmd.Flags().GetUint64("fee-num")
	feeDen, _ := cmd.Flags().GetUint64("fee-den")

	if reserveIn == 0 || reserveOut == 0 {
		return fmt.Errorf("both reserves must be greater than zero")
	}
	if amountIn == 0 {
		return fmt.Errorf("amount-in must be greater than zero")
	}
	if feeDen == 0 || feeNum >= feeDen {
		return fmt.Errorf("fee must be a fraction smaller than one")
	}

	amountOut, fee, err := amm.QuoteSwap(
		amm.Balance(reserveIn),
		amm.Balance(reserveOut),
		amm.Balance(amountIn),
		amm.FeeRate{Num: feeNum, Den: feeDen},
	)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(quoteResult{AmountOut: uint64(amountOut), Fee: uint64(fee)})
}
