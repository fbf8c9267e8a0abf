package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "ammpool",
		Short:        "Constant-product liquidity pool engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Apply an operation journal to the engine",
		RunE:  runReplay,
	}

	replayCmd.Flags().String("in", "", "input journal JSONL")
	replayCmd.Flags().String("out", "./data/events.jsonl", "output events JSONL path")
	replayCmd.Flags().String("pg-dsn", "", "Postgres DSN for state snapshot and events")
	replayCmd.Flags().Int("batch-size", 1000, "event records per flush")
	replayCmd.Flags().String("state-file", "", "optional local state file for resume")
	replayCmd.Flags().String("custody", "pool:custody", "pool custody account")
	replayCmd.Flags().Uint64("fee-num", 369, "trading fee numerator")
	replayCmd.Flags().Uint64("fee-den", 100000, "trading fee denominator")
	replayCmd.Flags().Uint64("min-liquidity", 0, "minimum liquidity minted by a first deposit")
	replayCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(replayCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a swap against given reserves without touching state",
		RunE:  runQuote,
	}

	quoteCmd.Flags().Uint64("reserve-in", 0, "reserve of the input asset")
	quoteCmd.Flags().Uint64("reserve-out", 0, "reserve of the output asset")
	quoteCmd.Flags().Uint64("amount-in", 0, "input amount")
	quoteCmd.Flags().Uint64("fee-num", 369, "trading fee numerator")
	quoteCmd.Flags().Uint64("fee-den", 100000, "trading fee denominator")

	root.AddCommand(quoteCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
