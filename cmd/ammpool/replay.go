package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ammpool/internal/amm"
	"ammpool/internal/config"
	"ammpool/internal/replay"
	"ammpool/internal/storage"
	"ammpool/internal/storage/postgres"
)

func runReplay(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.Custody == "" {
		return fmt.Errorf("custody account is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *postgres.Store
	if cfg.PGDSN != "" {
		store, err = postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
	}

	var stateStore replay.StateStore
	switch {
	case cfg.StateFile != "":
		stateStore = &replay.FileStateStore{Path: cfg.StateFile}
	case store != nil:
		stateStore = &replay.DBStateStore{Store: store, Name: "replay"}
	}

	book := amm.NewBook()
	engine := amm.New(amm.Config{
		Fee:          amm.FeeRate{Num: cfg.FeeNum, Den: cfg.FeeDen},
		MinLiquidity: amm.Balance(cfg.MinLiquidity),
		Custody:      amm.Account(cfg.Custody),
	}, book)

	var sink storage.Storage = storage.NewJsonlStorage(cfg.Out)
	if store != nil {
		sink = storage.Multi{sink, store}
	}

	runner := replay.NewRunner(replay.RunConfig{
		Input:      cfg.Input,
		BatchSize:  cfg.BatchSize,
		StateStore: stateStore,
	}, engine, book, sink, logger)

	logger.Info("replay start",
		zap.String("input", cfg.Input),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Int("batch_size", cfg.BatchSize),
		zap.String("custody", cfg.Custody),
		zap.Uint64("fee_num", cfg.FeeNum),
		zap.Uint64("fee_den", cfg.FeeDen),
		zap.Uint64("min_liquidity", cfg.MinLiquidity),
	)

	if err := runner.Run(ctx); err != nil {
		return err
	}

	if store != nil {
		pools, claims := runner.Snapshot()
		if err := store.UpsertPools(ctx, pools); err != nil {
			return fmt.Errorf("snapshot pools: %w", err)
		}
		if err := store.UpsertClaims(ctx, claims); err != nil {
			return fmt.Errorf("snapshot claims: %w", err)
		}
		logger.Info("snapshot stored", zap.Int("pools", len(pools)), zap.Int("claims", len(claims)))
	}

	return nil
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
