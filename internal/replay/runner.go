package replay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"ammpool/internal/amm"
	"ammpool/internal/model"
	"ammpool/internal/storage"
)

// RunConfig holds runtime settings for a replay.
type RunConfig struct {
	Input      string
	BatchSize  int
	StateStore StateStore
}

// Runner applies a journal of pool operations to the engine strictly in
// sequence and writes the resulting events to storage. The engine requires
// external serialization of operations; the runner is that serializer.
type Runner struct {
	cfg     RunConfig
	engine  *amm.Engine
	book    *amm.Book
	storage storage.Storage
	logger  *zap.Logger
}

// NewRunner builds a Runner with its dependencies. book may be nil when the
// journal contains no fund operations.
func NewRunner(cfg RunConfig, engine *amm.Engine, book *amm.Book, storageSink storage.Storage, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:     cfg,
		engine:  engine,
		book:    book,
		storage: storageSink,
		logger:  logger,
	}
}

// Run executes the replay loop. Operations with a sequence at or below the
// stored resume point are skipped; operations the engine rejects are recorded
// and do not stop the replay.
func (r *Runner) Run(ctx context.Context) error {
	if r.engine == nil {
		return fmt.Errorf("engine is nil")
	}
	if r.storage == nil {
		return fmt.Errorf("storage is nil")
	}
	if r.cfg.BatchSize <= 0 {
		r.cfg.BatchSize = 1000
	}

	var lastApplied uint64
	if r.cfg.StateStore != nil {
		seq, ok, err := r.cfg.StateStore.Load(ctx)
		if err != nil {
			return err
		}
		if ok {
			lastApplied = seq
			r.logger.Info("resume from state", zap.Uint64("last_applied_seq", lastApplied))
		}
	}

	file, err := os.Open(r.cfg.Input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	batch := make([]model.EventRecord, 0, r.cfg.BatchSize)
	var total, applied, failed, skipped, malformed int

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var op model.OpRecord
		if err := json.Unmarshal(line, &op); err != nil {
			malformed++
			r.logger.Warn("decode op record", zap.Error(err))
			continue
		}

		if op.Seq <= lastApplied {
			skipped++
			continue
		}

		now := time.Now()
		events, opErr := r.apply(op)
		if opErr != nil {
			failed++
			r.logger.Warn("op rejected",
				zap.Uint64("seq", op.Seq),
				zap.String("op", op.Op),
				zap.String("caller", op.Caller),
				zap.Error(opErr),
			)
			batch = append(batch, failureRecord(op, opErr, now))
		} else {
			applied++
			for _, ev := range events {
				batch = append(batch, eventRecord(op.Seq, ev, now))
			}
		}
		lastApplied = op.Seq

		if len(batch) >= r.cfg.BatchSize {
			if err := r.flush(ctx, batch, lastApplied); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if err := r.flush(ctx, batch, lastApplied); err != nil {
		return err
	}

	r.logger.Info("replay complete",
		zap.Int("total", total),
		zap.Int("applied", applied),
		zap.Int("failed", failed),
		zap.Int("skipped", skipped),
		zap.Int("malformed", malformed),
		zap.Uint64("last_applied_seq", lastApplied),
	)
	return nil
}

func (r *Runner) flush(ctx context.Context, batch []model.EventRecord, lastApplied uint64) error {
	if len(batch) > 0 {
		if err := r.storage.PutEventBatch(ctx, batch); err != nil {
			return fmt.Errorf("store events: %w", err)
		}
	}
	if r.cfg.StateStore != nil && lastApplied > 0 {
		if err := r.cfg.StateStore.Save(ctx, lastApplied); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
	}
	return nil
}

func (r *Runner) apply(op model.OpRecord) ([]amm.Event, error) {
	caller := amm.Account(op.Caller)
	switch op.Op {
	case model.OpFund:
		if r.book == nil {
			return nil, fmt.Errorf("fund op requires an in-memory book")
		}
		r.book.Credit(caller, amm.AssetID(op.Asset), amm.Balance(op.Amount))
		return nil, nil
	case model.OpAddLiquidity:
		return r.engine.AddLiquidity(caller,
			amm.AssetID(op.AssetA), amm.AssetID(op.AssetB),
			amm.Balance(op.AmountA), amm.Balance(op.AmountB),
			amm.Balance(op.MinLiquidity))
	case model.OpRemoveLiquidity:
		return r.engine.RemoveLiquidity(caller,
			amm.AssetID(op.AssetA), amm.AssetID(op.AssetB),
			amm.Balance(op.Liquidity),
			amm.Balance(op.MinAmountA), amm.Balance(op.MinAmountB))
	case model.OpSwap:
		return r.engine.Swap(caller,
			amm.AssetID(op.AssetIn), amm.AssetID(op.AssetOut),
			amm.Balance(op.AmountIn), amm.Balance(op.MinAmountOut))
	default:
		return nil, fmt.Errorf("unknown op %q", op.Op)
	}
}

// Snapshot exports the engine's pool and claim state as storage rows.
func (r *Runner) Snapshot() ([]model.PoolRow, []model.ClaimRow) {
	pools := r.engine.Registry().Pools()
	poolRows := make([]model.PoolRow, 0, len(pools))
	for _, p := range pools {
		poolRows = append(poolRows, model.PoolRow{
			AssetLow:    string(p.Pair.Low),
			AssetHigh:   string(p.Pair.High),
			ReserveLow:  uint64(p.ReserveLow),
			ReserveHigh: uint64(p.ReserveHigh),
		})
	}

	claims := r.engine.Ledger().Claims()
	claimRows := make([]model.ClaimRow, 0, len(claims))
	for _, c := range claims {
		claimRows = append(claimRows, model.ClaimRow{
			AssetLow:  string(c.Pair.Low),
			AssetHigh: string(c.Pair.High),
			Account:   string(c.Account),
			Balance:   uint64(c.Balance),
		})
	}
	return poolRows, claimRows
}
