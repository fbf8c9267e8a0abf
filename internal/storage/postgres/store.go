package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ammpool/internal/model"
)

// Store provides Postgres persistence for pool state and events.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertPools inserts or updates pool reserve snapshots.
func (s *Store) UpsertPools(ctx context.Context, pools []model.PoolRow) error {
	if len(pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, pool := range pools {
		batch.Queue(`
			INSERT INTO pools (
				asset_low, asset_high, reserve_low, reserve_high, created_at, updated_at
			) VALUES ($1, $2, $3, $4, now(), now())
			ON CONFLICT (asset_low, asset_high)
			DO UPDATE SET
				reserve_low = EXCLUDED.reserve_low,
				reserve_high = EXCLUDED.reserve_high,
				updated_at = now()
		`,
			pool.AssetLow,
			pool.AssetHigh,
			pool.ReserveLow,
			pool.ReserveHigh,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range pools {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertClaims inserts or updates liquidity claim snapshots.
func (s *Store) UpsertClaims(ctx context.Context, claims []model.ClaimRow) error {
	if len(claims) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, claim := range claims {
		batch.Queue(`
			INSERT INTO liquidity_claims (
				asset_low, asset_high, account, balance, created_at, updated_at
			) VALUES ($1, $2, $3, $4, now(), now())
			ON CONFLICT (asset_low, asset_high, account)
			DO UPDATE SET
				balance = EXCLUDED.balance,
				updated_at = now()
		`,
			claim.AssetLow,
			claim.AssetHigh,
			claim.Account,
			claim.Balance,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range claims {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// InsertEvents appends event records to the event stream.
func (s *Store) InsertEvents(ctx context.Context, events []model.EventRecord) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, ev := range events {
		batch.Queue(`
			INSERT INTO pool_events (
				seq, name, account, asset_a, asset_b, asset_in, asset_out, asset,
				amount_a, amount_b, amount_in, amount_out, liquidity, fee, error, emitted_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		`,
			ev.Seq,
			ev.Name,
			ev.Account,
			ev.AssetA,
			ev.AssetB,
			ev.AssetIn,
			ev.AssetOut,
			ev.Asset,
			ev.AmountA,
			ev.AmountB,
			ev.AmountIn,
			ev.AmountOut,
			ev.Liquidity,
			ev.Fee,
			ev.Error,
			ev.EmittedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// PutEventBatch implements the storage sink interface on top of InsertEvents.
func (s *Store) PutEventBatch(ctx context.Context, events []model.EventRecord) error {
	return s.InsertEvents(ctx, events)
}

// LoadState returns last_applied_seq for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var seq uint64
	row := s.pool.QueryRow(ctx, `SELECT last_applied_seq FROM replay_state WHERE name=$1`, name)
	if err := row.Scan(&seq); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return seq, true, nil
}

// SaveState upserts last_applied_seq for a name.
func (s *Store) SaveState(ctx context.Context, name string, seq uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO replay_state (name, last_applied_seq, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_applied_seq = EXCLUDED.last_applied_seq, updated_at = now()
	`, name, seq)
	return err
}
