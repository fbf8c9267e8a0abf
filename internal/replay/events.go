package replay

import (
	"time"

	"ammpool/internal/amm"
	"ammpool/internal/model"
)

// eventRecord flattens an engine event into its storage form.
func eventRecord(seq uint64, ev amm.Event, emittedAt time.Time) model.EventRecord {
	record := model.EventRecord{
		Seq:       seq,
		Name:      ev.Name(),
		EmittedAt: emittedAt.UTC().Format(time.RFC3339Nano),
	}

	switch ev := ev.(type) {
	case amm.LiquidityAdded:
		record.Account = string(ev.Account)
		record.AssetA = string(ev.AssetA)
		record.AssetB = string(ev.AssetB)
		record.AmountA = uint64(ev.AmountA)
		record.AmountB = uint64(ev.AmountB)
		record.Liquidity = uint64(ev.Liquidity)
	case amm.LiquidityRemoved:
		record.Account = string(ev.Account)
		record.AssetA = string(ev.AssetA)
		record.AssetB = string(ev.AssetB)
		record.AmountA = uint64(ev.AmountA)
		record.AmountB = uint64(ev.AmountB)
		record.Liquidity = uint64(ev.Liquidity)
	case amm.Swap:
		record.Account = string(ev.Account)
		record.AssetIn = string(ev.AssetIn)
		record.AssetOut = string(ev.AssetOut)
		record.AmountIn = uint64(ev.AmountIn)
		record.AmountOut = uint64(ev.AmountOut)
		record.Fee = uint64(ev.FeeAmount)
	case amm.FeeCollected:
		record.Asset = string(ev.Asset)
		record.Fee = uint64(ev.Amount)
	}

	return record
}

// failureRecord reports an operation the engine rejected.
func failureRecord(op model.OpRecord, opErr error, emittedAt time.Time) model.EventRecord {
	return model.EventRecord{
		Seq:       op.Seq,
		Name:      model.EventOpFailed,
		Account:   op.Caller,
		Error:     opErr.Error(),
		EmittedAt: emittedAt.UTC().Format(time.RFC3339Nano),
	}
}
