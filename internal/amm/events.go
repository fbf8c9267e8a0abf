package amm

// Event is a record produced by a pool operation for the hosting environment
// to publish. Operations return their events explicitly; the engine has no
// global emission sink.
type Event interface {
	Name() string
}

// LiquidityAdded records a successful deposit.
type LiquidityAdded struct {
	Account   Account
	AssetA    AssetID
	AssetB    AssetID
	AmountA   Balance
	AmountB   Balance
	Liquidity Balance
}

func (LiquidityAdded) Name() string { return "liquidity_added" }

// LiquidityRemoved records a successful withdrawal.
type LiquidityRemoved struct {
	Account   Account
	AssetA    AssetID
	AssetB    AssetID
	AmountA   Balance
	AmountB   Balance
	Liquidity Balance
}

func (LiquidityRemoved) Name() string { return "liquidity_removed" }

// Swap records a successful trade.
type Swap struct {
	Account   Account
	AssetIn   AssetID
	AssetOut  AssetID
	AmountIn  Balance
	AmountOut Balance
	FeeAmount Balance
}

func (Swap) Name() string { return "swap" }

// FeeCollected records the fee retained in the pool by a swap. It is emitted
// for every swap, including when truncation makes the fee zero.
type FeeCollected struct {
	Asset  AssetID
	Amount Balance
}

func (FeeCollected) Name() string { return "fee_collected" }
