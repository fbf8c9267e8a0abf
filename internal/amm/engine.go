package amm

import "fmt"

// Config carries the engine's protocol constants and custody identity.
type Config struct {
	// Fee is the trading fee retained in the pool on every swap.
	Fee FeeRate

	// MinLiquidity is a floor on the units minted by the first deposit into a
	// pool. Zero disables it.
	MinLiquidity Balance

	// Custody is the account that holds pooled reserves between operations.
	Custody Account
}

// Engine is the public surface of the pool engine. Each operation is one
// atomic unit: validate, compute, move assets, commit. On error no state
// change survives. The engine performs no locking; the hosting environment
// must serialize calls.
type Engine struct {
	cfg      Config
	registry *Registry
	ledger   *Ledger
	port     TransferPort
}

// New builds an Engine with the given configuration and asset-transfer port.
// A zero-denominator fee falls back to DefaultFee.
func New(cfg Config, port TransferPort) *Engine {
	if cfg.Fee.Den == 0 {
		cfg.Fee = DefaultFee
	}
	return &Engine{
		cfg:      cfg,
		registry: NewRegistry(),
		ledger:   NewLedger(),
		port:     port,
	}
}

// Registry exposes the engine's pool reserves for inspection and snapshots.
func (e *Engine) Registry() *Registry { return e.registry }

// Ledger exposes the engine's liquidity claims for inspection and snapshots.
func (e *Engine) Ledger() *Ledger { return e.ledger }

// orient maps a canonically ordered value pair into caller order, or caller
// order back into canonical order; the mapping is its own inverse.
func orient(swapped bool, x, y Balance) (Balance, Balance) {
	if swapped {
		return y, x
	}
	return x, y
}

// AddLiquidity deposits amountA of assetA and amountB of assetB into the
// pair's pool and mints liquidity units to the caller. minLiquidity is the
// caller's slippage guard: the operation fails if the minted units fall
// below it.
func (e *Engine) AddLiquidity(caller Account, assetA, assetB AssetID, amountA, amountB, minLiquidity Balance) ([]Event, error) {
	if assetA == assetB {
		return nil, ErrInvalidAssetPair
	}
	if amountA == 0 || amountB == 0 {
		return nil, ErrInvalidAmount
	}

	pair, swapped := Canonicalize(assetA, assetB)
	reserveLow, reserveHigh := e.registry.Reserves(pair)
	reserveA, reserveB := orient(swapped, reserveLow, reserveHigh)
	firstDeposit := reserveLow == 0 && reserveHigh == 0

	liquidity, err := QuoteAddLiquidity(reserveA, reserveB, amountA, amountB)
	if err != nil {
		return nil, fmt.Errorf("quote add liquidity: %w", err)
	}
	if liquidity < minLiquidity {
		return nil, ErrInsufficientLiquidity
	}
	if firstDeposit && liquidity < e.cfg.MinLiquidity {
		return nil, ErrInsufficientLiquidity
	}

	amountLow, amountHigh := orient(swapped, amountA, amountB)
	newLow, err := addChecked(reserveLow, amountLow)
	if err != nil {
		return nil, err
	}
	newHigh, err := addChecked(reserveHigh, amountHigh)
	if err != nil {
		return nil, err
	}

	if err := e.ledger.Mint(pair, caller, liquidity); err != nil {
		return nil, err
	}
	if err := e.port.Transfer(caller, e.cfg.Custody, assetA, amountA); err != nil {
		_ = e.ledger.Burn(pair, caller, liquidity)
		return nil, fmt.Errorf("transfer %s: %w", assetA, err)
	}
	if err := e.port.Transfer(caller, e.cfg.Custody, assetB, amountB); err != nil {
		_ = e.port.Transfer(e.cfg.Custody, caller, assetA, amountA)
		_ = e.ledger.Burn(pair, caller, liquidity)
		return nil, fmt.Errorf("transfer %s: %w", assetB, err)
	}

	e.registry.SetReserves(pair, newLow, newHigh)

	return []Event{LiquidityAdded{
		Account:   caller,
		AssetA:    assetA,
		AssetB:    assetB,
		AmountA:   amountA,
		AmountB:   amountB,
		Liquidity: liquidity,
	}}, nil
}

// RemoveLiquidity burns the caller's liquidity units and pays out the
// proportional share of both reserves. minAmountA and minAmountB are the
// caller's slippage guards per asset.
func (e *Engine) RemoveLiquidity(caller Account, assetA, assetB AssetID, liquidity, minAmountA, minAmountB Balance) ([]Event, error) {
	if assetA == assetB {
		return nil, ErrInvalidAssetPair
	}
	if liquidity == 0 {
		return nil, ErrInvalidAmount
	}

	pair, swapped := Canonicalize(assetA, assetB)
	if !e.registry.Active(pair) {
		return nil, ErrPoolDoesNotExist
	}
	total := e.ledger.Total(pair)
	if total == 0 {
		return nil, ErrPoolDoesNotExist
	}

	reserveLow, reserveHigh := e.registry.Reserves(pair)
	reserveA, reserveB := orient(swapped, reserveLow, reserveHigh)

	amountA, amountB, err := QuoteRemoveLiquidity(reserveA, reserveB, total, liquidity)
	if err != nil {
		return nil, fmt.Errorf("quote remove liquidity: %w", err)
	}
	if amountA < minAmountA || amountB < minAmountB {
		return nil, ErrSlippageExceeded
	}

	if err := e.ledger.Burn(pair, caller, liquidity); err != nil {
		return nil, err
	}
	if err := e.port.Transfer(e.cfg.Custody, caller, assetA, amountA); err != nil {
		_ = e.ledger.Mint(pair, caller, liquidity)
		return nil, fmt.Errorf("transfer %s: %w", assetA, err)
	}
	if err := e.port.Transfer(e.cfg.Custody, caller, assetB, amountB); err != nil {
		_ = e.port.Transfer(caller, e.cfg.Custody, assetA, amountA)
		_ = e.ledger.Mint(pair, caller, liquidity)
		return nil, fmt.Errorf("transfer %s: %w", assetB, err)
	}

	// The burn bounds liquidity by the pool total, so each amount is bounded
	// by its reserve and the subtraction cannot wrap.
	amountLow, amountHigh := orient(swapped, amountA, amountB)
	e.registry.SetReserves(pair, reserveLow-amountLow, reserveHigh-amountHigh)

	return []Event{LiquidityRemoved{
		Account:   caller,
		AssetA:    assetA,
		AssetB:    assetB,
		AmountA:   amountA,
		AmountB:   amountB,
		Liquidity: liquidity,
	}}, nil
}

// Swap trades amountIn of assetIn for assetOut against the pair's pool at the
// constant-product price, with the protocol fee retained in the pool.
// minAmountOut is the caller's slippage guard.
func (e *Engine) Swap(caller Account, assetIn, assetOut AssetID, amountIn, minAmountOut Balance) ([]Event, error) {
	if assetIn == assetOut {
		return nil, ErrInvalidAssetPair
	}
	if amountIn == 0 {
		return nil, ErrInvalidAmount
	}

	pair, swapped := Canonicalize(assetIn, assetOut)
	if !e.registry.Active(pair) {
		return nil, ErrPoolDoesNotExist
	}

	reserveLow, reserveHigh := e.registry.Reserves(pair)
	reserveIn, reserveOut := orient(swapped, reserveLow, reserveHigh)

	amountOut, feeAmount, err := QuoteSwap(reserveIn, reserveOut, amountIn, e.cfg.Fee)
	if err != nil {
		return nil, fmt.Errorf("quote swap: %w", err)
	}
	if amountOut < minAmountOut {
		return nil, ErrSlippageExceeded
	}

	newReserveIn, err := addChecked(reserveIn, amountIn)
	if err != nil {
		return nil, err
	}
	newReserveOut := reserveOut - amountOut

	if err := e.port.Transfer(caller, e.cfg.Custody, assetIn, amountIn); err != nil {
		return nil, fmt.Errorf("transfer %s: %w", assetIn, err)
	}
	if err := e.port.Transfer(e.cfg.Custody, caller, assetOut, amountOut); err != nil {
		_ = e.port.Transfer(e.cfg.Custody, caller, assetIn, amountIn)
		return nil, fmt.Errorf("transfer %s: %w", assetOut, err)
	}

	newLow, newHigh := orient(swapped, newReserveIn, newReserveOut)
	e.registry.SetReserves(pair, newLow, newHigh)

	return []Event{
		Swap{
			Account:   caller,
			AssetIn:   assetIn,
			AssetOut:  assetOut,
			AmountIn:  amountIn,
			AmountOut: amountOut,
			FeeAmount: feeAmount,
		},
		FeeCollected{Asset: assetIn, Amount: feeAmount},
	}, nil
}
