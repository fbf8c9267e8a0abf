package amm

import "errors"

var (
	// ErrInvalidAssetPair is returned when both sides of a pair are the same asset.
	ErrInvalidAssetPair = errors.New("invalid asset pair")

	// ErrInvalidAmount is returned for zero or otherwise out-of-domain inputs.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientLiquidity is returned when minted liquidity falls below the
	// caller's floor.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrInsufficientBalance is returned when a burn exceeds the caller's claim
	// or an asset transfer fails for lack of funds.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrPoolDoesNotExist is returned when a swap or removal references a pool
	// with no liquidity.
	ErrPoolDoesNotExist = errors.New("pool does not exist")

	// ErrCalculation is returned on arithmetic overflow or division by zero.
	ErrCalculation = errors.New("calculation error")

	// ErrSlippageExceeded is returned when a computed output falls below the
	// caller's minimum.
	ErrSlippageExceeded = errors.New("slippage exceeded")
)
