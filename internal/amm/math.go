package amm

import (
	"math/bits"

	"github.com/holiman/uint256"
)

// FeeRate is an exact rational trading fee. It is applied as
// floor(amount * Num / Den), so it never approximates.
type FeeRate struct {
	Num uint64
	Den uint64
}

// DefaultFee is the protocol trading fee of 0.369%.
var DefaultFee = FeeRate{Num: 369, Den: 100_000}

// mulDiv computes floor(a*b/c) with a 256-bit intermediate. Results that do
// not fit a Balance, and zero divisors, fail with ErrCalculation.
func mulDiv(a, b, c uint64) (Balance, error) {
	if c == 0 {
		return 0, ErrCalculation
	}
	p := new(uint256.Int).Mul(
		new(uint256.Int).SetUint64(a),
		new(uint256.Int).SetUint64(b),
	)
	p.Div(p, new(uint256.Int).SetUint64(c))
	if !p.IsUint64() {
		return 0, ErrCalculation
	}
	return Balance(p.Uint64()), nil
}

// addChecked adds two balances, failing with ErrCalculation on overflow.
func addChecked(a, b Balance) (Balance, error) {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 {
		return 0, ErrCalculation
	}
	return Balance(sum), nil
}

// QuoteAddLiquidity returns the liquidity units minted for a deposit of
// (amountA, amountB) against reserves (reserveA, reserveB), where reserveA is
// the reserve of the same asset as amountA.
//
// On a first deposit (both reserves zero) the minted amount is
// min(amountA, amountB). Otherwise each side is credited
// amount * otherReserve / ownReserve, floor division, and the smaller of the
// two wins: the less-proportional half of an asymmetric deposit is donated to
// existing holders. A pool with exactly one zero reserve is an invariant
// violation and fails with ErrCalculation.
func QuoteAddLiquidity(reserveA, reserveB, amountA, amountB Balance) (Balance, error) {
	if reserveA == 0 && reserveB == 0 {
		return min(amountA, amountB), nil
	}
	liquidityA, err := mulDiv(uint64(amountA), uint64(reserveB), uint64(reserveA))
	if err != nil {
		return 0, err
	}
	liquidityB, err := mulDiv(uint64(amountB), uint64(reserveA), uint64(reserveB))
	if err != nil {
		return 0, err
	}
	return min(liquidityA, liquidityB), nil
}

// QuoteRemoveLiquidity returns the amounts of each asset redeemed by burning
// liquidity units against reserves (reserveA, reserveB) and the pool's total
// outstanding liquidity. Fails with ErrPoolDoesNotExist when the total is zero.
func QuoteRemoveLiquidity(reserveA, reserveB, totalLiquidity, liquidity Balance) (Balance, Balance, error) {
	if totalLiquidity == 0 {
		return 0, 0, ErrPoolDoesNotExist
	}
	amountA, err := mulDiv(uint64(liquidity), uint64(reserveA), uint64(totalLiquidity))
	if err != nil {
		return 0, 0, err
	}
	amountB, err := mulDiv(uint64(liquidity), uint64(reserveB), uint64(totalLiquidity))
	if err != nil {
		return 0, 0, err
	}
	return amountA, amountB, nil
}

// QuoteSwap prices a swap of amountIn against (reserveIn, reserveOut) under
// the constant-product rule. The fee is taken off the input and stays in the
// pool, which is what makes the product grow across swaps; only the net input
// moves the price:
//
//	newReserveOut = reserveIn * reserveOut / (reserveIn + netIn)
//	amountOut     = reserveOut - newReserveOut
//
// All intermediates are 256-bit, so the product of two reserves cannot wrap.
func QuoteSwap(reserveIn, reserveOut, amountIn Balance, fee FeeRate) (amountOut, feeAmount Balance, err error) {
	feeAmount, err = mulDiv(uint64(amountIn), fee.Num, fee.Den)
	if err != nil {
		return 0, 0, err
	}
	if feeAmount > amountIn {
		return 0, 0, ErrCalculation
	}
	netIn := amountIn - feeAmount

	numerator := new(uint256.Int).Mul(
		new(uint256.Int).SetUint64(uint64(reserveIn)),
		new(uint256.Int).SetUint64(uint64(reserveOut)),
	)
	denominator := new(uint256.Int).Add(
		new(uint256.Int).SetUint64(uint64(reserveIn)),
		new(uint256.Int).SetUint64(uint64(netIn)),
	)
	if denominator.IsZero() {
		return 0, 0, ErrCalculation
	}
	newReserveOut := numerator.Div(numerator, denominator)
	if !newReserveOut.IsUint64() {
		return 0, 0, ErrCalculation
	}

	// newReserveOut <= reserveOut because the denominator is at least reserveIn.
	return reserveOut - Balance(newReserveOut.Uint64()), feeAmount, nil
}
