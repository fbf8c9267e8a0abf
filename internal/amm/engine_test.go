package amm

import (
	"errors"
	"math/big"
	"reflect"
	"testing"
)

const (
	custody = Account("pool:custody")
	alice   = Account("alice")
	bob     = Account("bob")

	assetAAA = AssetID("AAA")
	assetBBB = AssetID("BBB")
)

func newTestEngine(t *testing.T) (*Engine, *Book) {
	t.Helper()
	book := NewBook()
	engine := New(Config{Custody: custody}, book)
	return engine, book
}

// seedPool funds alice and deposits (amountA, amountB) of (AAA, BBB).
func seedPool(t *testing.T, engine *Engine, book *Book, amountA, amountB Balance) {
	t.Helper()
	book.Credit(alice, assetAAA, amountA)
	book.Credit(alice, assetBBB, amountB)
	if _, err := engine.AddLiquidity(alice, assetAAA, assetBBB, amountA, amountB, 0); err != nil {
		t.Fatalf("seed pool: %v", err)
	}
}

func poolK(t *testing.T, engine *Engine, pair Pair) *big.Int {
	t.Helper()
	low, high := engine.Registry().Reserves(pair)
	k := new(big.Int).SetUint64(uint64(low))
	return k.Mul(k, new(big.Int).SetUint64(uint64(high)))
}

func TestAddLiquidityFirstDeposit(t *testing.T) {
	engine, book := newTestEngine(t)
	book.Credit(alice, assetAAA, 1000)
	book.Credit(alice, assetBBB, 1000)

	events, err := engine.AddLiquidity(alice, assetAAA, assetBBB, 500, 500, 0)
	if err != nil {
		t.Fatalf("add liquidity: %v", err)
	}

	want := []Event{LiquidityAdded{
		Account:   alice,
		AssetA:    assetAAA,
		AssetB:    assetBBB,
		AmountA:   500,
		AmountB:   500,
		Liquidity: 500,
	}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events mismatch: %+v != %+v", events, want)
	}

	pair, _ := Canonicalize(assetAAA, assetBBB)
	low, high := engine.Registry().Reserves(pair)
	if low != 500 || high != 500 {
		t.Fatalf("reserves mismatch: (%d, %d)", low, high)
	}
	if got := engine.Ledger().Claim(pair, alice); got != 500 {
		t.Fatalf("claim mismatch: %d", got)
	}
	if got := engine.Ledger().Total(pair); got != 500 {
		t.Fatalf("total mismatch: %d", got)
	}
	if got := book.Balance(custody, assetAAA); got != 500 {
		t.Fatalf("custody balance mismatch: %d", got)
	}
	if got := book.Balance(alice, assetAAA); got != 500 {
		t.Fatalf("caller balance mismatch: %d", got)
	}
}

func TestAddLiquidityProportionalMint(t *testing.T) {
	engine, book := newTestEngine(t)
	seedPool(t, engine, book, 1000, 2000)

	book.Credit(bob, assetAAA, 100)
	book.Credit(bob, assetBBB, 300)
	events, err := engine.AddLiquidity(bob, assetAAA, assetBBB, 100, 300, 0)
	if err != nil {
		t.Fatalf("add liquidity: %v", err)
	}

	added, ok := events[0].(LiquidityAdded)
	if !ok {
		t.Fatalf("unexpected event type %T", events[0])
	}
	if added.Liquidity != 150 {
		t.Fatalf("minted liquidity mismatch: got %d, want 150", added.Liquidity)
	}

	pair, _ := Canonicalize(assetAAA, assetBBB)
	if got := engine.Ledger().Total(pair); got != 1150 {
		t.Fatalf("total mismatch: %d", got)
	}
	low, high := engine.Registry().Reserves(pair)
	if low != 1100 || high != 2300 {
		t.Fatalf("reserves mismatch: (%d, %d)", low, high)
	}
}

func TestAddLiquidityValidation(t *testing.T) {
	engine, book := newTestEngine(t)
	book.Credit(alice, assetAAA, 1000)
	book.Credit(alice, assetBBB, 1000)

	if _, err := engine.AddLiquidity(alice, assetAAA, assetAAA, 100, 100, 0); !errors.Is(err, ErrInvalidAssetPair) {
		t.Fatalf("expected invalid asset pair, got %v", err)
	}
	if _, err := engine.AddLiquidity(alice, assetAAA, assetBBB, 0, 100, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := engine.AddLiquidity(alice, assetAAA, assetBBB, 100, 100, 101); !errors.Is(err, ErrInsufficientLiquidity) {
		t.Fatalf("expected insufficient liquidity, got %v", err)
	}

	pair, _ := Canonicalize(assetAAA, assetBBB)
	if engine.Registry().Active(pair) {
		t.Fatalf("failed operations must not create a pool")
	}
}

func TestAddLiquidityOrderSymmetry(t *testing.T) {
	engineXY, bookXY := newTestEngine(t)
	bookXY.Credit(alice, assetAAA, 1000)
	bookXY.Credit(alice, assetBBB, 2000)
	if _, err := engineXY.AddLiquidity(alice, assetAAA, assetBBB, 1000, 2000, 0); err != nil {
		t.Fatalf("add (x, y): %v", err)
	}

	engineYX, bookYX := newTestEngine(t)
	bookYX.Credit(alice, assetAAA, 1000)
	bookYX.Credit(alice, assetBBB, 2000)
	if _, err := engineYX.AddLiquidity(alice, assetBBB, assetAAA, 2000, 1000, 0); err != nil {
		t.Fatalf("add (y, x): %v", err)
	}

	if !reflect.DeepEqual(engineXY.Registry().Pools(), engineYX.Registry().Pools()) {
		t.Fatalf("pool state mismatch: %+v != %+v", engineXY.Registry().Pools(), engineYX.Registry().Pools())
	}
	if !reflect.DeepEqual(engineXY.Ledger().Claims(), engineYX.Ledger().Claims()) {
		t.Fatalf("claims mismatch")
	}
}

func TestSwapWorkedExample(t *testing.T) {
	engine, book := newTestEngine(t)
	seedPool(t, engine, book, 10000, 12800)

	book.Credit(bob, assetAAA, 100)
	events, err := engine.Swap(bob, assetAAA, assetBBB, 100, 0)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}

	want := []Event{
		Swap{Account: bob, AssetIn: assetAAA, AssetOut: assetBBB, AmountIn: 100, AmountOut: 127, FeeAmount: 0},
		FeeCollected{Asset: assetAAA, Amount: 0},
	}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events mismatch: %+v != %+v", events, want)
	}

	pair, _ := Canonicalize(assetAAA, assetBBB)
	low, high := engine.Registry().Reserves(pair)
	if low != 10100 || high != 12673 {
		t.Fatalf("reserves mismatch: (%d, %d)", low, high)
	}
	if got := book.Balance(bob, assetBBB); got != 127 {
		t.Fatalf("payout mismatch: %d", got)
	}
}

func TestSwapPositiveFee(t *testing.T) {
	engine, book := newTestEngine(t)
	seedPool(t, engine, book, 10000, 12800)

	book.Credit(bob, assetAAA, 100000)
	events, err := engine.Swap(bob, assetAAA, assetBBB, 100000, 0)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}

	swap := events[0].(Swap)
	if swap.FeeAmount != 369 {
		t.Fatalf("fee mismatch: got %d, want 369", swap.FeeAmount)
	}
	if swap.AmountOut != 11633 {
		t.Fatalf("amount out mismatch: got %d, want 11633", swap.AmountOut)
	}
	fee := events[1].(FeeCollected)
	if fee.Asset != assetAAA || fee.Amount != 369 {
		t.Fatalf("fee event mismatch: %+v", fee)
	}
}

func TestSwapSlippageGuard(t *testing.T) {
	engine, book := newTestEngine(t)
	seedPool(t, engine, book, 10000, 12800)

	book.Credit(bob, assetAAA, 100)
	if _, err := engine.Swap(bob, assetAAA, assetBBB, 100, 200); !errors.Is(err, ErrSlippageExceeded) {
		t.Fatalf("expected slippage exceeded, got %v", err)
	}

	pair, _ := Canonicalize(assetAAA, assetBBB)
	low, high := engine.Registry().Reserves(pair)
	if low != 10000 || high != 12800 {
		t.Fatalf("failed swap must not move reserves: (%d, %d)", low, high)
	}
	if got := book.Balance(bob, assetAAA); got != 100 {
		t.Fatalf("failed swap must not move funds: %d", got)
	}
}

func TestSwapDirectionBothOrders(t *testing.T) {
	// The canonical slots must always credit the input asset's reserve and
	// debit the output asset's, whichever slot the input asset occupies.
	engine, book := newTestEngine(t)
	seedPool(t, engine, book, 10000, 12800)

	book.Credit(bob, assetBBB, 128)
	events, err := engine.Swap(bob, assetBBB, assetAAA, 128, 0)
	if err != nil {
		t.Fatalf("reverse swap: %v", err)
	}
	swap := events[0].(Swap)
	if swap.AmountOut != 100 {
		t.Fatalf("amount out mismatch: got %d, want 100", swap.AmountOut)
	}

	pair, _ := Canonicalize(assetAAA, assetBBB)
	low, high := engine.Registry().Reserves(pair)
	if low != 9900 || high != 12928 {
		t.Fatalf("reserve write-back mismatch: (%d, %d), want (9900, 12928)", low, high)
	}

	book.Credit(bob, assetAAA, 100)
	if _, err := engine.Swap(bob, assetAAA, assetBBB, 100, 0); err != nil {
		t.Fatalf("forward swap: %v", err)
	}
	low, high = engine.Registry().Reserves(pair)
	if low != 10000 {
		t.Fatalf("forward swap must credit the low slot: %d", low)
	}
	if high >= 12928 {
		t.Fatalf("forward swap must debit the high slot: %d", high)
	}
}

func TestSwapValidation(t *testing.T) {
	engine, book := newTestEngine(t)

	if _, err := engine.Swap(bob, assetAAA, assetAAA, 100, 0); !errors.Is(err, ErrInvalidAssetPair) {
		t.Fatalf("expected invalid asset pair, got %v", err)
	}
	if _, err := engine.Swap(bob, assetAAA, assetBBB, 0, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := engine.Swap(bob, assetAAA, assetBBB, 100, 0); !errors.Is(err, ErrPoolDoesNotExist) {
		t.Fatalf("expected pool does not exist, got %v", err)
	}

	seedPool(t, engine, book, 1000, 1000)
	if _, err := engine.Swap(bob, assetAAA, assetBBB, 100, 0); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
}

func TestSwapKNeverDecreasesWithFees(t *testing.T) {
	engine, book := newTestEngine(t)
	seedPool(t, engine, book, 1_000_000, 2_000_000)
	pair, _ := Canonicalize(assetAAA, assetBBB)

	book.Credit(bob, assetAAA, 1_000_000)
	book.Credit(bob, assetBBB, 1_000_000)

	swaps := []struct {
		in     AssetID
		out    AssetID
		amount Balance
	}{
		{assetAAA, assetBBB, 5000},
		{assetBBB, assetAAA, 8000},
		{assetAAA, assetBBB, 12000},
		{assetBBB, assetAAA, 30000},
	}

	k := poolK(t, engine, pair)
	for i, s := range swaps {
		if _, err := engine.Swap(bob, s.in, s.out, s.amount, 0); err != nil {
			t.Fatalf("swap %d: %v", i, err)
		}
		next := poolK(t, engine, pair)
		if next.Cmp(k) < 0 {
			t.Fatalf("k decreased after swap %d: %s -> %s", i, k, next)
		}
		k = next
	}
}

func TestRemoveLiquidityRoundTrip(t *testing.T) {
	engine, book := newTestEngine(t)
	seedPool(t, engine, book, 1000, 2000)

	events, err := engine.RemoveLiquidity(alice, assetAAA, assetBBB, 1000, 1000, 2000)
	if err != nil {
		t.Fatalf("remove liquidity: %v", err)
	}

	want := []Event{LiquidityRemoved{
		Account:   alice,
		AssetA:    assetAAA,
		AssetB:    assetBBB,
		AmountA:   1000,
		AmountB:   2000,
		Liquidity: 1000,
	}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events mismatch: %+v != %+v", events, want)
	}

	if got := book.Balance(alice, assetAAA); got != 1000 {
		t.Fatalf("asset a not returned in full: %d", got)
	}
	if got := book.Balance(alice, assetBBB); got != 2000 {
		t.Fatalf("asset b not returned in full: %d", got)
	}

	// Fully drained pool behaves as nonexistent, then reactivates fresh.
	pair, _ := Canonicalize(assetAAA, assetBBB)
	if engine.Registry().Active(pair) {
		t.Fatalf("drained pool must be inactive")
	}
	if _, err := engine.Swap(alice, assetAAA, assetBBB, 10, 0); !errors.Is(err, ErrPoolDoesNotExist) {
		t.Fatalf("expected pool does not exist, got %v", err)
	}

	if _, err := engine.AddLiquidity(alice, assetAAA, assetBBB, 500, 500, 500); err != nil {
		t.Fatalf("reactivation: %v", err)
	}
	if got := engine.Ledger().Claim(pair, alice); got != 500 {
		t.Fatalf("first-deposit rule must apply again: %d", got)
	}
}

func TestRemoveLiquidityNeverReturnsMore(t *testing.T) {
	engine, book := newTestEngine(t)
	seedPool(t, engine, book, 1000, 2000)

	book.Credit(bob, assetAAA, 101)
	book.Credit(bob, assetBBB, 200)
	events, err := engine.AddLiquidity(bob, assetAAA, assetBBB, 101, 200, 0)
	if err != nil {
		t.Fatalf("add liquidity: %v", err)
	}
	minted := events[0].(LiquidityAdded).Liquidity

	events, err = engine.RemoveLiquidity(bob, assetAAA, assetBBB, minted, 0, 0)
	if err != nil {
		t.Fatalf("remove liquidity: %v", err)
	}
	removed := events[0].(LiquidityRemoved)
	if removed.AmountA > 101 || removed.AmountB > 200 {
		t.Fatalf("round trip returned more than deposited: (%d, %d)", removed.AmountA, removed.AmountB)
	}
}

func TestRemoveLiquidityValidation(t *testing.T) {
	engine, book := newTestEngine(t)

	if _, err := engine.RemoveLiquidity(alice, assetAAA, assetAAA, 100, 0, 0); !errors.Is(err, ErrInvalidAssetPair) {
		t.Fatalf("expected invalid asset pair, got %v", err)
	}
	if _, err := engine.RemoveLiquidity(alice, assetAAA, assetBBB, 0, 0, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := engine.RemoveLiquidity(alice, assetAAA, assetBBB, 100, 0, 0); !errors.Is(err, ErrPoolDoesNotExist) {
		t.Fatalf("expected pool does not exist, got %v", err)
	}

	seedPool(t, engine, book, 1000, 2000)
	if _, err := engine.RemoveLiquidity(bob, assetAAA, assetBBB, 100, 0, 0); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if _, err := engine.RemoveLiquidity(alice, assetAAA, assetBBB, 500, 501, 0); !errors.Is(err, ErrSlippageExceeded) {
		t.Fatalf("expected slippage exceeded, got %v", err)
	}
}

func TestAddLiquidityAtomicOnTransferFailure(t *testing.T) {
	engine, book := newTestEngine(t)
	book.Credit(alice, assetAAA, 1000)
	// No BBB balance: the second transfer fails after the first succeeded.

	_, err := engine.AddLiquidity(alice, assetAAA, assetBBB, 500, 500, 0)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}

	if got := book.Balance(alice, assetAAA); got != 1000 {
		t.Fatalf("first transfer was not compensated: %d", got)
	}
	if got := book.Balance(custody, assetAAA); got != 0 {
		t.Fatalf("custody must hold nothing after a failed deposit: %d", got)
	}

	pair, _ := Canonicalize(assetAAA, assetBBB)
	if engine.Registry().Active(pair) {
		t.Fatalf("failed deposit must not create a pool")
	}
	if got := engine.Ledger().Total(pair); got != 0 {
		t.Fatalf("failed deposit must not mint: %d", got)
	}
}

func TestLiquidityConservation(t *testing.T) {
	engine, book := newTestEngine(t)
	seedPool(t, engine, book, 1000, 2000)

	book.Credit(bob, assetAAA, 500)
	book.Credit(bob, assetBBB, 1000)
	if _, err := engine.AddLiquidity(bob, assetAAA, assetBBB, 500, 1000, 0); err != nil {
		t.Fatalf("add liquidity: %v", err)
	}
	if _, err := engine.RemoveLiquidity(alice, assetAAA, assetBBB, 400, 0, 0); err != nil {
		t.Fatalf("remove liquidity: %v", err)
	}

	pair, _ := Canonicalize(assetAAA, assetBBB)
	var sum Balance
	for _, claim := range engine.Ledger().Claims() {
		if claim.Pair == pair {
			sum += claim.Balance
		}
	}
	if total := engine.Ledger().Total(pair); sum != total {
		t.Fatalf("claims sum %d != total %d", sum, total)
	}
}
