package amm

// AssetID identifies a fungible asset. IDs are opaque; their ordering is used
// only to canonicalize pairs, never for value.
type AssetID string

// Account identifies a balance holder on the underlying asset ledger.
type Account string

// Balance is an unsigned asset or liquidity-unit amount.
type Balance uint64

// Pair is a canonical unordered asset pair with Low < High.
type Pair struct {
	Low  AssetID `json:"low"`
	High AssetID `json:"high"`
}

// Canonicalize orders (x, y) into a Pair. The second return reports whether
// the caller's order differs from the canonical one; swap callers use it to
// map reserves back to the right slots.
func Canonicalize(x, y AssetID) (Pair, bool) {
	if y < x {
		return Pair{Low: y, High: x}, true
	}
	return Pair{Low: x, High: y}, false
}
