package amm

import "sort"

// Registry is the canonical store of pool reserves. Every unordered asset
// pair resolves to exactly one entry; callers canonicalize once and pass the
// resulting Pair. The registry itself never fails: invariants are enforced by
// the operations that mutate it.
type Registry struct {
	pools map[Pair]poolReserves
}

type poolReserves struct {
	low  Balance
	high Balance
}

func NewRegistry() *Registry {
	return &Registry{pools: make(map[Pair]poolReserves)}
}

// Reserves returns the pool's reserves in canonical (low, high) order, or
// (0, 0) for a pool that has never been initialized.
func (r *Registry) Reserves(pair Pair) (Balance, Balance) {
	res := r.pools[pair]
	return res.low, res.high
}

// SetReserves overwrites the pool's reserves. Callers validate before calling.
func (r *Registry) SetReserves(pair Pair, low, high Balance) {
	r.pools[pair] = poolReserves{low: low, high: high}
}

// Active reports whether the pool holds liquidity on both sides. A pool with
// a zero reserve behaves as nonexistent for swap and removal.
func (r *Registry) Active(pair Pair) bool {
	res := r.pools[pair]
	return res.low > 0 && res.high > 0
}

// PoolState is a point-in-time snapshot of one pool.
type PoolState struct {
	Pair        Pair
	ReserveLow  Balance
	ReserveHigh Balance
}

// Pools returns a snapshot of every initialized pool, sorted by pair.
func (r *Registry) Pools() []PoolState {
	out := make([]PoolState, 0, len(r.pools))
	for pair, res := range r.pools {
		out = append(out, PoolState{Pair: pair, ReserveLow: res.low, ReserveHigh: res.high})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pair.Low != out[j].Pair.Low {
			return out[i].Pair.Low < out[j].Pair.Low
		}
		return out[i].Pair.High < out[j].Pair.High
	})
	return out
}
