package model

// PoolRow is a pool reserve snapshot for persistence, keyed by the canonical
// (asset_low, asset_high) pair.
type PoolRow struct {
	AssetLow    string `json:"asset_low"`
	AssetHigh   string `json:"asset_high"`
	ReserveLow  uint64 `json:"reserve_low"`
	ReserveHigh uint64 `json:"reserve_high"`
}

// ClaimRow is a liquidity claim snapshot for persistence.
type ClaimRow struct {
	AssetLow  string `json:"asset_low"`
	AssetHigh string `json:"asset_high"`
	Account   string `json:"account"`
	Balance   uint64 `json:"balance"`
}
