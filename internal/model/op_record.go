package model

// Operation kinds accepted in a journal. Fund is the hosting shim that
// credits an account's asset balance so a journal is self-contained.
const (
	OpFund            = "fund"
	OpAddLiquidity    = "add_liquidity"
	OpRemoveLiquidity = "remove_liquidity"
	OpSwap            = "swap"
)

// OpRecord is one journaled pool operation. Fields are a union over the
// operation kinds; unused fields stay zero.
type OpRecord struct {
	Seq    uint64 `json:"seq"`
	Op     string `json:"op"`
	Caller string `json:"caller"`

	Asset  string `json:"asset,omitempty"`
	Amount uint64 `json:"amount,omitempty"`

	AssetA       string `json:"asset_a,omitempty"`
	AssetB       string `json:"asset_b,omitempty"`
	AmountA      uint64 `json:"amount_a,omitempty"`
	AmountB      uint64 `json:"amount_b,omitempty"`
	MinLiquidity uint64 `json:"min_liquidity,omitempty"`

	Liquidity  uint64 `json:"liquidity,omitempty"`
	MinAmountA uint64 `json:"min_amount_a,omitempty"`
	MinAmountB uint64 `json:"min_amount_b,omitempty"`

	AssetIn      string `json:"asset_in,omitempty"`
	AssetOut     string `json:"asset_out,omitempty"`
	AmountIn     uint64 `json:"amount_in,omitempty"`
	MinAmountOut uint64 `json:"min_amount_out,omitempty"`
}
