package model

import "encoding/json"

// EventOpFailed names the record written when the engine rejects an
// operation.
const EventOpFailed = "op_failed"

// EventRecord is the normalized representation of an engine event for
// storage. Seq is the journal sequence of the operation that produced it.
// Records with Name "op_failed" report an operation the engine rejected;
// the engine guarantees rejected operations left no state behind.
type EventRecord struct {
	Seq       uint64 `json:"seq"`
	Name      string `json:"name"`
	Account   string `json:"account,omitempty"`
	AssetA    string `json:"asset_a,omitempty"`
	AssetB    string `json:"asset_b,omitempty"`
	AssetIn   string `json:"asset_in,omitempty"`
	AssetOut  string `json:"asset_out,omitempty"`
	Asset     string `json:"asset,omitempty"`
	AmountA   uint64 `json:"amount_a,omitempty"`
	AmountB   uint64 `json:"amount_b,omitempty"`
	AmountIn  uint64 `json:"amount_in,omitempty"`
	AmountOut uint64 `json:"amount_out,omitempty"`
	Liquidity uint64 `json:"liquidity,omitempty"`
	Fee       uint64 `json:"fee"`
	Error     string `json:"error,omitempty"`
	EmittedAt string `json:"emitted_at"`
}

// MarshalJSON ensures EventRecord is encoded with stable field names.
func (er EventRecord) MarshalJSON() ([]byte, error) {
	type Alias EventRecord
	return json.Marshal(Alias(er))
}

// UnmarshalJSON decodes an EventRecord from JSON.
func (er *EventRecord) UnmarshalJSON(data []byte) error {
	type Alias EventRecord
	var a Alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*er = EventRecord(a)
	return nil
}
