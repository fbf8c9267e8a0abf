package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestEventRecordJSONRoundTrip(t *testing.T) {
	original := EventRecord{
		Seq:       42,
		Name:      "swap",
		Account:   "alice",
		AssetIn:   "AAA",
		AssetOut:  "BBB",
		AmountIn:  100000,
		AmountOut: 11633,
		Fee:       369,
		EmittedAt: "2024-01-01T00:00:00Z",
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded EventRecord
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
}

func TestOpRecordDecode(t *testing.T) {
	line := `{"seq":3,"op":"add_liquidity","caller":"alice","asset_a":"AAA","asset_b":"BBB","amount_a":1000,"amount_b":2000,"min_liquidity":900}`

	var op OpRecord
	if err := json.Unmarshal([]byte(line), &op); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	want := OpRecord{
		Seq:          3,
		Op:           OpAddLiquidity,
		Caller:       "alice",
		AssetA:       "AAA",
		AssetB:       "BBB",
		AmountA:      1000,
		AmountB:      2000,
		MinLiquidity: 900,
	}
	if !reflect.DeepEqual(op, want) {
		t.Fatalf("decode mismatch: %+v != %+v", op, want)
	}
}
