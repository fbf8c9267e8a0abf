package amm

import "math/bits"

// TransferPort moves a fixed amount of a named asset between two accounts on
// the underlying ledger. Implementations must be atomic: either the full
// amount moves or nothing does. A failure for lack of funds should unwrap to
// ErrInsufficientBalance so callers can report it verbatim.
type TransferPort interface {
	Transfer(from, to Account, asset AssetID, amount Balance) error
}

// Book is an in-memory asset ledger implementing TransferPort. The replay
// pipeline and tests use it as the hosting environment's currency system.
type Book struct {
	balances map[bookKey]Balance
}

type bookKey struct {
	account Account
	asset   AssetID
}

func NewBook() *Book {
	return &Book{balances: make(map[bookKey]Balance)}
}

// Credit adds amount to the account's balance, saturating at the maximum
// representable balance.
func (b *Book) Credit(account Account, asset AssetID, amount Balance) {
	key := bookKey{account: account, asset: asset}
	sum, carry := bits.Add64(uint64(b.balances[key]), uint64(amount), 0)
	if carry != 0 {
		sum = ^uint64(0)
	}
	b.balances[key] = Balance(sum)
}

// Balance returns the account's balance of the asset.
func (b *Book) Balance(account Account, asset AssetID) Balance {
	return b.balances[bookKey{account: account, asset: asset}]
}

// Transfer moves amount from one account to another, failing with
// ErrInsufficientBalance when the source is short.
func (b *Book) Transfer(from, to Account, asset AssetID, amount Balance) error {
	fromKey := bookKey{account: from, asset: asset}
	if b.balances[fromKey] < amount {
		return ErrInsufficientBalance
	}
	toKey := bookKey{account: to, asset: asset}
	sum, carry := bits.Add64(uint64(b.balances[toKey]), uint64(amount), 0)
	if carry != 0 {
		return ErrCalculation
	}
	b.balances[fromKey] -= amount
	b.balances[toKey] = Balance(sum)
	return nil
}
