package amm

import "sort"

// Ledger tracks liquidity claims per (pool, account) and the total units
// outstanding per pool. Claims and totals change only through Mint and Burn,
// which keep sum-of-claims equal to the total by construction.
type Ledger struct {
	claims map[claimKey]Balance
	totals map[Pair]Balance
}

type claimKey struct {
	pair    Pair
	account Account
}

func NewLedger() *Ledger {
	return &Ledger{
		claims: make(map[claimKey]Balance),
		totals: make(map[Pair]Balance),
	}
}

// Claim returns the account's liquidity balance in the pool.
func (l *Ledger) Claim(pair Pair, account Account) Balance {
	return l.claims[claimKey{pair: pair, account: account}]
}

// Total returns the pool's outstanding liquidity units.
func (l *Ledger) Total(pair Pair) Balance {
	return l.totals[pair]
}

// Mint credits amount liquidity units to the account and the pool total.
// Overflow of either counter fails with ErrCalculation before any mutation.
func (l *Ledger) Mint(pair Pair, account Account, amount Balance) error {
	key := claimKey{pair: pair, account: account}
	newClaim, err := addChecked(l.claims[key], amount)
	if err != nil {
		return err
	}
	newTotal, err := addChecked(l.totals[pair], amount)
	if err != nil {
		return err
	}
	l.claims[key] = newClaim
	l.totals[pair] = newTotal
	return nil
}

// Burn debits amount liquidity units from the account and the pool total.
// Fails with ErrInsufficientBalance when the claim is smaller than amount;
// the total cannot underflow because it is never less than any single claim.
func (l *Ledger) Burn(pair Pair, account Account, amount Balance) error {
	key := claimKey{pair: pair, account: account}
	claim := l.claims[key]
	if claim < amount {
		return ErrInsufficientBalance
	}
	l.claims[key] = claim - amount
	l.totals[pair] -= amount
	return nil
}

// ClaimState is a point-in-time snapshot of one account's claim.
type ClaimState struct {
	Pair    Pair
	Account Account
	Balance Balance
}

// Claims returns a snapshot of every nonzero claim, sorted by pair and account.
func (l *Ledger) Claims() []ClaimState {
	out := make([]ClaimState, 0, len(l.claims))
	for key, balance := range l.claims {
		if balance == 0 {
			continue
		}
		out = append(out, ClaimState{Pair: key.pair, Account: key.account, Balance: balance})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Pair.Low != b.Pair.Low {
			return a.Pair.Low < b.Pair.Low
		}
		if a.Pair.High != b.Pair.High {
			return a.Pair.High < b.Pair.High
		}
		return a.Account < b.Account
	})
	return out
}
