package calculator

import (
	"slices"

	"github.com/shopspring/decimal"
)

// centPlaces is the number of fractional digits of every stored amount.
const centPlaces = 2

// Epsilon is the tolerance (0.01) below which a balance is treated as settled.
var Epsilon = decimal.New(1, -centPlaces)

// Balances maps user IDs to net positions.
// Positive = owed money, Negative = owes money.
type Balances map[string]decimal.Decimal

// Sum returns the total of all balances. For any consistent ledger it is
// zero within Epsilon.
func (b Balances) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}

// UserIDs returns the users present in b in ascending order.
func (b Balances) UserIDs() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Settled reports whether every balance is within Epsilon of zero.
func (b Balances) Settled() bool {
	for _, v := range b {
		if v.Abs().GreaterThan(Epsilon) {
			return false
		}
	}
	return true
}

// IsCents reports whether d has at most two fractional digits.
func IsCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(centPlaces))
}

// RoundCents rounds d to two fractional digits, half to even.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(centPlaces)
}

// withinEpsilon reports whether |a - b| < Epsilon.
func withinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Epsilon)
}
