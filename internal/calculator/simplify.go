package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// position is a user's outstanding amount during simplification.
type position struct {
	userID    string
	remaining decimal.Decimal
}

// Simplify turns net balances into a list of suggested transfers using a
// greedy debtor-to-creditor walk.
//
// Algorithm:
// 1. Split users into creditors (> Epsilon) and debtors (< -Epsilon)
// 2. Sort both by user ID so the output is deterministic
// 3. For each debtor, pay creditors in order until the debt is covered
//
// Applying every transfer leaves all balances within Epsilon of zero. The
// result is not guaranteed to be the global minimum number of transfers.
func Simplify(balances Balances) []models.Transfer {
	var creditors, debtors []*position
	for _, userID := range balances.UserIDs() {
		amount := balances[userID]
		switch {
		case amount.GreaterThan(Epsilon):
			creditors = append(creditors, &position{userID: userID, remaining: amount})
		case amount.LessThan(Epsilon.Neg()):
			debtors = append(debtors, &position{userID: userID, remaining: amount.Neg()})
		}
	}

	transfers := make([]models.Transfer, 0, len(debtors)+len(creditors))
	for _, debtor := range debtors {
		for _, creditor := range creditors {
			if debtor.remaining.LessThanOrEqual(Epsilon) {
				break
			}
			if creditor.remaining.LessThanOrEqual(Epsilon) {
				continue
			}

			pay := decimal.Min(debtor.remaining, creditor.remaining)
			transfers = append(transfers, models.Transfer{
				FromUserID: debtor.userID,
				ToUserID:   creditor.userID,
				Amount:     RoundCents(pay),
			})
			debtor.remaining = debtor.remaining.Sub(pay)
			creditor.remaining = creditor.remaining.Sub(pay)
		}
	}
	return transfers
}

// SimplifyGroup suggests transfers that settle groupID's balances.
func SimplifyGroup(entries []models.LedgerEntry, groupID string) []models.Transfer {
	return Simplify(ComputeGroupBalances(entries, groupID))
}

// ExpenseDebts suggests who pays whom to settle a single expense.
func ExpenseDebts(entries []models.LedgerEntry) []models.Transfer {
	return Simplify(ComputeBalances(entries))
}

// ApplyTransfers returns a copy of balances with transfers applied: the payer
// gains the amount and the payee loses it.
func ApplyTransfers(balances Balances, transfers []models.Transfer) Balances {
	applied := make(Balances, len(balances))
	for userID, amount := range balances {
		applied[userID] = amount
	}
	for _, t := range transfers {
		applied[t.FromUserID] = applied[t.FromUserID].Add(t.Amount)
		applied[t.ToUserID] = applied[t.ToUserID].Sub(t.Amount)
	}
	return applied
}
