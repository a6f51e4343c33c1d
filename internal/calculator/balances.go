package calculator

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// ComputeBalances aggregates entries into per-user net balances.
//
// Algorithm:
// - Paid entries add their amount to the user's balance
// - Owes entries subtract their amount
// - Users with no entries are absent from the result
func ComputeBalances(entries []models.LedgerEntry) Balances {
	balances := make(Balances)
	for _, e := range entries {
		current := balances[e.UserID]
		switch e.Kind {
		case models.EntryPaid:
			balances[e.UserID] = current.Add(e.Amount)
		case models.EntryOwes:
			balances[e.UserID] = current.Sub(e.Amount)
		}
	}
	return balances
}

// ComputeGroupBalances is ComputeBalances restricted to entries whose expense
// belongs to groupID.
func ComputeGroupBalances(entries []models.LedgerEntry, groupID string) Balances {
	return ComputeBalances(FilterByGroup(entries, groupID))
}

// FilterByGroup returns the entries belonging to groupID.
func FilterByGroup(entries []models.LedgerEntry, groupID string) []models.LedgerEntry {
	var scoped []models.LedgerEntry
	for _, e := range entries {
		if e.GroupID == groupID {
			scoped = append(scoped, e)
		}
	}
	return scoped
}

// MemberTotals returns, per user, the total paid, total owed and net balance
// over entries, sorted by user ID.
func MemberTotals(entries []models.LedgerEntry) []models.MemberBalance {
	totals := make(map[string]*models.MemberBalance)
	for _, e := range entries {
		bal, exists := totals[e.UserID]
		if !exists {
			bal = &models.MemberBalance{UserID: e.UserID}
			totals[e.UserID] = bal
		}
		switch e.Kind {
		case models.EntryPaid:
			bal.TotalPaid = bal.TotalPaid.Add(e.Amount)
		case models.EntryOwes:
			bal.TotalOwed = bal.TotalOwed.Add(e.Amount)
		}
	}

	result := make([]models.MemberBalance, 0, len(totals))
	for _, bal := range totals {
		bal.NetBalance = bal.TotalPaid.Sub(bal.TotalOwed)
		result = append(result, *bal)
	}
	slices.SortFunc(result, func(a, b models.MemberBalance) int {
		return strings.Compare(a.UserID, b.UserID)
	})
	return result
}

// BalancesWithOthers computes userID's position against every user it shares
// an expense with. A positive value means the other user owes userID.
//
// For each expense userID takes part in, each of userID's entries is paired
// with every other user's entry on that expense:
//   - userID Paid, other Owes: the other owes userID the other's share
//   - userID Owes, other Paid: userID owes the other userID's share
//
// Other combinations leave the pair unchanged but still list the other user.
func BalancesWithOthers(entries []models.LedgerEntry, userID string) Balances {
	balances := make(Balances)
	for _, expenseEntries := range groupByExpense(entries) {
		var mine, others []models.LedgerEntry
		for _, e := range expenseEntries {
			if e.UserID == userID {
				mine = append(mine, e)
			} else {
				others = append(others, e)
			}
		}
		if len(mine) == 0 {
			continue
		}

		for _, m := range mine {
			for _, o := range others {
				current := balances[o.UserID]
				switch {
				case m.Kind == models.EntryPaid && o.Kind == models.EntryOwes:
					current = current.Add(o.Amount)
				case m.Kind == models.EntryOwes && o.Kind == models.EntryPaid:
					current = current.Sub(m.Amount)
				}
				balances[o.UserID] = current
			}
		}
	}
	return balances
}

// PairwiseBalance returns userID's position against otherID.
// Negative means userID owes otherID.
func PairwiseBalance(entries []models.LedgerEntry, userID, otherID string) decimal.Decimal {
	return BalancesWithOthers(entries, userID)[otherID]
}

// DebtDetails lists userID's outstanding positions larger than Epsilon,
// sorted by the other user's ID.
func DebtDetails(entries []models.LedgerEntry, userID string) []models.DebtDetail {
	balances := BalancesWithOthers(entries, userID)

	details := make([]models.DebtDetail, 0, len(balances))
	for _, otherID := range balances.UserIDs() {
		amount := balances[otherID]
		if amount.Abs().LessThanOrEqual(Epsilon) {
			continue
		}
		detail := models.DebtDetail{
			OtherUserID: otherID,
			Amount:      amount.Abs(),
			Type:        models.DebtOwe,
		}
		if amount.IsPositive() {
			detail.Type = models.DebtOwed
		}
		details = append(details, detail)
	}
	return details
}

// groupByExpense buckets entries by expense ID.
func groupByExpense(entries []models.LedgerEntry) map[string][]models.LedgerEntry {
	byExpense := make(map[string][]models.LedgerEntry)
	for _, e := range entries {
		byExpense[e.ExpenseID] = append(byExpense[e.ExpenseID], e)
	}
	return byExpense
}
