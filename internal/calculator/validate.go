package calculator

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// ExpenseTotals returns the Paid and Owes totals of entries.
func ExpenseTotals(entries []models.LedgerEntry) (totalPaid, totalOwed decimal.Decimal) {
	for _, e := range entries {
		switch e.Kind {
		case models.EntryPaid:
			totalPaid = totalPaid.Add(e.Amount)
		case models.EntryOwes:
			totalOwed = totalOwed.Add(e.Amount)
		}
	}
	return totalPaid, totalOwed
}

// ValidateExpenseBalance reports whether the entries of one expense balance:
// |total paid - total owed| < Epsilon.
func ValidateExpenseBalance(entries []models.LedgerEntry) bool {
	totalPaid, totalOwed := ExpenseTotals(entries)
	return withinEpsilon(totalPaid, totalOwed)
}

// CheckExpense validates the full entry set of one expense before it is
// written. An error here must reject the write.
func CheckExpense(entries []models.LedgerEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: expense has no entries", ErrInvalidEntries)
	}

	expenseID := entries[0].ExpenseID
	var hasPaid, hasOwes bool
	for i, e := range entries {
		if e.ExpenseID != expenseID {
			return fmt.Errorf("%w: entry %d belongs to expense %q, want %q", ErrInvalidEntries, i, e.ExpenseID, expenseID)
		}
		if e.UserID == "" {
			return fmt.Errorf("%w: entry %d has no user", ErrInvalidEntries, i)
		}
		if e.Amount.IsNegative() {
			return fmt.Errorf("%w: entry %d has negative amount %s", ErrInvalidEntries, i, e.Amount)
		}
		switch e.Kind {
		case models.EntryPaid:
			hasPaid = true
		case models.EntryOwes:
			hasOwes = true
		default:
			return fmt.Errorf("%w: entry %d has unknown type %s", ErrInvalidEntries, i, e.Kind)
		}
	}
	if !hasPaid || !hasOwes {
		return fmt.Errorf("%w: expense needs at least one %s and one %s entry",
			ErrInvalidEntries, models.EntryPaid, models.EntryOwes)
	}

	totalPaid, totalOwed := ExpenseTotals(entries)
	if !withinEpsilon(totalPaid, totalOwed) {
		return fmt.Errorf("%w: paid %s, owed %s", ErrUnbalancedExpense, totalPaid.StringFixed(centPlaces), totalOwed.StringFixed(centPlaces))
	}
	return nil
}

// ValidateLedger checks every expense in entries and returns the IDs of the
// unbalanced ones in ascending order.
func ValidateLedger(entries []models.LedgerEntry) []string {
	var unbalanced []string
	for expenseID, expenseEntries := range groupByExpense(entries) {
		if !ValidateExpenseBalance(expenseEntries) {
			unbalanced = append(unbalanced, expenseID)
		}
	}
	slices.Sort(unbalanced)
	return unbalanced
}
