package calculator

import "errors"

var (
	// ErrNotFound is returned when a referenced user or group does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnbalancedExpense is returned when an expense's Paid and Owes
	// totals differ by at least Epsilon.
	ErrUnbalancedExpense = errors.New("expense amounts don't balance (total paid != total owed)")

	// ErrInvalidEntries is returned for malformed entry sets: negative
	// amounts, unknown kinds, mixed expenses, or a missing Paid/Owes side.
	ErrInvalidEntries = errors.New("invalid expense entries")

	// ErrNoSuchDebt is returned when a settlement is requested but the
	// debtor does not owe the creditor anything.
	ErrNoSuchDebt = errors.New("no debt found between these users")

	// ErrAmountExceedsDebt is returned when a settlement is larger than the
	// outstanding debt. Amounts are never clamped.
	ErrAmountExceedsDebt = errors.New("settlement amount exceeds current debt")

	// ErrInvalidAmount is returned for non-positive amounts or amounts with
	// more than two fractional digits.
	ErrInvalidAmount = errors.New("amount must be positive with at most 2 decimal places")
)

// IsValidationFailure reports whether err rejects a write because its
// entries are malformed or unbalanced.
func IsValidationFailure(err error) bool {
	return errors.Is(err, ErrUnbalancedExpense) || errors.Is(err, ErrInvalidEntries)
}
