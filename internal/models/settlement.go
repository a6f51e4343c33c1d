package models

import "github.com/shopspring/decimal"

// Settlement represents a payment from a debtor to a creditor that clears
// (part of) a debt. It is realised in the ledger as a synthetic expense with
// one Paid entry for the debtor and one Owes entry for the creditor.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// GroupID is the group this settlement is recorded under. Optional.
	GroupID string `json:"groupId,omitempty"`

	// DebtorID is the user who paid (debtor settling up).
	DebtorID string `json:"debtorId"`

	// CreditorID is the user who received payment (creditor being paid).
	CreditorID string `json:"creditorId"`

	// Amount is the payment amount.
	Amount decimal.Decimal `json:"amount"`

	// Note is an optional description shown in settlement history.
	// It has no effect on balances.
	Note string `json:"note,omitempty"`

	// ExpenseID is the synthetic expense holding the settlement entries.
	ExpenseID string `json:"expenseId"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"createdAt"`

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string `json:"createdBy,omitempty"`
}

// Transfer is a suggested payment produced by debt simplification.
// It is never persisted.
type Transfer struct {
	FromUserID string          `json:"fromUserId"`
	ToUserID   string          `json:"toUserId"`
	Amount     decimal.Decimal `json:"amount"`
}

// MemberBalance summarises one user's position over a set of entries.
type MemberBalance struct {
	UserID     string          `json:"userId"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	TotalOwed  decimal.Decimal `json:"totalOwed"`
	NetBalance decimal.Decimal `json:"netBalance"` // Positive = owed money, Negative = owes money
}

// Debt directions reported by DebtDetail.
const (
	DebtOwed = "OWED" // the other user owes this user
	DebtOwe  = "OWE"  // this user owes the other user
)

// DebtDetail is one user's outstanding position against another user.
type DebtDetail struct {
	OtherUserID string          `json:"otherUserId"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
}
