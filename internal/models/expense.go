package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Expense is a shared cost. Who paid and who owes is recorded as ledger
// entries pointing at the expense, not on the expense itself.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the owning group. Empty for expenses outside any group.
	GroupID string `json:"groupId,omitempty"`

	// Description is the human-readable name of the expense.
	Description string `json:"description"`

	// Amount is the total cost, 2 fractional digits.
	Amount decimal.Decimal `json:"amount"`

	// IsSettlement marks the synthetic expenses created by settlements.
	IsSettlement bool `json:"isSettlement,omitempty"`

	// CreatedAt is the Unix timestamp when the expense was created.
	CreatedAt int64 `json:"createdAt"`
}

// EntryKind says whether a ledger entry is money fronted or a share owed.
type EntryKind int

const (
	// EntryPaid is money the user fronted for the expense.
	EntryPaid EntryKind = iota + 1
	// EntryOwes is the user's share of the expense's cost.
	EntryOwes
)

// Wire literals for EntryKind.
const (
	entryPaidLiteral = "PAID_BY"
	entryOwesLiteral = "HEAD_TO_PAY"
)

// String returns the wire literal of the kind.
func (k EntryKind) String() string {
	switch k {
	case EntryPaid:
		return entryPaidLiteral
	case EntryOwes:
		return entryOwesLiteral
	default:
		return fmt.Sprintf("EntryKind(%d)", int(k))
	}
}

// Valid reports whether k is one of the known kinds.
func (k EntryKind) Valid() bool {
	return k == EntryPaid || k == EntryOwes
}

// ParseEntryKind parses a wire literal, case-insensitively.
func ParseEntryKind(s string) (EntryKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case entryPaidLiteral:
		return EntryPaid, nil
	case entryOwesLiteral:
		return EntryOwes, nil
	default:
		return 0, fmt.Errorf("unknown entry type %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k EntryKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EntryKind) UnmarshalText(text []byte) error {
	parsed, err := ParseEntryKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// LedgerEntry ties one user to one expense with a signed role.
// Entries are append-only: they are replaced as a set, never edited in place.
type LedgerEntry struct {
	ID        string `json:"id,omitempty"`
	ExpenseID string `json:"expenseId"`

	// GroupID mirrors the owning expense's group.
	GroupID string `json:"groupId,omitempty"`

	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
	Kind   EntryKind       `json:"type"`
}
