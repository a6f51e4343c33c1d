// Package api defines the request and response messages of the splitledger
// RPC services. Messages travel as JSON over the Connect protocol; amounts
// are decimal strings with two fractional digits.
package api

import "github.com/shopspring/decimal"

// Entry type literals.
const (
	EntryTypePaidBy    = "PAID_BY"
	EntryTypeHeadToPay = "HEAD_TO_PAY"
)

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
	CreatedAt int64    `json:"createdAt"`
}

// Entry is one user's role on an expense. Type is PAID_BY or HEAD_TO_PAY.
type Entry struct {
	ID     string          `json:"id,omitempty"`
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
	Type   string          `json:"type"`
}

type Expense struct {
	ID           string          `json:"id"`
	GroupID      string          `json:"groupId,omitempty"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	IsSettlement bool            `json:"isSettlement,omitempty"`
	CreatedAt    int64           `json:"createdAt"`
	Entries      []Entry         `json:"entries"`
}

// Transfer is a suggested payment that moves both users toward zero.
type Transfer struct {
	FromUserID string          `json:"fromUserId"`
	ToUserID   string          `json:"toUserId"`
	Amount     decimal.Decimal `json:"amount"`
}

type MemberBalance struct {
	UserID     string          `json:"userId"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	TotalOwed  decimal.Decimal `json:"totalOwed"`
	NetBalance decimal.Decimal `json:"netBalance"`
}

// DebtDetail is the caller's position against one other user.
// Type is OWED when the other user owes the caller, OWE otherwise.
type DebtDetail struct {
	OtherUserID string          `json:"otherUserId"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
}

type Settlement struct {
	ID         string          `json:"id"`
	GroupID    string          `json:"groupId,omitempty"`
	DebtorID   string          `json:"debtorId"`
	CreditorID string          `json:"creditorId"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
	ExpenseID  string          `json:"expenseId"`
	CreatedAt  int64           `json:"createdAt"`
	CreatedBy  string          `json:"createdBy,omitempty"`
}

// Item is a line on an itemized bill.
type Item struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	AssignedTo  []string        `json:"assignedTo"`
}

type PersonSplit struct {
	UserID   string          `json:"userId"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}
