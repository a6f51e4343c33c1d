package api

import "github.com/shopspring/decimal"

// AuthService

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// GroupService

// CreateGroupRequest creates a group. The caller is always a member.
type CreateGroupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds,omitempty"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type AddGroupMembersRequest struct {
	GroupID string   `json:"groupId"`
	UserIDs []string `json:"userIds"`
}

type AddGroupMembersResponse struct {
	Group *Group `json:"group"`
}

// LedgerService

// CreateExpenseRequest records an expense with an explicit entry set.
type CreateExpenseRequest struct {
	GroupID     string          `json:"groupId,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Entries     []Entry         `json:"entries"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// CreateEqualExpenseRequest records an expense paid by PaidBy and split
// equally between Participants.
type CreateEqualExpenseRequest struct {
	GroupID      string          `json:"groupId,omitempty"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	PaidBy       string          `json:"paidBy"`
	Participants []string        `json:"participants"`
}

type CreateEqualExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// CreateItemizedExpenseRequest records a bill split by item with tax
// distributed proportionally.
type CreateItemizedExpenseRequest struct {
	GroupID      string          `json:"groupId,omitempty"`
	Description  string          `json:"description"`
	Total        decimal.Decimal `json:"total"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	PaidBy       string          `json:"paidBy"`
	Participants []string        `json:"participants"`
	Items        []Item          `json:"items"`
}

type CreateItemizedExpenseResponse struct {
	Expense *Expense      `json:"expense"`
	Splits  []PersonSplit `json:"splits"`
}

// UpdateExpenseRequest replaces an expense's description, amount and
// entire entry set.
type UpdateExpenseRequest struct {
	ExpenseID   string          `json:"expenseId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Entries     []Entry         `json:"entries"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

// GetExpenseResponse includes the transfers that would settle this
// expense on its own.
type GetExpenseResponse struct {
	Expense *Expense   `json:"expense"`
	Debts   []Transfer `json:"debts"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

type ListExpensesRequest struct {
	GroupID string `json:"groupId"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// GetUserBalanceRequest asks for a user's overall position. An empty
// UserID means the caller.
type GetUserBalanceRequest struct {
	UserID string `json:"userId,omitempty"`
}

type GetUserBalanceResponse struct {
	UserID     string          `json:"userId"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	TotalOwed  decimal.Decimal `json:"totalOwed"`
	NetBalance decimal.Decimal `json:"netBalance"`
	Debts      []DebtDetail    `json:"debts"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupBalancesResponse struct {
	GroupID       string          `json:"groupId"`
	Members       []MemberBalance `json:"members"`
	Debts         []Transfer      `json:"debts"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
}

type GetSimplifiedDebtsRequest struct {
	GroupID string `json:"groupId"`
}

type GetSimplifiedDebtsResponse struct {
	Transfers []Transfer `json:"transfers"`
}

// SettleDebtRequest records a payment from DebtorID to CreditorID.
// An empty DebtorID means the caller.
type SettleDebtRequest struct {
	GroupID    string          `json:"groupId,omitempty"`
	DebtorID   string          `json:"debtorId,omitempty"`
	CreditorID string          `json:"creditorId"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
}

type SettleDebtResponse struct {
	Settlement *Settlement `json:"settlement"`
	Entries    []Entry     `json:"entries"`
}

// ListSettlementsRequest lists a group's settlements, or the caller's when
// GroupID is empty.
type ListSettlementsRequest struct {
	GroupID string `json:"groupId,omitempty"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

// ValidateLedgerRequest checks a group's expenses, or the whole ledger
// when GroupID is empty.
type ValidateLedgerRequest struct {
	GroupID string `json:"groupId,omitempty"`
}

type ValidateLedgerResponse struct {
	UnbalancedExpenseIDs []string `json:"unbalancedExpenseIds"`
}
