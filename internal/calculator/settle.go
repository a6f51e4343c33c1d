package calculator

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

// defaultSettlementNote is used in the settlement expense description when
// the request carries no note.
const defaultSettlementNote = "Debt payment"

// ExistsFunc reports whether an entity with the given ID exists.
type ExistsFunc func(id string) (bool, error)

// Settler validates settlement requests against the ledger and builds the
// entries that record them. It never writes anything.
type Settler struct {
	UserExists  ExistsFunc
	GroupExists ExistsFunc

	// NewID and Now default to uuid.NewString and time.Now.
	NewID func() string
	Now   func() time.Time
}

// SettlementResult is everything a store must append to record a settlement.
type SettlementResult struct {
	Expense    models.Expense
	Entries    []models.LedgerEntry
	Settlement models.Settlement
}

// Settle checks req against the pairwise balance between its debtor and
// creditor and, when the debtor owes at least req.Amount, returns the
// settlement expense with its two entries.
//
// Only entries in the settlement's own scope count: those of req.GroupID, or
// the ungrouped entries when req.GroupID is empty. A settlement always lands
// in the scope that produced the debt it pays.
//
// The debtor is recorded as having paid the amount and the creditor as owing
// it, so the debtor's balance rises and the creditor's falls by the amount.
func (s *Settler) Settle(req models.Settlement, entries []models.LedgerEntry) (*SettlementResult, error) {
	if !req.Amount.IsPositive() || !IsCents(req.Amount) {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, req.Amount)
	}

	if err := s.mustExist(s.UserExists, "user", req.DebtorID); err != nil {
		return nil, err
	}
	if err := s.mustExist(s.UserExists, "user", req.CreditorID); err != nil {
		return nil, err
	}
	if req.GroupID != "" {
		if err := s.mustExist(s.GroupExists, "group", req.GroupID); err != nil {
			return nil, err
		}
	}

	if req.DebtorID == req.CreditorID {
		return nil, fmt.Errorf("%w: user %s cannot settle with themselves", ErrNoSuchDebt, req.DebtorID)
	}

	position := PairwiseBalance(FilterByGroup(entries, req.GroupID), req.DebtorID, req.CreditorID)
	if !position.IsNegative() {
		return nil, fmt.Errorf("%w: %s does not owe %s%s", ErrNoSuchDebt, req.DebtorID, req.CreditorID, scopeSuffix(req.GroupID))
	}
	debt := position.Neg()
	if req.Amount.GreaterThan(debt) {
		return nil, fmt.Errorf("%w: amount %s, debt %s%s",
			ErrAmountExceedsDebt, req.Amount.StringFixed(centPlaces), debt.StringFixed(centPlaces), scopeSuffix(req.GroupID))
	}

	return s.build(req), nil
}

func scopeSuffix(groupID string) string {
	if groupID == "" {
		return " outside any group"
	}
	return " in group " + groupID
}

func (s *Settler) mustExist(exists ExistsFunc, kind, id string) error {
	if id == "" {
		return fmt.Errorf("%w: %s id is empty", ErrNotFound, kind)
	}
	if exists == nil {
		return nil
	}
	ok, err := exists(id)
	if err != nil {
		return fmt.Errorf("failed to look up %s %s: %w", kind, id, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return nil
}

func (s *Settler) build(req models.Settlement) *SettlementResult {
	newID := s.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	now := s.Now
	if now == nil {
		now = time.Now
	}
	createdAt := now().Unix()

	note := req.Note
	if note == "" {
		note = defaultSettlementNote
	}

	expense := models.Expense{
		ID:           newID(),
		GroupID:      req.GroupID,
		Description:  "Settlement: " + note,
		Amount:       req.Amount,
		IsSettlement: true,
		CreatedAt:    createdAt,
	}

	entries := []models.LedgerEntry{
		{
			ID:        newID(),
			ExpenseID: expense.ID,
			GroupID:   expense.GroupID,
			UserID:    req.DebtorID,
			Amount:    req.Amount,
			Kind:      models.EntryPaid,
		},
		{
			ID:        newID(),
			ExpenseID: expense.ID,
			GroupID:   expense.GroupID,
			UserID:    req.CreditorID,
			Amount:    req.Amount,
			Kind:      models.EntryOwes,
		},
	}

	settlement := req
	if settlement.ID == "" {
		settlement.ID = newID()
	}
	settlement.ExpenseID = expense.ID
	settlement.CreatedAt = createdAt

	return &SettlementResult{
		Expense:    expense,
		Entries:    entries,
		Settlement: settlement,
	}
}
