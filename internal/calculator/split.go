package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Share is one participant's portion of an expense.
type Share struct {
	UserID string
	Amount decimal.Decimal
}

// PersonSplit represents the calculated split for one person
type PersonSplit struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Item represents a single item on the bill
type Item struct {
	Description string
	Amount      decimal.Decimal
	AssignedTo  []string
}

// SplitEqually divides total between participants in cents. Each share is
// total/n truncated to cents; the cents left over go one each to the first
// participants, so shares differ by at most 0.01, are never negative and sum
// to total exactly.
func SplitEqually(total decimal.Decimal, participants []string) ([]Share, error) {
	if err := checkParticipants(participants); err != nil {
		return nil, err
	}
	if !total.IsPositive() || !IsCents(total) {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, total)
	}

	n := decimal.NewFromInt(int64(len(participants)))
	share := total.Div(n).Truncate(centPlaces)
	leftover := total.Sub(share.Mul(n)).Div(Epsilon).IntPart()

	shares := make([]Share, len(participants))
	for i, p := range participants {
		amount := share
		if int64(i) < leftover {
			amount = amount.Add(Epsilon)
		}
		shares[i] = Share{UserID: p, Amount: amount}
	}
	return shares, nil
}

// ExpenseEntries builds the entry set of an expense paid in full by payerID
// and owed according to shares.
func ExpenseEntries(expense models.Expense, payerID string, shares []Share) []models.LedgerEntry {
	entries := make([]models.LedgerEntry, 0, len(shares)+1)
	entries = append(entries, models.LedgerEntry{
		ExpenseID: expense.ID,
		GroupID:   expense.GroupID,
		UserID:    payerID,
		Amount:    expense.Amount,
		Kind:      models.EntryPaid,
	})
	for _, s := range shares {
		entries = append(entries, models.LedgerEntry{
			ExpenseID: expense.ID,
			GroupID:   expense.GroupID,
			UserID:    s.UserID,
			Amount:    s.Amount,
			Kind:      models.EntryOwes,
		})
	}
	return entries
}

// EqualExpenseEntries splits expense.Amount equally between participants and
// returns the resulting entry set with payerID as the sole payer.
func EqualExpenseEntries(expense models.Expense, payerID string, participants []string) ([]models.LedgerEntry, error) {
	shares, err := SplitEqually(expense.Amount, participants)
	if err != nil {
		return nil, err
	}
	return ExpenseEntries(expense, payerID, shares), nil
}

// CalculateSplit computes how much each person owes including proportional tax
// Based on the algorithm: person_total = person_subtotal × (1 + (total_tax / bill_subtotal))
//
// Totals are rounded to cents. The rounding residue goes to the first
// participant so the totals add up to billTotal.
func CalculateSplit(items []Item, billTotal, billSubtotal decimal.Decimal, participants []string) (map[string]*PersonSplit, error) {
	if billSubtotal.IsZero() {
		return nil, fmt.Errorf("%w: subtotal cannot be zero", ErrInvalidAmount)
	}
	if err := checkParticipants(participants); err != nil {
		return nil, err
	}
	if billTotal.LessThan(billSubtotal) {
		return nil, fmt.Errorf("%w: total %s is less than subtotal %s", ErrInvalidAmount, billTotal, billSubtotal)
	}

	tax := billTotal.Sub(billSubtotal)
	splits := make(map[string]*PersonSplit, len(participants))
	for _, p := range participants {
		splits[p] = &PersonSplit{}
	}

	// If no items, split total equally among all participants
	if len(items) == 0 {
		totals, err := SplitEqually(billTotal, participants)
		if err != nil {
			return nil, err
		}
		subtotals, err := SplitEqually(billSubtotal, participants)
		if err != nil {
			return nil, err
		}
		for i, p := range participants {
			splits[p].Subtotal = subtotals[i].Amount
			splits[p].Total = totals[i].Amount
			splits[p].Tax = totals[i].Amount.Sub(subtotals[i].Amount)
		}
		return splits, nil
	}

	for _, item := range items {
		if item.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: item %q has negative amount", ErrInvalidAmount, item.Description)
		}
		if len(item.AssignedTo) == 0 {
			continue
		}

		perPersonAmount := item.Amount.Div(decimal.NewFromInt(int64(len(item.AssignedTo))))
		for _, person := range item.AssignedTo {
			split, exists := splits[person]
			if !exists {
				return nil, fmt.Errorf("%w: item %q assigned to non-participant %s", ErrInvalidEntries, item.Description, person)
			}
			split.Subtotal = split.Subtotal.Add(perPersonAmount)
		}
	}

	taxRate := tax.Div(billSubtotal)
	sum := decimal.Zero
	for _, p := range participants {
		split := splits[p]
		split.Tax = RoundCents(split.Subtotal.Mul(taxRate))
		split.Subtotal = RoundCents(split.Subtotal)
		split.Total = split.Subtotal.Add(split.Tax)
		sum = sum.Add(split.Total)
	}

	// Sweep rounding residue only; a larger gap means items don't cover the subtotal.
	remainder := billTotal.Sub(sum)
	maxResidue := Epsilon.Mul(decimal.NewFromInt(int64(len(participants))))
	if !remainder.IsZero() && remainder.Abs().LessThan(maxResidue) {
		first := splits[participants[0]]
		first.Tax = first.Tax.Add(remainder)
		first.Total = first.Total.Add(remainder)
	}

	return splits, nil
}

// ItemizedShares orders the totals of splits by participants.
func ItemizedShares(splits map[string]*PersonSplit, participants []string) []Share {
	shares := make([]Share, 0, len(participants))
	for _, p := range participants {
		if split, ok := splits[p]; ok {
			shares = append(shares, Share{UserID: p, Amount: split.Total})
		}
	}
	return shares
}

func checkParticipants(participants []string) error {
	if len(participants) == 0 {
		return fmt.Errorf("%w: must have at least one participant", ErrInvalidEntries)
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p == "" {
			return fmt.Errorf("%w: empty participant id", ErrInvalidEntries)
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate participant %s", ErrInvalidEntries, p)
		}
		seen[p] = true
	}
	return nil
}
