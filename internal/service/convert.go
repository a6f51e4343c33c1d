package service

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		MemberIDs: members,
		CreatedAt: g.CreatedAt,
	}
}

func toAPIEntries(entries []models.LedgerEntry) []api.Entry {
	out := make([]api.Entry, len(entries))
	for i, e := range entries {
		out[i] = api.Entry{
			ID:     e.ID,
			UserID: e.UserID,
			Amount: e.Amount,
			Type:   e.Kind.String(),
		}
	}
	return out
}

func toAPIExpense(e *models.Expense, entries []models.LedgerEntry) *api.Expense {
	return &api.Expense{
		ID:           e.ID,
		GroupID:      e.GroupID,
		Description:  e.Description,
		Amount:       e.Amount,
		IsSettlement: e.IsSettlement,
		CreatedAt:    e.CreatedAt,
		Entries:      toAPIEntries(entries),
	}
}

// fromAPIEntries converts request entries. Unknown types and amounts with
// sub-cent digits are rejected here, before any balance check.
func fromAPIEntries(in []api.Entry) ([]models.LedgerEntry, error) {
	entries := make([]models.LedgerEntry, len(in))
	for i, e := range in {
		kind, err := models.ParseEntryKind(e.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", calculator.ErrInvalidEntries, i, err)
		}
		if !calculator.IsCents(e.Amount) {
			return nil, fmt.Errorf("%w: entry %d amount %s", calculator.ErrInvalidAmount, i, e.Amount)
		}
		entries[i] = models.LedgerEntry{UserID: e.UserID, Amount: e.Amount, Kind: kind}
	}
	return entries, nil
}

func toAPITransfers(transfers []models.Transfer) []api.Transfer {
	out := make([]api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = api.Transfer{FromUserID: t.FromUserID, ToUserID: t.ToUserID, Amount: t.Amount}
	}
	return out
}

func toAPIMemberBalances(balances []models.MemberBalance) []api.MemberBalance {
	out := make([]api.MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = api.MemberBalance{
			UserID:     b.UserID,
			TotalPaid:  b.TotalPaid,
			TotalOwed:  b.TotalOwed,
			NetBalance: b.NetBalance,
		}
	}
	return out
}

func toAPIDebtDetails(details []models.DebtDetail) []api.DebtDetail {
	out := make([]api.DebtDetail, len(details))
	for i, d := range details {
		out[i] = api.DebtDetail{OtherUserID: d.OtherUserID, Amount: d.Amount, Type: d.Type}
	}
	return out
}

func toAPISettlement(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:         s.ID,
		GroupID:    s.GroupID,
		DebtorID:   s.DebtorID,
		CreditorID: s.CreditorID,
		Amount:     s.Amount,
		Note:       s.Note,
		ExpenseID:  s.ExpenseID,
		CreatedAt:  s.CreatedAt,
		CreatedBy:  s.CreatedBy,
	}
}

func fromAPIItems(items []api.Item) []calculator.Item {
	out := make([]calculator.Item, len(items))
	for i, item := range items {
		out[i] = calculator.Item{
			Description: item.Description,
			Amount:      item.Amount,
			AssignedTo:  item.AssignedTo,
		}
	}
	return out
}

// toAPISplits lists splits in participant order.
func toAPISplits(splits map[string]*calculator.PersonSplit, participants []string) []api.PersonSplit {
	out := make([]api.PersonSplit, 0, len(participants))
	for _, p := range participants {
		split, ok := splits[p]
		if !ok {
			continue
		}
		out = append(out, api.PersonSplit{
			UserID:   p,
			Subtotal: split.Subtotal,
			Tax:      split.Tax,
			Total:    split.Total,
		})
	}
	return out
}
