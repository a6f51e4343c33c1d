package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// LedgerService implements the Connect LedgerService: expenses, balances,
// debt simplification and settlements.
type LedgerService struct {
	apiconnect.UnimplementedLedgerServiceHandler
	store   storage.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	locks   *pairLocks
}

// NewLedgerService creates a LedgerService. m may be nil.
func NewLedgerService(store storage.Store, logger *slog.Logger, m *metrics.Metrics) *LedgerService {
	return &LedgerService{
		store:   store,
		logger:  logger,
		metrics: m,
		locks:   newPairLocks(),
	}
}

// CreateExpense records an expense with an explicit entry set.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	s.logger.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"entries_count", len(req.Msg.Entries),
	)

	entries, err := fromAPIEntries(req.Msg.Entries)
	if err != nil {
		return nil, toConnectError(err)
	}
	expense := &models.Expense{
		GroupID:     req.Msg.GroupID,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
	}
	if err := s.saveExpense(ctx, expense, entries); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense, entries)}), nil
}

// CreateEqualExpense records an expense paid by one user and split equally.
func (s *LedgerService) CreateEqualExpense(ctx context.Context, req *connect.Request[api.CreateEqualExpenseRequest]) (*connect.Response[api.CreateEqualExpenseResponse], error) {
	s.logger.Info("CreateEqualExpense request received",
		"group_id", req.Msg.GroupID,
		"participants_count", len(req.Msg.Participants),
	)

	expense := &models.Expense{
		GroupID:     req.Msg.GroupID,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
	}
	if req.Msg.PaidBy == "" {
		return nil, toConnectError(fmt.Errorf("%w: paidBy", errMissingField))
	}
	entries, err := calculator.EqualExpenseEntries(*expense, req.Msg.PaidBy, req.Msg.Participants)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.saveExpense(ctx, expense, entries); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CreateEqualExpenseResponse{Expense: toAPIExpense(expense, entries)}), nil
}

// CreateItemizedExpense records a bill split by item with proportional tax.
func (s *LedgerService) CreateItemizedExpense(ctx context.Context, req *connect.Request[api.CreateItemizedExpenseRequest]) (*connect.Response[api.CreateItemizedExpenseResponse], error) {
	s.logger.Info("CreateItemizedExpense request received",
		"group_id", req.Msg.GroupID,
		"items_count", len(req.Msg.Items),
		"participants_count", len(req.Msg.Participants),
	)

	if req.Msg.PaidBy == "" {
		return nil, toConnectError(fmt.Errorf("%w: paidBy", errMissingField))
	}
	splits, err := calculator.CalculateSplit(fromAPIItems(req.Msg.Items), req.Msg.Total, req.Msg.Subtotal, req.Msg.Participants)
	if err != nil {
		s.logger.Warn("CalculateSplit failed", "error", err)
		return nil, toConnectError(err)
	}

	expense := &models.Expense{
		GroupID:     req.Msg.GroupID,
		Description: req.Msg.Description,
		Amount:      req.Msg.Total,
	}
	entries := calculator.ExpenseEntries(*expense, req.Msg.PaidBy, calculator.ItemizedShares(splits, req.Msg.Participants))
	if err := s.saveExpense(ctx, expense, entries); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CreateItemizedExpenseResponse{
		Expense: toAPIExpense(expense, entries),
		Splits:  toAPISplits(splits, req.Msg.Participants),
	}), nil
}

// UpdateExpense replaces an expense's description, amount and entry set.
// The group of an expense never changes.
func (s *LedgerService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	s.logger.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseID)

	existing, existingEntries, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.authorizeExpense(ctx, existing, existingEntries); err != nil {
		return nil, toConnectError(err)
	}
	if existing.IsSettlement {
		return nil, toConnectError(fmt.Errorf("%w: %s", errSettlementImmutable, existing.ID))
	}

	entries, err := fromAPIEntries(req.Msg.Entries)
	if err != nil {
		return nil, toConnectError(err)
	}
	expense := &models.Expense{
		ID:          existing.ID,
		GroupID:     existing.GroupID,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		CreatedAt:   existing.CreatedAt,
	}
	if err := s.checkExpense(ctx, expense, entries); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.ReplaceExpense(ctx, expense, entries); err != nil {
		s.logger.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense updated", "expense_id", expense.ID)
	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense, entries)}), nil
}

// GetExpense returns an expense, its entries and the transfers that would
// settle it on its own.
func (s *LedgerService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	expense, entries, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		s.logger.Warn("GetExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}
	if err := s.authorizeExpense(ctx, expense, entries); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{
		Expense: toAPIExpense(expense, entries),
		Debts:   toAPITransfers(calculator.ExpenseDebts(entries)),
	}), nil
}

// DeleteExpense removes an expense and its entries. Settlements stay.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	s.logger.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, entries, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.authorizeExpense(ctx, expense, entries); err != nil {
		return nil, toConnectError(err)
	}
	if expense.IsSettlement {
		return nil, toConnectError(fmt.Errorf("%w: %s", errSettlementImmutable, expense.ID))
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		s.logger.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.logger.Info("Expense deleted", "expense_id", expense.ID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpenses returns a group's expenses with their entries, newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	entries, err := s.store.ListEntriesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	byExpense := make(map[string][]models.LedgerEntry, len(expenses))
	for _, e := range entries {
		byExpense[e.ExpenseID] = append(byExpense[e.ExpenseID], e)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e, byExpense[e.ID])
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// GetUserBalance reports the caller's totals and their position against
// every user they share expenses with.
func (s *LedgerService) GetUserBalance(ctx context.Context, req *connect.Request[api.GetUserBalanceRequest]) (*connect.Response[api.GetUserBalanceResponse], error) {
	callerID := middleware.GetUserID(ctx)
	if callerID == "" {
		return nil, toConnectError(errUnauthenticated)
	}
	userID := req.Msg.UserID
	if userID == "" {
		userID = callerID
	}
	if userID != callerID {
		return nil, connect.NewError(connect.CodePermissionDenied, errors.New("balances of other users are private"))
	}

	entries, err := s.store.ListEntriesByUser(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.GetUserBalanceResponse{
		UserID: userID,
		Debts:  toAPIDebtDetails(calculator.DebtDetails(entries, userID)),
	}
	for _, m := range calculator.MemberTotals(entries) {
		if m.UserID == userID {
			resp.TotalPaid, resp.TotalOwed, resp.NetBalance = m.TotalPaid, m.TotalOwed, m.NetBalance
		}
	}
	return connect.NewResponse(resp), nil
}

// GetGroupBalances reports every member's totals, the simplified transfers
// that settle the group and the total spent excluding settlements.
func (s *LedgerService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupID
	s.logger.Info("GetGroupBalances request received", "group_id", groupID)

	group, err := memberGroup(ctx, s.store, groupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	entries, err := s.store.ListEntriesByGroup(ctx, groupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	total := decimal.Zero
	for _, e := range expenses {
		if !e.IsSettlement {
			total = total.Add(e.Amount)
		}
	}

	transfers := calculator.SimplifyGroup(entries, groupID)
	s.metrics.TransfersSuggested(len(transfers))

	return connect.NewResponse(&api.GetGroupBalancesResponse{
		GroupID:       groupID,
		Members:       toAPIMemberBalances(withIdleMembers(calculator.MemberTotals(entries), group.Members)),
		Debts:         toAPITransfers(transfers),
		TotalExpenses: total,
	}), nil
}

// GetSimplifiedDebts returns the transfers that settle a group.
func (s *LedgerService) GetSimplifiedDebts(ctx context.Context, req *connect.Request[api.GetSimplifiedDebtsRequest]) (*connect.Response[api.GetSimplifiedDebtsResponse], error) {
	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}
	entries, err := s.store.ListEntriesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	transfers := calculator.SimplifyGroup(entries, req.Msg.GroupID)
	s.metrics.TransfersSuggested(len(transfers))
	return connect.NewResponse(&api.GetSimplifiedDebtsResponse{Transfers: toAPITransfers(transfers)}), nil
}

// ValidateLedger lists the expenses whose entries do not balance, within a
// group or, without one, among the caller's own expenses.
func (s *LedgerService) ValidateLedger(ctx context.Context, req *connect.Request[api.ValidateLedgerRequest]) (*connect.Response[api.ValidateLedgerResponse], error) {
	var (
		entries []models.LedgerEntry
		err     error
	)
	if req.Msg.GroupID != "" {
		if _, err := memberGroup(ctx, s.store, req.Msg.GroupID); err != nil {
			return nil, toConnectError(err)
		}
		entries, err = s.store.ListEntriesByGroup(ctx, req.Msg.GroupID)
	} else {
		callerID := middleware.GetUserID(ctx)
		if callerID == "" {
			return nil, toConnectError(errUnauthenticated)
		}
		entries, err = s.store.ListEntriesByUser(ctx, callerID)
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	unbalanced := calculator.ValidateLedger(entries)
	if len(unbalanced) > 0 {
		s.logger.Warn("Unbalanced expenses found", "group_id", req.Msg.GroupID, "count", len(unbalanced))
	}
	return connect.NewResponse(&api.ValidateLedgerResponse{UnbalancedExpenseIDs: unbalanced}), nil
}

// saveExpense validates and persists a new expense.
func (s *LedgerService) saveExpense(ctx context.Context, expense *models.Expense, entries []models.LedgerEntry) error {
	if err := s.checkExpense(ctx, expense, entries); err != nil {
		return err
	}
	if err := s.store.CreateExpense(ctx, expense, entries); err != nil {
		s.logger.Error("CreateExpense failed", "error", err)
		return err
	}
	s.logger.Info("Expense created", "expense_id", expense.ID, "group_id", expense.GroupID)
	return nil
}

// checkExpense rejects an expense before anything is written: the entry set
// must balance, the amount must match what was paid, and the caller must be
// allowed to write it.
func (s *LedgerService) checkExpense(ctx context.Context, expense *models.Expense, entries []models.LedgerEntry) error {
	callerID := middleware.GetUserID(ctx)
	if callerID == "" {
		return errUnauthenticated
	}
	expense.Description = strings.TrimSpace(expense.Description)
	if expense.Description == "" {
		return fmt.Errorf("%w: description", errMissingField)
	}
	if !expense.Amount.IsPositive() || !calculator.IsCents(expense.Amount) {
		return fmt.Errorf("%w: expense amount %s", calculator.ErrInvalidAmount, expense.Amount)
	}

	if err := calculator.CheckExpense(entries); err != nil {
		if errors.Is(err, calculator.ErrUnbalancedExpense) {
			s.metrics.UnbalancedExpenseRejected()
		}
		s.logger.Warn("Expense rejected", "error", err)
		return err
	}
	if paid, _ := calculator.ExpenseTotals(entries); !paid.Equal(expense.Amount) {
		return fmt.Errorf("%w: amount %s does not match paid total %s",
			calculator.ErrInvalidEntries, expense.Amount.StringFixed(2), paid.StringFixed(2))
	}

	if expense.GroupID == "" {
		if !involves(entries, callerID) {
			return errNotParticipant
		}
		return nil
	}
	group, err := memberGroup(ctx, s.store, expense.GroupID)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !group.HasMember(e.UserID) {
			return fmt.Errorf("%w: user %s is not a member of group %s", calculator.ErrInvalidEntries, e.UserID, group.ID)
		}
	}
	return nil
}

// authorizeExpense lets group members see group expenses and participants
// see the rest.
func (s *LedgerService) authorizeExpense(ctx context.Context, expense *models.Expense, entries []models.LedgerEntry) error {
	callerID := middleware.GetUserID(ctx)
	if callerID == "" {
		return errUnauthenticated
	}
	if expense.GroupID != "" {
		_, err := memberGroup(ctx, s.store, expense.GroupID)
		return err
	}
	if !involves(entries, callerID) {
		return errNotParticipant
	}
	return nil
}

func involves(entries []models.LedgerEntry, userID string) bool {
	for _, e := range entries {
		if e.UserID == userID {
			return true
		}
	}
	return false
}

// withIdleMembers adds zero rows for members without entries, keeping the
// result sorted by user ID.
func withIdleMembers(totals []models.MemberBalance, members []string) []models.MemberBalance {
	present := make(map[string]bool, len(totals))
	for _, t := range totals {
		present[t.UserID] = true
	}
	for _, m := range members {
		if !present[m] {
			totals = append(totals, models.MemberBalance{UserID: m})
		}
	}
	slices.SortFunc(totals, func(a, b models.MemberBalance) int {
		return strings.Compare(a.UserID, b.UserID)
	})
	return totals
}
