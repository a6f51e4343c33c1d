package service

import (
	"context"
	"fmt"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

// SettleDebt records a payment from the debtor to the creditor. The caller
// must be one of the two. Payments larger than the current debt are refused.
func (s *LedgerService) SettleDebt(ctx context.Context, req *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error) {
	callerID := middleware.GetUserID(ctx)
	if callerID == "" {
		return nil, toConnectError(errUnauthenticated)
	}
	debtorID := req.Msg.DebtorID
	if debtorID == "" {
		debtorID = callerID
	}
	s.logger.Info("SettleDebt request received",
		"debtor_id", debtorID,
		"creditor_id", req.Msg.CreditorID,
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount.String(),
	)

	if callerID != debtorID && callerID != req.Msg.CreditorID {
		return nil, connect.NewError(connect.CodePermissionDenied,
			fmt.Errorf("%w: only the debtor or creditor can record a settlement", errNotParticipant))
	}
	var group *models.Group
	if req.Msg.GroupID != "" {
		var err error
		if group, err = memberGroup(ctx, s.store, req.Msg.GroupID); err != nil {
			return nil, toConnectError(err)
		}
	}

	result, err := s.settle(ctx, group, models.Settlement{
		GroupID:    req.Msg.GroupID,
		DebtorID:   debtorID,
		CreditorID: req.Msg.CreditorID,
		Amount:     req.Msg.Amount,
		Note:       strings.TrimSpace(req.Msg.Note),
		CreatedBy:  callerID,
	})
	if err != nil {
		s.metrics.SettlementRejected(settlementRejection(err))
		s.logger.Warn("SettleDebt rejected", "debtor_id", debtorID, "creditor_id", req.Msg.CreditorID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.SettlementRecorded()

	s.logger.Info("Settlement recorded",
		"settlement_id", result.Settlement.ID,
		"expense_id", result.Expense.ID,
	)
	return connect.NewResponse(&api.SettleDebtResponse{
		Settlement: toAPISettlement(&result.Settlement),
		Entries:    toAPIEntries(result.Entries),
	}), nil
}

// settle holds the pair lock across reading the debt and appending the
// settlement, so two concurrent payments cannot both pass the debt check.
// When group is set both users must belong to it.
func (s *LedgerService) settle(ctx context.Context, group *models.Group, req models.Settlement) (*calculator.SettlementResult, error) {
	unlock := s.locks.lock(req.DebtorID, req.CreditorID)
	defer unlock()

	entries, err := s.store.ListEntriesByUser(ctx, req.DebtorID)
	if err != nil {
		return nil, err
	}

	settler := &calculator.Settler{
		UserExists:  func(id string) (bool, error) { return s.store.UserExists(ctx, id) },
		GroupExists: func(id string) (bool, error) { return s.store.GroupExists(ctx, id) },
	}
	result, err := settler.Settle(req, entries)
	if err != nil {
		return nil, err
	}
	if group != nil && (!group.HasMember(req.DebtorID) || !group.HasMember(req.CreditorID)) {
		return nil, fmt.Errorf("%w: both users must be members of group %s", calculator.ErrInvalidEntries, group.ID)
	}

	if err := s.store.RecordSettlement(ctx, &result.Expense, result.Entries, &result.Settlement); err != nil {
		return nil, fmt.Errorf("failed to record settlement: %w", err)
	}
	return result, nil
}

// ListSettlements lists a group's settlements, or the caller's own when no
// group is given.
func (s *LedgerService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	callerID := middleware.GetUserID(ctx)
	if callerID == "" {
		return nil, toConnectError(errUnauthenticated)
	}

	var (
		settlements []*models.Settlement
		err         error
	)
	if req.Msg.GroupID != "" {
		if _, err := memberGroup(ctx, s.store, req.Msg.GroupID); err != nil {
			return nil, toConnectError(err)
		}
		settlements, err = s.store.ListSettlementsByGroup(ctx, req.Msg.GroupID)
	} else {
		settlements, err = s.store.ListSettlementsByUser(ctx, callerID)
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toAPISettlement(st)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}
