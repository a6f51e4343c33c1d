package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

const settlementColumns = `id, COALESCE(group_id, ''), debtor_id, creditor_id, amount::text,
	COALESCE(note, ''), expense_id, created_at, COALESCE(created_by, '')`

func (s *Store) RecordSettlement(ctx context.Context, expense *models.Expense, entries []models.LedgerEntry, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.NewString()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx pgx.Tx) error {
		if err := insertExpense(ctx, tx, expense, entries); err != nil {
			return err
		}
		settlement.ExpenseID = expense.ID

		_, err := tx.Exec(ctx,
			`INSERT INTO settlements (id, group_id, debtor_id, creditor_id, amount, note, expense_id, created_at, created_by)
			 VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)`,
			settlement.ID, nullString(settlement.GroupID), settlement.DebtorID, settlement.CreditorID,
			settlement.Amount.StringFixed(2), nullString(settlement.Note), settlement.ExpenseID,
			settlement.CreatedAt, nullString(settlement.CreatedBy),
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}
		return nil
	})
}

func (s *Store) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	return s.querySettlements(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE group_id = $1 ORDER BY created_at DESC, id`,
		groupID,
	)
}

func (s *Store) ListSettlementsByUser(ctx context.Context, userID string) ([]*models.Settlement, error) {
	return s.querySettlements(ctx,
		`SELECT `+settlementColumns+` FROM settlements
		  WHERE debtor_id = $1 OR creditor_id = $1 ORDER BY created_at DESC, id`,
		userID,
	)
}

func (s *Store) querySettlements(ctx context.Context, query string, args ...any) ([]*models.Settlement, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	settlements, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Settlement, error) {
		settlement := &models.Settlement{}
		var amount string
		if err := row.Scan(&settlement.ID, &settlement.GroupID, &settlement.DebtorID, &settlement.CreditorID,
			&amount, &settlement.Note, &settlement.ExpenseID, &settlement.CreatedAt, &settlement.CreatedBy); err != nil {
			return nil, err
		}
		var err error
		if settlement.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("settlement %s: invalid amount %q: %w", settlement.ID, amount, err)
		}
		return settlement, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan settlements: %w", err)
	}
	return settlements, nil
}
