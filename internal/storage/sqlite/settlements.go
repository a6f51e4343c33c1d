package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

const settlementColumns = `id, COALESCE(group_id, ''), debtor_id, creditor_id, amount, note, expense_id, created_at, created_by`

// RecordSettlement persists a settlement expense, its entries and the
// settlement record in a single transaction.
func (s *SQLiteStore) RecordSettlement(ctx context.Context, expense *models.Expense, entries []models.LedgerEntry, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertExpense(ctx, tx, expense, entries); err != nil {
			return err
		}
		settlement.ExpenseID = expense.ID

		_, err := tx.ExecContext(ctx,
			`INSERT INTO settlements (id, group_id, debtor_id, creditor_id, amount, note, expense_id, created_at, created_by)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
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

// ListSettlementsByGroup retrieves all settlements for a group.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	return s.querySettlements(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE group_id = ? ORDER BY created_at DESC, id`,
		groupID,
	)
}

// ListSettlementsByUser retrieves all settlements a user paid or received.
func (s *SQLiteStore) ListSettlementsByUser(ctx context.Context, userID string) ([]*models.Settlement, error) {
	return s.querySettlements(ctx,
		`SELECT `+settlementColumns+` FROM settlements
		 WHERE debtor_id = ? OR creditor_id = ? ORDER BY created_at DESC, id`,
		userID, userID,
	)
}

func (s *SQLiteStore) querySettlements(ctx context.Context, query string, args ...any) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var note, createdBy sql.NullString

		if err := rows.Scan(&settlement.ID, &settlement.GroupID, &settlement.DebtorID, &settlement.CreditorID,
			&settlement.Amount, &note, &settlement.ExpenseID, &settlement.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlement.Note = note.String
		settlement.CreatedBy = createdBy.String

		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}
