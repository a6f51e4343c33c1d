package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const expenseColumns = `id, COALESCE(group_id, ''), description, amount::text, is_settlement, created_at`

const entrySelect = `
	SELECT x.id, x.expense_id, COALESCE(e.group_id, ''), x.user_id, x.amount::text, x.kind
	  FROM expense_entries x JOIN expenses e ON e.id = x.expense_id`

const entryOrder = ` ORDER BY e.created_at, e.id, x.kind, x.user_id, x.id`

func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense, entries []models.LedgerEntry) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		return insertExpense(ctx, tx, expense, entries)
	})
}

func (s *Store) ReplaceExpense(ctx context.Context, expense *models.Expense, entries []models.LedgerEntry) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE expenses SET group_id = $1, description = $2, amount = $3::numeric WHERE id = $4`,
			nullString(expense.GroupID), expense.Description, expense.Amount.StringFixed(2), expense.ID,
		)
		if hasCode(err, codeForeignKeyViolation) {
			return fmt.Errorf("%w: group %s", storage.ErrNotFound, expense.GroupID)
		}
		if err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expense.ID)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM expense_entries WHERE expense_id = $1`, expense.ID); err != nil {
			return fmt.Errorf("failed to delete expense entries: %w", err)
		}
		return insertEntries(ctx, tx, expense, entries)
	})
}

func (s *Store) GetExpense(ctx context.Context, id string) (*models.Expense, []models.LedgerEntry, error) {
	expense, err := scanExpense(s.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: expense %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get expense: %w", err)
	}

	entries, err := s.queryEntries(ctx, entrySelect+` WHERE x.expense_id = $1`+entryOrder, id)
	if err != nil {
		return nil, nil, err
	}
	return expense, entries, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s", storage.ErrNotFound, id)
	}
	return nil
}

func (s *Store) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE group_id = $1 ORDER BY created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	expenses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Expense, error) {
		return scanExpense(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan expenses: %w", err)
	}
	return expenses, nil
}

func (s *Store) ListEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	return s.queryEntries(ctx, entrySelect+entryOrder)
}

func (s *Store) ListEntriesByGroup(ctx context.Context, groupID string) ([]models.LedgerEntry, error) {
	return s.queryEntries(ctx, entrySelect+` WHERE e.group_id = $1`+entryOrder, groupID)
}

func (s *Store) ListEntriesByUser(ctx context.Context, userID string) ([]models.LedgerEntry, error) {
	return s.queryEntries(ctx,
		entrySelect+` WHERE x.expense_id IN (SELECT expense_id FROM expense_entries WHERE user_id = $1)`+entryOrder,
		userID,
	)
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]models.LedgerEntry, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.LedgerEntry, error) {
		var (
			entry        models.LedgerEntry
			amount, kind string
		)
		if err := row.Scan(&entry.ID, &entry.ExpenseID, &entry.GroupID, &entry.UserID, &amount, &kind); err != nil {
			return entry, err
		}
		var err error
		if entry.Amount, err = decimal.NewFromString(amount); err != nil {
			return entry, fmt.Errorf("entry %s: invalid amount %q: %w", entry.ID, amount, err)
		}
		if entry.Kind, err = models.ParseEntryKind(kind); err != nil {
			return entry, fmt.Errorf("entry %s: %w", entry.ID, err)
		}
		return entry, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan entries: %w", err)
	}
	return entries, nil
}

func insertExpense(ctx context.Context, q querier, expense *models.Expense, entries []models.LedgerEntry) error {
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	_, err := q.Exec(ctx,
		`INSERT INTO expenses (id, group_id, description, amount, is_settlement, created_at)
		 VALUES ($1, $2, $3, $4::numeric, $5, $6)`,
		expense.ID, nullString(expense.GroupID), expense.Description, expense.Amount.StringFixed(2),
		expense.IsSettlement, expense.CreatedAt,
	)
	if hasCode(err, codeForeignKeyViolation) {
		return fmt.Errorf("%w: group %s", storage.ErrNotFound, expense.GroupID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return insertEntries(ctx, q, expense, entries)
}

func insertEntries(ctx context.Context, q querier, expense *models.Expense, entries []models.LedgerEntry) error {
	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		entry.ExpenseID = expense.ID
		entry.GroupID = expense.GroupID

		_, err := q.Exec(ctx,
			`INSERT INTO expense_entries (id, expense_id, user_id, amount, kind) VALUES ($1, $2, $3, $4::numeric, $5)`,
			entry.ID, entry.ExpenseID, entry.UserID, entry.Amount.StringFixed(2), entry.Kind.String(),
		)
		if hasCode(err, codeForeignKeyViolation) {
			return fmt.Errorf("%w: user %s", storage.ErrNotFound, entry.UserID)
		}
		if err != nil {
			return fmt.Errorf("failed to insert expense entry: %w", err)
		}
	}
	return nil
}

func scanExpense(row pgx.Row) (*models.Expense, error) {
	expense := &models.Expense{}
	var amount string
	if err := row.Scan(&expense.ID, &expense.GroupID, &expense.Description, &amount, &expense.IsSettlement, &expense.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	expense.Amount = parsed
	return expense, nil
}
