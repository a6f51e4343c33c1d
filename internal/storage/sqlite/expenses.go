package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const entrySelect = `
	SELECT x.id, x.expense_id, COALESCE(e.group_id, ''), x.user_id, x.amount, x.kind
	FROM expense_entries x JOIN expenses e ON e.id = x.expense_id`

const entryOrder = ` ORDER BY e.created_at, e.id, x.kind, x.user_id, x.id`

// CreateExpense persists an expense and its entries atomically.
// The entries slice is updated in place with the assigned IDs.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense, entries []models.LedgerEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return insertExpense(ctx, tx, expense, entries)
	})
}

// ReplaceExpense updates an expense and replaces its entry set atomically.
func (s *SQLiteStore) ReplaceExpense(ctx context.Context, expense *models.Expense, entries []models.LedgerEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE expenses SET group_id = ?, description = ?, amount = ? WHERE id = ?",
			nullString(expense.GroupID), expense.Description, expense.Amount.StringFixed(2), expense.ID,
		)
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: group %s", storage.ErrNotFound, expense.GroupID)
		}
		if err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to check updated rows: %w", err)
		} else if n == 0 {
			return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expense.ID)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM expense_entries WHERE expense_id = ?", expense.ID); err != nil {
			return fmt.Errorf("failed to delete expense entries: %w", err)
		}
		return insertEntries(ctx, tx, expense, entries)
	})
}

// GetExpense retrieves an expense and its entries.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, []models.LedgerEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, COALESCE(group_id, ''), description, amount, is_settlement, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get expense: %w", err)
	}

	entries, err := s.queryEntries(ctx, entrySelect+" WHERE x.expense_id = ?"+entryOrder, expenseID)
	if err != nil {
		return nil, nil, err
	}
	return expense, entries, nil
}

// DeleteExpense removes an expense. Its entries and any settlement record
// pointing at it are removed by cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	return nil
}

// ListExpensesByGroup retrieves all expenses of a group.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(group_id, ''), description, amount, is_settlement, created_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// ListEntries retrieves every ledger entry.
func (s *SQLiteStore) ListEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	return s.queryEntries(ctx, entrySelect+entryOrder)
}

// ListEntriesByGroup retrieves the entries of a group's expenses.
func (s *SQLiteStore) ListEntriesByGroup(ctx context.Context, groupID string) ([]models.LedgerEntry, error) {
	return s.queryEntries(ctx, entrySelect+" WHERE e.group_id = ?"+entryOrder, groupID)
}

// ListEntriesByUser retrieves all entries of the expenses a user takes part in.
func (s *SQLiteStore) ListEntriesByUser(ctx context.Context, userID string) ([]models.LedgerEntry, error) {
	return s.queryEntries(ctx,
		entrySelect+" WHERE x.expense_id IN (SELECT expense_id FROM expense_entries WHERE user_id = ?)"+entryOrder,
		userID,
	)
}

func (s *SQLiteStore) queryEntries(ctx context.Context, query string, args ...any) ([]models.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var (
			entry models.LedgerEntry
			kind  string
		)
		if err := rows.Scan(&entry.ID, &entry.ExpenseID, &entry.GroupID, &entry.UserID, &entry.Amount, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if entry.Kind, err = models.ParseEntryKind(kind); err != nil {
			return nil, fmt.Errorf("entry %s: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return entries, nil
}

func insertExpense(ctx context.Context, tx *sql.Tx, expense *models.Expense, entries []models.LedgerEntry) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, amount, is_settlement, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		expense.ID, nullString(expense.GroupID), expense.Description, expense.Amount.StringFixed(2),
		expense.IsSettlement, expense.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: group %s", storage.ErrNotFound, expense.GroupID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return insertEntries(ctx, tx, expense, entries)
}

func insertEntries(ctx context.Context, tx *sql.Tx, expense *models.Expense, entries []models.LedgerEntry) error {
	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			entry.ID = uuid.New().String()
		}
		entry.ExpenseID = expense.ID
		entry.GroupID = expense.GroupID

		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_entries (id, expense_id, user_id, amount, kind) VALUES (?, ?, ?, ?, ?)",
			entry.ID, entry.ExpenseID, entry.UserID, entry.Amount.StringFixed(2), entry.Kind.String(),
		)
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: user %s", storage.ErrNotFound, entry.UserID)
		}
		if err != nil {
			return fmt.Errorf("failed to insert expense entry: %w", err)
		}
	}
	return nil
}

func scanExpense(row scanner) (*models.Expense, error) {
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
