// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a unique constraint would be violated.
	ErrConflict = errors.New("record already exists")
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Entries returned by the List methods carry the GroupID of their expense.
type Store interface {
	// CreateUser persists a new user. ID and CreatedAt are assigned when empty.
	// Returns ErrConflict if the email is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID returns ErrNotFound if no user has the ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail returns ErrNotFound if no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUsersByIDs returns the users that exist, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	UserExists(ctx context.Context, id string) (bool, error)

	// CreateGroup persists a group with its members.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns the group with its members, or ErrNotFound.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// ListGroups returns the groups userID belongs to, newest first.
	ListGroups(ctx context.Context, userID string) ([]*models.Group, error)

	// AddGroupMembers adds users to a group. Existing members are ignored.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error

	GroupExists(ctx context.Context, id string) (bool, error)

	// CreateExpense persists an expense and its entries in one transaction.
	// IDs and CreatedAt are assigned when empty; entries inherit the
	// expense's ID and GroupID.
	CreateExpense(ctx context.Context, expense *models.Expense, entries []models.LedgerEntry) error

	// ReplaceExpense updates an expense and swaps its entire entry set in one
	// transaction. Returns ErrNotFound if the expense does not exist.
	ReplaceExpense(ctx context.Context, expense *models.Expense, entries []models.LedgerEntry) error

	// GetExpense returns an expense with its entries, or ErrNotFound.
	GetExpense(ctx context.Context, id string) (*models.Expense, []models.LedgerEntry, error)

	// DeleteExpense removes an expense and its entries.
	DeleteExpense(ctx context.Context, id string) error

	// ListExpensesByGroup returns a group's expenses, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ListEntries returns every entry in the ledger.
	ListEntries(ctx context.Context) ([]models.LedgerEntry, error)

	// ListEntriesByGroup returns the entries of a group's expenses.
	ListEntriesByGroup(ctx context.Context, groupID string) ([]models.LedgerEntry, error)

	// ListEntriesByUser returns all entries of every expense userID takes
	// part in, including other users' entries on those expenses.
	ListEntriesByUser(ctx context.Context, userID string) ([]models.LedgerEntry, error)

	// RecordSettlement appends a settlement expense, its entries and the
	// settlement record in one transaction.
	RecordSettlement(ctx context.Context, expense *models.Expense, entries []models.LedgerEntry, settlement *models.Settlement) error

	// ListSettlementsByGroup returns a group's settlements, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// ListSettlementsByUser returns settlements userID paid or received, newest first.
	ListSettlementsByUser(ctx context.Context, userID string) ([]*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
