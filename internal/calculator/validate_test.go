package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/splitledger/internal/models"
)

func TestValidateExpenseBalance(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.LedgerEntry
		want    bool
	}{
		{
			name:    "equal split",
			entries: dinnerEntries(),
			want:    true,
		},
		{
			name: "ten split three ways with remainder",
			entries: []models.LedgerEntry{
				paid("e", "A", "10.00"),
				owes("e", "A", "3.34"),
				owes("e", "B", "3.33"),
				owes("e", "C", "3.33"),
			},
			want: true,
		},
		{
			name: "remainder dropped",
			entries: []models.LedgerEntry{
				paid("e", "A", "10.00"),
				owes("e", "A", "3.33"),
				owes("e", "B", "3.33"),
				owes("e", "C", "3.33"),
			},
			want: false,
		},
		{
			name:    "sub-epsilon drift",
			entries: []models.LedgerEntry{paid("e", "A", "10.000"), owes("e", "B", "9.995")},
			want:    true,
		},
		{
			name:    "empty",
			entries: nil,
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateExpenseBalance(tt.entries))
		})
	}
}

func TestCheckExpense(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.LedgerEntry
		wantErr error
	}{
		{name: "balanced", entries: dinnerEntries()},
		{name: "empty", entries: nil, wantErr: ErrInvalidEntries},
		{
			name:    "unbalanced",
			entries: []models.LedgerEntry{paid("e", "A", "30.00"), owes("e", "B", "10.00")},
			wantErr: ErrUnbalancedExpense,
		},
		{
			name:    "negative amount",
			entries: []models.LedgerEntry{paid("e", "A", "-10.00"), owes("e", "B", "-10.00")},
			wantErr: ErrInvalidEntries,
		},
		{
			name:    "mixed expenses",
			entries: []models.LedgerEntry{paid("e1", "A", "10.00"), owes("e2", "B", "10.00")},
			wantErr: ErrInvalidEntries,
		},
		{
			name:    "no owes side",
			entries: []models.LedgerEntry{paid("e", "A", "10.00")},
			wantErr: ErrInvalidEntries,
		},
		{
			name: "unknown kind",
			entries: []models.LedgerEntry{
				paid("e", "A", "10.00"),
				{ExpenseID: "e", UserID: "B", Amount: dec("10.00"), Kind: models.EntryKind(9)},
			},
			wantErr: ErrInvalidEntries,
		},
		{
			name:    "missing user",
			entries: []models.LedgerEntry{paid("e", "A", "10.00"), owes("e", "", "10.00")},
			wantErr: ErrInvalidEntries,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckExpense(tt.entries)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationFailure(err))
		})
	}
}

func TestValidateLedger(t *testing.T) {
	entries := append(dinnerEntries(),
		paid("z-bad", "A", "5.00"), owes("z-bad", "B", "4.00"),
		paid("a-bad", "C", "1.00"),
	)
	assert.Equal(t, []string{"a-bad", "z-bad"}, ValidateLedger(entries))
	assert.Empty(t, ValidateLedger(dinnerEntries()))
}
