package service

import (
	"context"
	"slices"
	"sync"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

type ledgerFixture struct {
	*testServer
	alice, bob, carol, mallory string
	groupID                    string
}

// newLedgerFixture creates alice, bob and carol in one group plus mallory
// outside it.
func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	ts := setupTestServer(t)
	ids := ts.users(t, "alice", "bob", "carol", "mallory")
	f := &ledgerFixture{testServer: ts, alice: ids[0], bob: ids[1], carol: ids[2], mallory: ids[3]}

	resp, err := ts.groups.CreateGroup(context.Background(), as(f.alice, &api.CreateGroupRequest{
		Name:      "Trip",
		MemberIDs: []string{f.bob, f.carol},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	f.groupID = resp.Msg.Group.ID
	return f
}

// dinner records alice paying 30.00 split equally three ways.
func (f *ledgerFixture) dinner(t *testing.T) *api.Expense {
	t.Helper()
	resp, err := f.ledger.CreateEqualExpense(context.Background(), as(f.alice, &api.CreateEqualExpenseRequest{
		GroupID:      f.groupID,
		Description:  "Dinner",
		Amount:       dec("30.00"),
		PaidBy:       f.alice,
		Participants: []string{f.alice, f.bob, f.carol},
	}))
	if err != nil {
		t.Fatalf("CreateEqualExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

func (f *ledgerFixture) netBalances(t *testing.T) map[string]string {
	t.Helper()
	resp, err := f.ledger.GetGroupBalances(context.Background(), as(f.alice, &api.GetGroupBalancesRequest{GroupID: f.groupID}))
	if err != nil {
		t.Fatalf("GetGroupBalances failed: %v", err)
	}
	out := make(map[string]string, len(resp.Msg.Members))
	for _, m := range resp.Msg.Members {
		out[m.UserID] = m.NetBalance.StringFixed(2)
	}
	return out
}

func TestGroupBalances(t *testing.T) {
	f := newLedgerFixture(t)
	expense := f.dinner(t)

	if len(expense.Entries) != 4 {
		t.Fatalf("expected 4 entries (1 paid + 3 owed), got %d", len(expense.Entries))
	}

	resp, err := f.ledger.GetGroupBalances(context.Background(), as(f.bob, &api.GetGroupBalancesRequest{GroupID: f.groupID}))
	if err != nil {
		t.Fatalf("GetGroupBalances failed: %v", err)
	}

	if got := resp.Msg.TotalExpenses.StringFixed(2); got != "30.00" {
		t.Errorf("total expenses = %s, want 30.00", got)
	}
	want := map[string]string{f.alice: "20.00", f.bob: "-10.00", f.carol: "-10.00"}
	for _, m := range resp.Msg.Members {
		if m.NetBalance.StringFixed(2) != want[m.UserID] {
			t.Errorf("net balance of %s = %s, want %s", m.UserID, m.NetBalance, want[m.UserID])
		}
	}
	if len(resp.Msg.Debts) != 2 {
		t.Fatalf("expected 2 transfers, got %+v", resp.Msg.Debts)
	}
	for _, d := range resp.Msg.Debts {
		if d.ToUserID != f.alice || d.Amount.StringFixed(2) != "10.00" {
			t.Errorf("unexpected transfer %+v", d)
		}
	}

	simplified, err := f.ledger.GetSimplifiedDebts(context.Background(), as(f.carol, &api.GetSimplifiedDebtsRequest{GroupID: f.groupID}))
	if err != nil {
		t.Fatalf("GetSimplifiedDebts failed: %v", err)
	}
	if len(simplified.Msg.Transfers) != 2 {
		t.Errorf("expected 2 simplified transfers, got %d", len(simplified.Msg.Transfers))
	}

	_, err = f.ledger.GetGroupBalances(context.Background(), as(f.mallory, &api.GetGroupBalancesRequest{GroupID: f.groupID}))
	wantCode(t, err, connect.CodePermissionDenied)
}

func TestGetGroupBalances_IdleMembers(t *testing.T) {
	f := newLedgerFixture(t)

	balances := f.netBalances(t)
	if len(balances) != 3 {
		t.Fatalf("expected a row per member, got %v", balances)
	}
	for user, net := range balances {
		if net != "0.00" {
			t.Errorf("net balance of %s = %s, want 0.00", user, net)
		}
	}
}

func TestCreateExpense(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	entries := func(paid, owedBob, owedCarol string) []api.Entry {
		return []api.Entry{
			{UserID: f.alice, Amount: dec(paid), Type: api.EntryTypePaidBy},
			{UserID: f.bob, Amount: dec(owedBob), Type: api.EntryTypeHeadToPay},
			{UserID: f.carol, Amount: dec(owedCarol), Type: api.EntryTypeHeadToPay},
		}
	}

	t.Run("balanced", func(t *testing.T) {
		resp, err := f.ledger.CreateExpense(ctx, as(f.alice, &api.CreateExpenseRequest{
			GroupID:     f.groupID,
			Description: "Taxi",
			Amount:      dec("16.00"),
			Entries:     entries("16.00", "6.00", "10.00"),
		}))
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		for _, e := range resp.Msg.Expense.Entries {
			if e.ID == "" {
				t.Error("expected entry IDs to be assigned")
			}
		}
	})

	tests := []struct {
		name   string
		caller string
		req    *api.CreateExpenseRequest
		code   connect.Code
	}{
		{
			name:   "unbalanced",
			caller: f.alice,
			req:    &api.CreateExpenseRequest{GroupID: f.groupID, Description: "Bad", Amount: dec("16.00"), Entries: entries("16.00", "6.00", "9.00")},
			code:   connect.CodeInvalidArgument,
		},
		{
			name:   "amount differs from paid total",
			caller: f.alice,
			req:    &api.CreateExpenseRequest{GroupID: f.groupID, Description: "Bad", Amount: dec("20.00"), Entries: entries("16.00", "6.00", "10.00")},
			code:   connect.CodeInvalidArgument,
		},
		{
			name:   "unknown entry type",
			caller: f.alice,
			req: &api.CreateExpenseRequest{GroupID: f.groupID, Description: "Bad", Amount: dec("5.00"), Entries: []api.Entry{
				{UserID: f.alice, Amount: dec("5.00"), Type: "GIFT"},
			}},
			code: connect.CodeInvalidArgument,
		},
		{
			name:   "sub-cent amount",
			caller: f.alice,
			req:    &api.CreateExpenseRequest{GroupID: f.groupID, Description: "Bad", Amount: dec("16.00"), Entries: entries("16.00", "6.005", "9.995")},
			code:   connect.CodeInvalidArgument,
		},
		{
			name:   "entry for non-member",
			caller: f.alice,
			req: &api.CreateExpenseRequest{GroupID: f.groupID, Description: "Bad", Amount: dec("5.00"), Entries: []api.Entry{
				{UserID: f.alice, Amount: dec("5.00"), Type: api.EntryTypePaidBy},
				{UserID: f.mallory, Amount: dec("5.00"), Type: api.EntryTypeHeadToPay},
			}},
			code: connect.CodeInvalidArgument,
		},
		{
			name:   "caller outside group",
			caller: f.mallory,
			req:    &api.CreateExpenseRequest{GroupID: f.groupID, Description: "Sneaky", Amount: dec("16.00"), Entries: entries("16.00", "6.00", "10.00")},
			code:   connect.CodePermissionDenied,
		},
		{
			name:   "missing description",
			caller: f.alice,
			req:    &api.CreateExpenseRequest{GroupID: f.groupID, Amount: dec("16.00"), Entries: entries("16.00", "6.00", "10.00")},
			code:   connect.CodeInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.CreateExpense(ctx, as(tt.caller, tt.req))
			wantCode(t, err, tt.code)
		})
	}

	if got := scrape(t, f.metrics, "splitledger_unbalanced_expenses_rejected_total"); got != 1 {
		t.Errorf("unbalanced rejections = %v, want 1", got)
	}

	// Only the balanced expense was stored.
	list, err := f.ledger.ListExpenses(ctx, as(f.alice, &api.ListExpensesRequest{GroupID: f.groupID}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list.Msg.Expenses) != 1 {
		t.Errorf("expected 1 stored expense, got %d", len(list.Msg.Expenses))
	}

	report, err := f.ledger.ValidateLedger(ctx, as(f.alice, &api.ValidateLedgerRequest{GroupID: f.groupID}))
	if err != nil {
		t.Fatalf("ValidateLedger failed: %v", err)
	}
	if len(report.Msg.UnbalancedExpenseIDs) != 0 {
		t.Errorf("ledger has unbalanced expenses: %v", report.Msg.UnbalancedExpenseIDs)
	}
}

func TestValidateLedger_CallerScope(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	// Written straight to the store: the RPCs refuse unbalanced expenses.
	broken := func(t *testing.T, payer, debtor string) string {
		t.Helper()
		expense := &models.Expense{Description: "Broken", Amount: dec("20.00")}
		entries := []models.LedgerEntry{
			{UserID: payer, Amount: dec("20.00"), Kind: models.EntryPaid},
			{UserID: debtor, Amount: dec("5.00"), Kind: models.EntryOwes},
		}
		if err := f.store.CreateExpense(ctx, expense, entries); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		return expense.ID
	}
	bobs := broken(t, f.bob, f.carol)
	mallorys := broken(t, f.mallory, f.mallory)

	tests := []struct {
		name   string
		caller string
		want   []string
	}{
		{"payer sees own expense", f.bob, []string{bobs}},
		{"debtor sees shared expense", f.carol, []string{bobs}},
		{"uninvolved user sees nothing", f.alice, nil},
		{"outsider sees only theirs", f.mallory, []string{mallorys}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := f.ledger.ValidateLedger(ctx, as(tt.caller, &api.ValidateLedgerRequest{}))
			if err != nil {
				t.Fatalf("ValidateLedger failed: %v", err)
			}
			if !slices.Equal(report.Msg.UnbalancedExpenseIDs, tt.want) {
				t.Errorf("unbalanced = %v, want %v", report.Msg.UnbalancedExpenseIDs, tt.want)
			}
		})
	}
}

func TestSettleDebt(t *testing.T) {
	f := newLedgerFixture(t)
	f.dinner(t)
	ctx := context.Background()

	t.Run("partial then full", func(t *testing.T) {
		resp, err := f.ledger.SettleDebt(ctx, as(f.bob, &api.SettleDebtRequest{
			GroupID:    f.groupID,
			CreditorID: f.alice,
			Amount:     dec("4.00"),
			Note:       "cash",
		}))
		if err != nil {
			t.Fatalf("SettleDebt failed: %v", err)
		}
		st := resp.Msg.Settlement
		if st.DebtorID != f.bob || st.CreatedBy != f.bob || st.ExpenseID == "" {
			t.Errorf("unexpected settlement %+v", st)
		}
		if len(resp.Msg.Entries) != 2 {
			t.Fatalf("expected 2 settlement entries, got %d", len(resp.Msg.Entries))
		}

		if got := f.netBalances(t)[f.bob]; got != "-6.00" {
			t.Errorf("bob net after partial settlement = %s, want -6.00", got)
		}

		// recorded by the creditor on the debtor's behalf
		if _, err := f.ledger.SettleDebt(ctx, as(f.alice, &api.SettleDebtRequest{
			GroupID:    f.groupID,
			DebtorID:   f.bob,
			CreditorID: f.alice,
			Amount:     dec("6.00"),
		})); err != nil {
			t.Fatalf("SettleDebt by creditor failed: %v", err)
		}
		if got := f.netBalances(t)[f.bob]; got != "0.00" {
			t.Errorf("bob net after full settlement = %s, want 0.00", got)
		}
	})

	tests := []struct {
		name   string
		caller string
		req    *api.SettleDebtRequest
		code   connect.Code
	}{
		{"debt already settled", f.bob, &api.SettleDebtRequest{GroupID: f.groupID, CreditorID: f.alice, Amount: dec("1.00")}, connect.CodeFailedPrecondition},
		{"amount exceeds debt", f.carol, &api.SettleDebtRequest{GroupID: f.groupID, CreditorID: f.alice, Amount: dec("15.00")}, connect.CodeFailedPrecondition},
		{"creditor owes debtor", f.alice, &api.SettleDebtRequest{GroupID: f.groupID, CreditorID: f.carol, Amount: dec("1.00")}, connect.CodeFailedPrecondition},
		{"self settlement", f.carol, &api.SettleDebtRequest{GroupID: f.groupID, CreditorID: f.carol, Amount: dec("1.00")}, connect.CodeFailedPrecondition},
		{"zero amount", f.carol, &api.SettleDebtRequest{GroupID: f.groupID, CreditorID: f.alice, Amount: dec("0")}, connect.CodeInvalidArgument},
		{"sub-cent amount", f.carol, &api.SettleDebtRequest{GroupID: f.groupID, CreditorID: f.alice, Amount: dec("1.005")}, connect.CodeInvalidArgument},
		{"unknown creditor", f.carol, &api.SettleDebtRequest{GroupID: f.groupID, CreditorID: "ghost", Amount: dec("1.00")}, connect.CodeNotFound},
		{"third party", f.mallory, &api.SettleDebtRequest{DebtorID: f.carol, CreditorID: f.alice, Amount: dec("1.00")}, connect.CodePermissionDenied},
		{"caller outside group", f.mallory, &api.SettleDebtRequest{GroupID: f.groupID, CreditorID: f.alice, Amount: dec("1.00")}, connect.CodePermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.SettleDebt(ctx, as(tt.caller, tt.req))
			wantCode(t, err, tt.code)
		})
	}

	if got := scrape(t, f.metrics, "splitledger_settlements_recorded_total"); got != 2 {
		t.Errorf("settlements recorded = %v, want 2", got)
	}

	list, err := f.ledger.ListSettlements(ctx, as(f.alice, &api.ListSettlementsRequest{GroupID: f.groupID}))
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	if len(list.Msg.Settlements) != 2 {
		t.Errorf("expected 2 settlements, got %d", len(list.Msg.Settlements))
	}

	mine, err := f.ledger.ListSettlements(ctx, as(f.carol, &api.ListSettlementsRequest{}))
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	if len(mine.Msg.Settlements) != 0 {
		t.Errorf("carol has %d settlements, want 0", len(mine.Msg.Settlements))
	}
}

// Group and ungrouped debts are separate ledgers: a settlement only pays
// down debt in its own scope.
func TestSettleDebt_Scope(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	groupDebts := func(t *testing.T) []api.Transfer {
		t.Helper()
		resp, err := f.ledger.GetSimplifiedDebts(ctx, as(f.alice, &api.GetSimplifiedDebtsRequest{GroupID: f.groupID}))
		if err != nil {
			t.Fatalf("GetSimplifiedDebts failed: %v", err)
		}
		return resp.Msg.Transfers
	}

	if _, err := f.ledger.CreateEqualExpense(ctx, as(f.alice, &api.CreateEqualExpenseRequest{
		Description:  "Taxi",
		Amount:       dec("20.00"),
		PaidBy:       f.alice,
		Participants: []string{f.alice, f.bob},
	})); err != nil {
		t.Fatalf("CreateEqualExpense failed: %v", err)
	}

	t.Run("group settlement cannot use an ungrouped debt", func(t *testing.T) {
		_, err := f.ledger.SettleDebt(ctx, as(f.bob, &api.SettleDebtRequest{
			GroupID:    f.groupID,
			CreditorID: f.alice,
			Amount:     dec("10.00"),
		}))
		wantCode(t, err, connect.CodeFailedPrecondition)

		if debts := groupDebts(t); len(debts) != 0 {
			t.Errorf("group debts = %+v, want none", debts)
		}
	})

	t.Run("ungrouped settlement pays the ungrouped debt", func(t *testing.T) {
		if _, err := f.ledger.SettleDebt(ctx, as(f.bob, &api.SettleDebtRequest{
			CreditorID: f.alice,
			Amount:     dec("10.00"),
		})); err != nil {
			t.Fatalf("SettleDebt failed: %v", err)
		}
	})

	f.dinner(t)

	t.Run("ungrouped settlement cannot use a group debt", func(t *testing.T) {
		_, err := f.ledger.SettleDebt(ctx, as(f.bob, &api.SettleDebtRequest{
			CreditorID: f.alice,
			Amount:     dec("10.00"),
		}))
		wantCode(t, err, connect.CodeFailedPrecondition)

		if debts := groupDebts(t); len(debts) != 2 {
			t.Errorf("group debts = %+v, want bob and carol owing alice", debts)
		}
	})

	t.Run("group settlement clears the group debt", func(t *testing.T) {
		if _, err := f.ledger.SettleDebt(ctx, as(f.bob, &api.SettleDebtRequest{
			GroupID:    f.groupID,
			CreditorID: f.alice,
			Amount:     dec("10.00"),
		})); err != nil {
			t.Fatalf("SettleDebt failed: %v", err)
		}

		debts := groupDebts(t)
		if len(debts) != 1 || debts[0].FromUserID != f.carol || debts[0].ToUserID != f.alice {
			t.Errorf("group debts = %+v, want only carol owing alice", debts)
		}
	})
}

func TestSettleDebt_Concurrent(t *testing.T) {
	f := newLedgerFixture(t)
	f.dinner(t)

	// carol owes 10.00; only two payments of 5.00 can succeed
	const attempts = 6
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.SettleDebt(context.Background(), as(f.carol, &api.SettleDebtRequest{
				GroupID:    f.groupID,
				CreditorID: f.alice,
				Amount:     dec("5.00"),
			}))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if connect.CodeOf(err) != connect.CodeFailedPrecondition {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 2 {
		t.Errorf("%d settlements succeeded, want 2", succeeded)
	}
	if got := f.netBalances(t)[f.carol]; got != "0.00" {
		t.Errorf("carol net = %s, want 0.00", got)
	}
}

func TestUpdateAndDeleteExpense(t *testing.T) {
	f := newLedgerFixture(t)
	expense := f.dinner(t)
	ctx := context.Background()

	updated, err := f.ledger.UpdateExpense(ctx, as(f.bob, &api.UpdateExpenseRequest{
		ExpenseID:   expense.ID,
		Description: "Dinner (bob paid)",
		Amount:      dec("30.00"),
		Entries: []api.Entry{
			{UserID: f.bob, Amount: dec("30.00"), Type: api.EntryTypePaidBy},
			{UserID: f.alice, Amount: dec("15.00"), Type: api.EntryTypeHeadToPay},
			{UserID: f.carol, Amount: dec("15.00"), Type: api.EntryTypeHeadToPay},
		},
	}))
	if err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}
	if updated.Msg.Expense.GroupID != f.groupID {
		t.Errorf("group changed to %q", updated.Msg.Expense.GroupID)
	}

	got, err := f.ledger.GetExpense(ctx, as(f.carol, &api.GetExpenseRequest{ExpenseID: expense.ID}))
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if len(got.Msg.Expense.Entries) != 3 {
		t.Errorf("expected replaced entry set of 3, got %d", len(got.Msg.Expense.Entries))
	}
	if len(got.Msg.Debts) != 2 {
		t.Errorf("expected 2 per-expense debts, got %+v", got.Msg.Debts)
	}

	balances := f.netBalances(t)
	if balances[f.bob] != "30.00" || balances[f.alice] != "-15.00" || balances[f.carol] != "-15.00" {
		t.Errorf("balances after update = %v", balances)
	}

	_, err = f.ledger.UpdateExpense(ctx, as(f.bob, &api.UpdateExpenseRequest{
		ExpenseID:   expense.ID,
		Description: "Broken",
		Amount:      dec("30.00"),
		Entries: []api.Entry{
			{UserID: f.bob, Amount: dec("30.00"), Type: api.EntryTypePaidBy},
			{UserID: f.alice, Amount: dec("10.00"), Type: api.EntryTypeHeadToPay},
		},
	}))
	wantCode(t, err, connect.CodeInvalidArgument)

	_, err = f.ledger.GetExpense(ctx, as(f.mallory, &api.GetExpenseRequest{ExpenseID: expense.ID}))
	wantCode(t, err, connect.CodePermissionDenied)

	settled, err := f.ledger.SettleDebt(ctx, as(f.alice, &api.SettleDebtRequest{GroupID: f.groupID, CreditorID: f.bob, Amount: dec("15.00")}))
	if err != nil {
		t.Fatalf("SettleDebt failed: %v", err)
	}
	_, err = f.ledger.DeleteExpense(ctx, as(f.alice, &api.DeleteExpenseRequest{ExpenseID: settled.Msg.Settlement.ExpenseID}))
	wantCode(t, err, connect.CodeFailedPrecondition)

	if _, err := f.ledger.DeleteExpense(ctx, as(f.alice, &api.DeleteExpenseRequest{ExpenseID: expense.ID})); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	_, err = f.ledger.GetExpense(ctx, as(f.alice, &api.GetExpenseRequest{ExpenseID: expense.ID}))
	wantCode(t, err, connect.CodeNotFound)
}

func TestGetUserBalance(t *testing.T) {
	f := newLedgerFixture(t)
	f.dinner(t)
	ctx := context.Background()

	// A personal expense outside the group: bob pays 6.00 for carol.
	if _, err := f.ledger.CreateExpense(ctx, as(f.bob, &api.CreateExpenseRequest{
		Description: "Coffee",
		Amount:      dec("6.00"),
		Entries: []api.Entry{
			{UserID: f.bob, Amount: dec("6.00"), Type: api.EntryTypePaidBy},
			{UserID: f.carol, Amount: dec("6.00"), Type: api.EntryTypeHeadToPay},
		},
	})); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	resp, err := f.ledger.GetUserBalance(ctx, as(f.carol, &api.GetUserBalanceRequest{}))
	if err != nil {
		t.Fatalf("GetUserBalance failed: %v", err)
	}
	if got := resp.Msg.NetBalance.StringFixed(2); got != "-16.00" {
		t.Errorf("carol net = %s, want -16.00", got)
	}
	if got := resp.Msg.TotalOwed.StringFixed(2); got != "16.00" {
		t.Errorf("carol owed = %s, want 16.00", got)
	}

	want := map[string]string{f.alice: "10.00", f.bob: "6.00"}
	if len(resp.Msg.Debts) != len(want) {
		t.Fatalf("debts = %+v, want %d entries", resp.Msg.Debts, len(want))
	}
	for _, d := range resp.Msg.Debts {
		if d.Type != "OWE" || d.Amount.Abs().StringFixed(2) != want[d.OtherUserID] {
			t.Errorf("unexpected debt detail %+v", d)
		}
	}

	_, err = f.ledger.GetUserBalance(ctx, as(f.mallory, &api.GetUserBalanceRequest{UserID: f.carol}))
	wantCode(t, err, connect.CodePermissionDenied)

	// personal expenses are only visible to their participants
	_, err = f.ledger.CreateExpense(ctx, as(f.mallory, &api.CreateExpenseRequest{
		Description: "Not mine",
		Amount:      dec("1.00"),
		Entries: []api.Entry{
			{UserID: f.bob, Amount: dec("1.00"), Type: api.EntryTypePaidBy},
			{UserID: f.carol, Amount: dec("1.00"), Type: api.EntryTypeHeadToPay},
		},
	}))
	wantCode(t, err, connect.CodePermissionDenied)
}

func TestCreateItemizedExpense(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	resp, err := f.ledger.CreateItemizedExpense(ctx, as(f.alice, &api.CreateItemizedExpenseRequest{
		GroupID:      f.groupID,
		Description:  "Groceries",
		Total:        dec("33.00"),
		Subtotal:     dec("30.00"),
		PaidBy:       f.alice,
		Participants: []string{f.alice, f.bob, f.carol},
		Items: []api.Item{
			{Description: "Wine", Amount: dec("20.00"), AssignedTo: []string{f.alice, f.bob}},
			{Description: "Bread", Amount: dec("10.00"), AssignedTo: []string{f.carol}},
		},
	}))
	if err != nil {
		t.Fatalf("CreateItemizedExpense failed: %v", err)
	}

	if len(resp.Msg.Splits) != 3 {
		t.Fatalf("expected 3 splits, got %d", len(resp.Msg.Splits))
	}
	for _, s := range resp.Msg.Splits {
		if s.Total.StringFixed(2) != "11.00" {
			t.Errorf("split of %s = %s, want 11.00", s.UserID, s.Total)
		}
	}

	balances := f.netBalances(t)
	if balances[f.alice] != "22.00" || balances[f.bob] != "-11.00" || balances[f.carol] != "-11.00" {
		t.Errorf("balances = %v", balances)
	}

	_, err = f.ledger.CreateItemizedExpense(ctx, as(f.alice, &api.CreateItemizedExpenseRequest{
		GroupID:      f.groupID,
		Description:  "Bad",
		Total:        dec("33.00"),
		Subtotal:     dec("30.00"),
		PaidBy:       f.alice,
		Participants: []string{f.alice},
		Items:        []api.Item{{Description: "Wine", Amount: dec("30.00"), AssignedTo: []string{f.mallory}}},
	}))
	wantCode(t, err, connect.CodeInvalidArgument)
}
