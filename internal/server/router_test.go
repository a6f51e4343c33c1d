package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

func setupRouter(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "router.db"))
	require.NoError(t, err)

	handler := NewRouter(Deps{
		Store:          store,
		Authenticator:  auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost),
		JWT:            auth.NewJWTManager("router-secret", time.Hour),
		Metrics:        metrics.New(),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		AllowedOrigins: []string{"https://ledger.example"},
	})
	server := httptest.NewServer(handler)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return server
}

func bearer[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func register(t *testing.T, client apiconnect.AuthServiceClient, name string) *api.RegisterResponse {
	t.Helper()
	resp, err := client.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:    name + "@example.com",
		Name:     name,
		Password: "password123",
	}))
	require.NoError(t, err)
	return resp.Msg
}

func TestRouter_Health(t *testing.T) {
	server := setupRouter(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestRouter_CORSPreflight(t *testing.T) {
	server := setupRouter(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/"+apiconnect.LedgerServiceName+"/SettleDebt", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://ledger.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "https://ledger.example", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRouter_LedgerFlow(t *testing.T) {
	server := setupRouter(t)
	ctx := context.Background()

	authClient := apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
	groups := apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL)
	ledger := apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL)

	alice := register(t, authClient, "alice")
	bob := register(t, authClient, "bob")

	_, err := ledger.GetSimplifiedDebts(ctx, connect.NewRequest(&api.GetSimplifiedDebtsRequest{}))
	require.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	group, err := groups.CreateGroup(ctx, bearer(alice.Token, &api.CreateGroupRequest{
		Name:      "Flat",
		MemberIDs: []string{bob.User.ID},
	}))
	require.NoError(t, err)
	groupID := group.Msg.Group.ID

	_, err = ledger.CreateEqualExpense(ctx, bearer(alice.Token, &api.CreateEqualExpenseRequest{
		GroupID:      groupID,
		Description:  "Groceries",
		Amount:       decimal.RequireFromString("40.00"),
		PaidBy:       alice.User.ID,
		Participants: []string{alice.User.ID, bob.User.ID},
	}))
	require.NoError(t, err)

	debts, err := ledger.GetSimplifiedDebts(ctx, bearer(bob.Token, &api.GetSimplifiedDebtsRequest{GroupID: groupID}))
	require.NoError(t, err)
	require.Len(t, debts.Msg.Transfers, 1)
	transfer := debts.Msg.Transfers[0]
	assert.Equal(t, bob.User.ID, transfer.FromUserID)
	assert.Equal(t, alice.User.ID, transfer.ToUserID)
	assert.True(t, transfer.Amount.Equal(decimal.RequireFromString("20.00")), "amount = %s", transfer.Amount)

	_, err = ledger.SettleDebt(ctx, bearer(bob.Token, &api.SettleDebtRequest{
		GroupID:    groupID,
		CreditorID: alice.User.ID,
		Amount:     decimal.RequireFromString("20.00"),
	}))
	require.NoError(t, err)

	debts, err = ledger.GetSimplifiedDebts(ctx, bearer(alice.Token, &api.GetSimplifiedDebtsRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.Empty(t, debts.Msg.Transfers)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	exposition := string(body)
	assert.Contains(t, exposition, "splitledger_settlements_recorded_total 1")
	assert.True(t, strings.Contains(exposition, `code="unauthenticated"`), "expected unauthenticated RPC to be counted")
	assert.Contains(t, exposition, `route="/splitledger.v1.LedgerService/*"`)
}
