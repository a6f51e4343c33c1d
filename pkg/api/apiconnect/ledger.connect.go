package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "splitledger.v1.LedgerService"

const (
	LedgerServiceCreateExpenseProcedure         = "/splitledger.v1.LedgerService/CreateExpense"
	LedgerServiceCreateEqualExpenseProcedure    = "/splitledger.v1.LedgerService/CreateEqualExpense"
	LedgerServiceCreateItemizedExpenseProcedure = "/splitledger.v1.LedgerService/CreateItemizedExpense"
	LedgerServiceUpdateExpenseProcedure         = "/splitledger.v1.LedgerService/UpdateExpense"
	LedgerServiceGetExpenseProcedure            = "/splitledger.v1.LedgerService/GetExpense"
	LedgerServiceDeleteExpenseProcedure         = "/splitledger.v1.LedgerService/DeleteExpense"
	LedgerServiceListExpensesProcedure          = "/splitledger.v1.LedgerService/ListExpenses"
	LedgerServiceGetUserBalanceProcedure        = "/splitledger.v1.LedgerService/GetUserBalance"
	LedgerServiceGetGroupBalancesProcedure      = "/splitledger.v1.LedgerService/GetGroupBalances"
	LedgerServiceGetSimplifiedDebtsProcedure    = "/splitledger.v1.LedgerService/GetSimplifiedDebts"
	LedgerServiceSettleDebtProcedure            = "/splitledger.v1.LedgerService/SettleDebt"
	LedgerServiceListSettlementsProcedure       = "/splitledger.v1.LedgerService/ListSettlements"
	LedgerServiceValidateLedgerProcedure        = "/splitledger.v1.LedgerService/ValidateLedger"
)

// LedgerServiceClient is a client for the splitledger.v1.LedgerService service.
type LedgerServiceClient interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	CreateEqualExpense(context.Context, *connect.Request[api.CreateEqualExpenseRequest]) (*connect.Response[api.CreateEqualExpenseResponse], error)
	CreateItemizedExpense(context.Context, *connect.Request[api.CreateItemizedExpenseRequest]) (*connect.Response[api.CreateItemizedExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	GetUserBalance(context.Context, *connect.Request[api.GetUserBalanceRequest]) (*connect.Response[api.GetUserBalanceResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	GetSimplifiedDebts(context.Context, *connect.Request[api.GetSimplifiedDebtsRequest]) (*connect.Response[api.GetSimplifiedDebtsResponse], error)
	SettleDebt(context.Context, *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	ValidateLedger(context.Context, *connect.Request[api.ValidateLedgerRequest]) (*connect.Response[api.ValidateLedgerResponse], error)
}

// NewLedgerServiceClient constructs a client for the LedgerService.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		createExpense:         connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL+LedgerServiceCreateExpenseProcedure, opts...),
		createEqualExpense:    connect.NewClient[api.CreateEqualExpenseRequest, api.CreateEqualExpenseResponse](httpClient, baseURL+LedgerServiceCreateEqualExpenseProcedure, opts...),
		createItemizedExpense: connect.NewClient[api.CreateItemizedExpenseRequest, api.CreateItemizedExpenseResponse](httpClient, baseURL+LedgerServiceCreateItemizedExpenseProcedure, opts...),
		updateExpense:         connect.NewClient[api.UpdateExpenseRequest, api.UpdateExpenseResponse](httpClient, baseURL+LedgerServiceUpdateExpenseProcedure, opts...),
		getExpense:            connect.NewClient[api.GetExpenseRequest, api.GetExpenseResponse](httpClient, baseURL+LedgerServiceGetExpenseProcedure, opts...),
		deleteExpense:         connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL+LedgerServiceDeleteExpenseProcedure, opts...),
		listExpenses:          connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		getUserBalance:        connect.NewClient[api.GetUserBalanceRequest, api.GetUserBalanceResponse](httpClient, baseURL+LedgerServiceGetUserBalanceProcedure, opts...),
		getGroupBalances:      connect.NewClient[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](httpClient, baseURL+LedgerServiceGetGroupBalancesProcedure, opts...),
		getSimplifiedDebts:    connect.NewClient[api.GetSimplifiedDebtsRequest, api.GetSimplifiedDebtsResponse](httpClient, baseURL+LedgerServiceGetSimplifiedDebtsProcedure, opts...),
		settleDebt:            connect.NewClient[api.SettleDebtRequest, api.SettleDebtResponse](httpClient, baseURL+LedgerServiceSettleDebtProcedure, opts...),
		listSettlements:       connect.NewClient[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL+LedgerServiceListSettlementsProcedure, opts...),
		validateLedger:        connect.NewClient[api.ValidateLedgerRequest, api.ValidateLedgerResponse](httpClient, baseURL+LedgerServiceValidateLedgerProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createExpense         *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	createEqualExpense    *connect.Client[api.CreateEqualExpenseRequest, api.CreateEqualExpenseResponse]
	createItemizedExpense *connect.Client[api.CreateItemizedExpenseRequest, api.CreateItemizedExpenseResponse]
	updateExpense         *connect.Client[api.UpdateExpenseRequest, api.UpdateExpenseResponse]
	getExpense            *connect.Client[api.GetExpenseRequest, api.GetExpenseResponse]
	deleteExpense         *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	listExpenses          *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	getUserBalance        *connect.Client[api.GetUserBalanceRequest, api.GetUserBalanceResponse]
	getGroupBalances      *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
	getSimplifiedDebts    *connect.Client[api.GetSimplifiedDebtsRequest, api.GetSimplifiedDebtsResponse]
	settleDebt            *connect.Client[api.SettleDebtRequest, api.SettleDebtResponse]
	listSettlements       *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	validateLedger        *connect.Client[api.ValidateLedgerRequest, api.ValidateLedgerResponse]
}

func (c *ledgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateEqualExpense(ctx context.Context, req *connect.Request[api.CreateEqualExpenseRequest]) (*connect.Response[api.CreateEqualExpenseResponse], error) {
	return c.createEqualExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateItemizedExpense(ctx context.Context, req *connect.Request[api.CreateItemizedExpenseRequest]) (*connect.Response[api.CreateItemizedExpenseResponse], error) {
	return c.createItemizedExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetUserBalance(ctx context.Context, req *connect.Request[api.GetUserBalanceRequest]) (*connect.Response[api.GetUserBalanceResponse], error) {
	return c.getUserBalance.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSimplifiedDebts(ctx context.Context, req *connect.Request[api.GetSimplifiedDebtsRequest]) (*connect.Response[api.GetSimplifiedDebtsResponse], error) {
	return c.getSimplifiedDebts.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SettleDebt(ctx context.Context, req *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error) {
	return c.settleDebt.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ValidateLedger(ctx context.Context, req *connect.Request[api.ValidateLedgerRequest]) (*connect.Response[api.ValidateLedgerResponse], error) {
	return c.validateLedger.CallUnary(ctx, req)
}

// LedgerServiceHandler is implemented by the LedgerService server.
type LedgerServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	CreateEqualExpense(context.Context, *connect.Request[api.CreateEqualExpenseRequest]) (*connect.Response[api.CreateEqualExpenseResponse], error)
	CreateItemizedExpense(context.Context, *connect.Request[api.CreateItemizedExpenseRequest]) (*connect.Response[api.CreateItemizedExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	GetUserBalance(context.Context, *connect.Request[api.GetUserBalanceRequest]) (*connect.Response[api.GetUserBalanceResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	GetSimplifiedDebts(context.Context, *connect.Request[api.GetSimplifiedDebtsRequest]) (*connect.Response[api.GetSimplifiedDebtsResponse], error)
	SettleDebt(context.Context, *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	ValidateLedger(context.Context, *connect.Request[api.ValidateLedgerRequest]) (*connect.Response[api.ValidateLedgerResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation and returns the path to mount it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createExpense := connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts...)
	createEqualExpense := connect.NewUnaryHandler(LedgerServiceCreateEqualExpenseProcedure, svc.CreateEqualExpense, opts...)
	createItemizedExpense := connect.NewUnaryHandler(LedgerServiceCreateItemizedExpenseProcedure, svc.CreateItemizedExpense, opts...)
	updateExpense := connect.NewUnaryHandler(LedgerServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...)
	getExpense := connect.NewUnaryHandler(LedgerServiceGetExpenseProcedure, svc.GetExpense, opts...)
	deleteExpense := connect.NewUnaryHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...)
	listExpenses := connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...)
	getUserBalance := connect.NewUnaryHandler(LedgerServiceGetUserBalanceProcedure, svc.GetUserBalance, opts...)
	getGroupBalances := connect.NewUnaryHandler(LedgerServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts...)
	getSimplifiedDebts := connect.NewUnaryHandler(LedgerServiceGetSimplifiedDebtsProcedure, svc.GetSimplifiedDebts, opts...)
	settleDebt := connect.NewUnaryHandler(LedgerServiceSettleDebtProcedure, svc.SettleDebt, opts...)
	listSettlements := connect.NewUnaryHandler(LedgerServiceListSettlementsProcedure, svc.ListSettlements, opts...)
	validateLedger := connect.NewUnaryHandler(LedgerServiceValidateLedgerProcedure, svc.ValidateLedger, opts...)
	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceCreateExpenseProcedure:
			createExpense.ServeHTTP(w, r)
		case LedgerServiceCreateEqualExpenseProcedure:
			createEqualExpense.ServeHTTP(w, r)
		case LedgerServiceCreateItemizedExpenseProcedure:
			createItemizedExpense.ServeHTTP(w, r)
		case LedgerServiceUpdateExpenseProcedure:
			updateExpense.ServeHTTP(w, r)
		case LedgerServiceGetExpenseProcedure:
			getExpense.ServeHTTP(w, r)
		case LedgerServiceDeleteExpenseProcedure:
			deleteExpense.ServeHTTP(w, r)
		case LedgerServiceListExpensesProcedure:
			listExpenses.ServeHTTP(w, r)
		case LedgerServiceGetUserBalanceProcedure:
			getUserBalance.ServeHTTP(w, r)
		case LedgerServiceGetGroupBalancesProcedure:
			getGroupBalances.ServeHTTP(w, r)
		case LedgerServiceGetSimplifiedDebtsProcedure:
			getSimplifiedDebts.ServeHTTP(w, r)
		case LedgerServiceSettleDebtProcedure:
			settleDebt.ServeHTTP(w, r)
		case LedgerServiceListSettlementsProcedure:
			listSettlements.ServeHTTP(w, r)
		case LedgerServiceValidateLedgerProcedure:
			validateLedger.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return nil, unimplemented(LedgerServiceCreateExpenseProcedure)
}

func (UnimplementedLedgerServiceHandler) CreateEqualExpense(context.Context, *connect.Request[api.CreateEqualExpenseRequest]) (*connect.Response[api.CreateEqualExpenseResponse], error) {
	return nil, unimplemented(LedgerServiceCreateEqualExpenseProcedure)
}

func (UnimplementedLedgerServiceHandler) CreateItemizedExpense(context.Context, *connect.Request[api.CreateItemizedExpenseRequest]) (*connect.Response[api.CreateItemizedExpenseResponse], error) {
	return nil, unimplemented(LedgerServiceCreateItemizedExpenseProcedure)
}

func (UnimplementedLedgerServiceHandler) UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return nil, unimplemented(LedgerServiceUpdateExpenseProcedure)
}

func (UnimplementedLedgerServiceHandler) GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return nil, unimplemented(LedgerServiceGetExpenseProcedure)
}

func (UnimplementedLedgerServiceHandler) DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return nil, unimplemented(LedgerServiceDeleteExpenseProcedure)
}

func (UnimplementedLedgerServiceHandler) ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return nil, unimplemented(LedgerServiceListExpensesProcedure)
}

func (UnimplementedLedgerServiceHandler) GetUserBalance(context.Context, *connect.Request[api.GetUserBalanceRequest]) (*connect.Response[api.GetUserBalanceResponse], error) {
	return nil, unimplemented(LedgerServiceGetUserBalanceProcedure)
}

func (UnimplementedLedgerServiceHandler) GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return nil, unimplemented(LedgerServiceGetGroupBalancesProcedure)
}

func (UnimplementedLedgerServiceHandler) GetSimplifiedDebts(context.Context, *connect.Request[api.GetSimplifiedDebtsRequest]) (*connect.Response[api.GetSimplifiedDebtsResponse], error) {
	return nil, unimplemented(LedgerServiceGetSimplifiedDebtsProcedure)
}

func (UnimplementedLedgerServiceHandler) SettleDebt(context.Context, *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error) {
	return nil, unimplemented(LedgerServiceSettleDebtProcedure)
}

func (UnimplementedLedgerServiceHandler) ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return nil, unimplemented(LedgerServiceListSettlementsProcedure)
}

func (UnimplementedLedgerServiceHandler) ValidateLedger(context.Context, *connect.Request[api.ValidateLedgerRequest]) (*connect.Response[api.ValidateLedgerResponse], error) {
	return nil, unimplemented(LedgerServiceValidateLedgerProcedure)
}
