package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := New()
	m.SettlementRecorded()
	m.SettlementRejected("no_such_debt")
	m.SettlementRejected("no_such_debt")
	m.RPC("/splitledger.v1.LedgerService/SettleDebt", "ok")
	m.TransfersSuggested(3)

	if got := testutil.ToFloat64(m.settlementsRecorded); got != 1 {
		t.Errorf("settlements recorded = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.settlementsRejected.WithLabelValues("no_such_debt")); got != 2 {
		t.Errorf("settlements rejected = %v, want 2", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, name := range []string{
		"splitledger_settlements_recorded_total",
		"splitledger_rpc_requests_total",
		"splitledger_simplified_transfers_bucket",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("exposition missing %s", name)
		}
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	// none of these may panic
	m.SettlementRecorded()
	m.SettlementRejected("x")
	m.UnbalancedExpenseRejected()
	m.TransfersSuggested(1)
	m.RPC("p", "ok")
	m.ObserveHTTP("GET", "/", "200", 0.1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Errorf("nil handler status = %d, want 404", rec.Code)
	}
}
