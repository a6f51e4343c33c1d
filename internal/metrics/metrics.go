// Package metrics holds the Prometheus collectors of the ledger server.
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "splitledger"

type Metrics struct {
	registry *prometheus.Registry

	httpLatency          *prometheus.HistogramVec
	rpcTotal             *prometheus.CounterVec
	settlementsRecorded  prometheus.Counter
	settlementsRejected  *prometheus.CounterVec
	unbalancedRejections prometheus.Counter
	suggestedTransfers   prometheus.Histogram
}

// New registers every collector on a fresh registry, plus the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		rpcTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		settlementsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_recorded_total",
			Help:      "Settlements appended to the ledger.",
		}),
		settlementsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_rejected_total",
			Help:      "Settlements refused, by reason.",
		}, []string{"reason"}),
		unbalancedRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unbalanced_expenses_rejected_total",
			Help:      "Expenses refused because paid and owed totals differ.",
		}),
		suggestedTransfers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simplified_transfers",
			Help:      "Number of transfers suggested per simplification.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpLatency,
		m.rpcTotal,
		m.settlementsRecorded,
		m.settlementsRejected,
		m.unbalancedRejections,
		m.suggestedTransfers,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpLatency.WithLabelValues(method, route, status).Observe(seconds)
}

func (m *Metrics) RPC(procedure, code string) {
	if m == nil {
		return
	}
	m.rpcTotal.WithLabelValues(procedure, code).Inc()
}

func (m *Metrics) SettlementRecorded() {
	if m == nil {
		return
	}
	m.settlementsRecorded.Inc()
}

// SettlementRejected counts a refused settlement. reason is a short label
// such as "no_such_debt" or "amount_exceeds_debt".
func (m *Metrics) SettlementRejected(reason string) {
	if m == nil {
		return
	}
	m.settlementsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) UnbalancedExpenseRejected() {
	if m == nil {
		return
	}
	m.unbalancedRejections.Inc()
}

func (m *Metrics) TransfersSuggested(n int) {
	if m == nil {
		return
	}
	m.suggestedTransfers.Observe(float64(n))
}
