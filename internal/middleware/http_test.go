package middleware

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/splitledger/internal/metrics"
)

func TestHTTPMetrics_RouteLabel(t *testing.T) {
	m := metrics.New()
	r := chi.NewRouter()
	r.Use(HTTPMetrics(m))
	r.Get("/groups/{id}", func(w http.ResponseWriter, r *http.Request) {})

	for _, path := range []string{"/groups/a", "/groups/b", "/nope", "/random/123", "/random/456"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	var routes []string
	for _, mf := range families {
		if mf.GetName() != "splitledger_http_request_duration_seconds" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "route" && !slices.Contains(routes, label.GetValue()) {
					routes = append(routes, label.GetValue())
				}
			}
		}
	}
	slices.Sort(routes)

	want := []string{"/groups/{id}", unmatchedRoute}
	if !slices.Equal(routes, want) {
		t.Errorf("route labels = %v, want %v", routes, want)
	}
}
