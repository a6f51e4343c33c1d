// Package server assembles the HTTP surface of the ledger: the Connect
// services, health and metrics endpoints, and the middleware around them.
package server

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

type Deps struct {
	Store          storage.Store
	Authenticator  auth.Authenticator
	JWT            *auth.JWTManager
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	AllowedOrigins []string
}

// NewRouter mounts the auth, group and ledger services. Auth calls accept an
// optional token; group and ledger calls require one.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Authorization",
			"Content-Type",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
		},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		MaxAge:         300,
	}))
	r.Use(middleware.HTTPMetrics(deps.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", deps.Metrics.Handler())

	observe := middleware.MetricsInterceptor(deps.Metrics)
	logRPC := middleware.LoggingInterceptor(logger)

	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		service.NewAuthService(deps.Authenticator, deps.Store, deps.JWT, logger),
		connect.WithInterceptors(observe, middleware.OptionalAuth(deps.JWT), logRPC),
	)
	mount(r, authPath, authHandler)
	groupPath, groupHandler := apiconnect.NewGroupServiceHandler(
		service.NewGroupService(deps.Store, logger),
		connect.WithInterceptors(observe, middleware.RequireAuth(deps.JWT), logRPC),
	)
	mount(r, groupPath, groupHandler)
	ledgerPath, ledgerHandler := apiconnect.NewLedgerServiceHandler(
		service.NewLedgerService(deps.Store, logger, deps.Metrics),
		connect.WithInterceptors(observe, middleware.RequireAuth(deps.JWT), logRPC),
	)
	mount(r, ledgerPath, ledgerHandler)

	return r
}

// mount routes every procedure under a service path to its handler.
func mount(r chi.Router, path string, handler http.Handler) {
	r.Handle(path+"*", handler)
}
