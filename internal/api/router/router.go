// Package router sets up HTTP routes for the API server.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/sqlgate/internal/api/features/common"
	homeFeature "github.com/leapstack-labs/sqlgate/internal/api/features/home"
	queryFeature "github.com/leapstack-labs/sqlgate/internal/api/features/query"
	tablesFeature "github.com/leapstack-labs/sqlgate/internal/api/features/tables"
	"github.com/leapstack-labs/sqlgate/internal/api/metrics"
	"github.com/leapstack-labs/sqlgate/internal/gateway"
	"github.com/leapstack-labs/sqlgate/pkg/jsonapi"
)

// Options carries everything the feature routes depend on.
type Options struct {
	Service *gateway.Service
	Metrics *metrics.Metrics
	KeyCase jsonapi.KeyCase
	Info    homeFeature.Info
	Logger  *slog.Logger
}

// SetupRoutes configures all routes for the API server.
func SetupRoutes(router chi.Router, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.WriteStatus(w, r, http.StatusNotFound, "no route for "+r.URL.Path)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		common.WriteStatus(w, r, http.StatusMethodNotAllowed, r.Method+" is not allowed on "+r.URL.Path)
	})

	router.Get("/healthz", healthz(opts.Service, logger))
	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	// Feature routes
	if err := homeFeature.SetupRoutes(router, opts.Service, opts.Info); err != nil {
		return err
	}

	if err := tablesFeature.SetupRoutes(router, opts.Service, opts.KeyCase, logger); err != nil {
		return err
	}

	if err := queryFeature.SetupRoutes(router, opts.Service, opts.KeyCase, logger); err != nil {
		return err
	}

	return nil
}

// healthz pings the database through a scoped acquisition. Any failure,
// including a closed pool, reports 503.
func healthz(svc *gateway.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Ping(r.Context()); err != nil {
			logger.WarnContext(r.Context(), "health check failed", slog.String("error", err.Error()))
			common.WriteStatus(w, r, http.StatusServiceUnavailable, common.Detail(err))
			return
		}
		common.WriteDocument(w, http.StatusOK, jsonapi.MetaDocument(jsonapi.Meta{"status": "ok"}))
	}
}
