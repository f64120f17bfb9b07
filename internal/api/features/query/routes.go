// Package query serves raw SQL execution.
package query

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/sqlgate/internal/gateway"
	"github.com/leapstack-labs/sqlgate/pkg/jsonapi"
)

// SetupRoutes registers the raw query route.
func SetupRoutes(router chi.Router, svc *gateway.Service, keyCase jsonapi.KeyCase, logger *slog.Logger) error {
	handlers := NewHandlers(svc, keyCase, logger)

	router.Post("/api/query", handlers.Execute)

	return nil
}
