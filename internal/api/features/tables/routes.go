// Package tables serves table listings and paginated table rows.
package tables

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/sqlgate/internal/gateway"
	"github.com/leapstack-labs/sqlgate/pkg/jsonapi"
)

// SetupRoutes registers the table browsing routes.
func SetupRoutes(router chi.Router, svc *gateway.Service, keyCase jsonapi.KeyCase, logger *slog.Logger) error {
	handlers := NewHandlers(svc, keyCase, logger)

	router.Route("/api/tables", func(r chi.Router) {
		r.Get("/", handlers.List)
		r.Get("/{tableName}", handlers.Data)
	})

	return nil
}
