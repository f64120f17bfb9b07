// Package home serves the API index document.
package home

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/sqlgate/internal/gateway"
)

// SetupRoutes registers the API index route.
func SetupRoutes(router chi.Router, svc *gateway.Service, info Info) error {
	handlers := NewHandlers(svc, info)

	router.Get("/api", handlers.Index)

	return nil
}
