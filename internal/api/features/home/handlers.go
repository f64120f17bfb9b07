package home

import (
	"net/http"

	"github.com/leapstack-labs/sqlgate/internal/api/features/common"
	"github.com/leapstack-labs/sqlgate/internal/gateway"
	"github.com/leapstack-labs/sqlgate/pkg/jsonapi"
)

// Handlers provides HTTP handlers for the index feature.
type Handlers struct {
	svc  *gateway.Service
	info Info
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *gateway.Service, info Info) *Handlers {
	return &Handlers{svc: svc, info: info}
}

// Index reports the service name, version, connected database and the
// available endpoints. The database is null when the URI named none.
func (h *Handlers) Index(w http.ResponseWriter, _ *http.Request) {
	common.WriteDocument(w, http.StatusOK, jsonapi.MetaDocument(jsonapi.Meta{
		"name":      h.info.Name,
		"version":   h.info.Version,
		"database":  common.Database(h.svc),
		"endpoints": Endpoints,
	}))
}
