package tables

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/sqlgate/internal/api/features/common"
	"github.com/leapstack-labs/sqlgate/internal/gateway"
	"github.com/leapstack-labs/sqlgate/pkg/jsonapi"
)

// Handlers provides HTTP handlers for the tables feature.
type Handlers struct {
	svc     *gateway.Service
	keyCase jsonapi.KeyCase
	logger  *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *gateway.Service, keyCase jsonapi.KeyCase, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{svc: svc, keyCase: keyCase, logger: logger}
}

var tableSerializer = jsonapi.Serializer{
	Type:   "table",
	Fields: []string{"name"},
	ID: func(_ int, rec map[string]any) string {
		return fmt.Sprint(rec["name"])
	},
}

// List returns every table of the connected database as a "table"
// resource identified by its name.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.ListTables(r.Context())
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	records := make([]map[string]any, len(names))
	for i, n := range names {
		records[i] = map[string]any{"name": n}
	}

	s := tableSerializer
	s.KeyCase = h.keyCase
	common.WriteDocument(w, http.StatusOK, jsonapi.Serialize(s, records, jsonapi.Meta{
		"database": common.Database(h.svc),
		"count":    len(names),
	}))
}

// Data returns one page of rows of the named table. Resources are typed
// with the table name.
func (h *Handlers) Data(w http.ResponseWriter, r *http.Request) {
	// chi routes on RawPath when it is set, leaving the parameter escaped.
	// Otherwise it is already decoded and must not be decoded again.
	table := chi.URLParam(r, "tableName")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(table)
		if err != nil {
			common.WriteStatus(w, r, http.StatusBadRequest, "malformed table name")
			return
		}
		table = unescaped
	}

	q := r.URL.Query()
	req, err := h.svc.ParsePageRequest(q.Get("page"), q.Get("limit"))
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	page, err := h.svc.TableData(r.Context(), table, req)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	s := jsonapi.Serializer{
		Type:    table,
		Fields:  page.Result.Columns,
		KeyCase: h.keyCase,
		ID:      common.RowID(page.Offset),
	}
	common.WriteDocument(w, http.StatusOK, jsonapi.Serialize(s, page.Result.Rows, jsonapi.Meta{
		"table":      table,
		"database":   common.Database(h.svc),
		"columns":    common.CaseColumns(h.keyCase, page.Result.Columns),
		"pagination": page.Pagination,
	}))
}
