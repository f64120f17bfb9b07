package query

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/leapstack-labs/sqlgate/internal/api/features/common"
	"github.com/leapstack-labs/sqlgate/internal/gateway"
	"github.com/leapstack-labs/sqlgate/pkg/jsonapi"
)

// Handlers provides HTTP handlers for the query feature.
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

// Execute runs the submitted SQL text and returns its rows as
// "query-result" resources. The text is echoed in meta.query.
//
// Any statement is accepted, reads and writes alike. Driver errors are
// reported with the driver's message.
func (h *Handlers) Execute(w http.ResponseWriter, r *http.Request) {
	var body Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		detail := "request body must be a JSON object with a query string"
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			common.WriteStatus(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return
		case errors.Is(err, io.EOF):
			detail = "request body is empty"
		}
		common.WriteStatus(w, r, http.StatusBadRequest, detail)
		return
	}

	if body.Query == nil || strings.TrimSpace(*body.Query) == "" {
		common.WriteStatus(w, r, http.StatusBadRequest, "query is required")
		return
	}

	rs, err := h.svc.Query(r.Context(), *body.Query)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	s := jsonapi.Serializer{
		Type:    ResultType,
		Fields:  rs.Columns,
		KeyCase: h.keyCase,
		ID:      common.RowID(0),
	}
	common.WriteDocument(w, http.StatusOK, jsonapi.Serialize(s, rs.Rows, jsonapi.Meta{
		"query":    *body.Query,
		"columns":  common.CaseColumns(h.keyCase, rs.Columns),
		"rowCount": rs.Len(),
	}))
}
