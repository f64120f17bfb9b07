// Package common provides response helpers shared by the API features.
package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/leapstack-labs/sqlgate/internal/gateway"
	"github.com/leapstack-labs/sqlgate/internal/pool"
	"github.com/leapstack-labs/sqlgate/pkg/jsonapi"
)

// WriteDocument encodes doc with the given status.
func WriteDocument(w http.ResponseWriter, status int, doc *jsonapi.Document) {
	w.Header().Set("Content-Type", jsonapi.MediaType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(doc)
}

// WriteStatus writes a single-error document for status.
func WriteStatus(w http.ResponseWriter, r *http.Request, status int, detail string) {
	e := jsonapi.NewError(status, detail)
	e.ID = middleware.GetReqID(r.Context())
	WriteDocument(w, status, jsonapi.ErrorDocument(e))
}

// WriteError maps err to an HTTP status and writes an error document.
// Server-side failures are logged at error level, caller mistakes at debug.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := StatusFor(err)

	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	}
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", attrs...)
	} else {
		logger.DebugContext(r.Context(), "request rejected", attrs...)
	}

	WriteStatus(w, r, status, Detail(err))
}

// StatusFor returns the HTTP status for a gateway error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, gateway.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, gateway.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pool.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Detail returns the message reported to callers. Database errors carry
// the driver's raw message.
func Detail(err error) string {
	var dbErr *gateway.DatabaseError
	switch {
	case errors.As(err, &dbErr):
		return dbErr.Detail()
	case errors.Is(err, pool.ErrClosed):
		return "server is shutting down"
	case errors.Is(err, gateway.ErrInvalidInput):
		return strings.TrimPrefix(err.Error(), gateway.ErrInvalidInput.Error()+": ")
	case errors.Is(err, gateway.ErrNotFound):
		return strings.TrimPrefix(err.Error(), gateway.ErrNotFound.Error()+": ")
	default:
		return err.Error()
	}
}

// RowID returns a resource id function for rows starting at offset: the
// row's own id column when present and non-NULL, otherwise its 1-based
// absolute position.
func RowID(offset int) jsonapi.IDFunc {
	return func(i int, rec map[string]any) string {
		switch v := rec["id"].(type) {
		case nil:
			return strconv.Itoa(offset + i + 1)
		case []byte:
			return string(v)
		case string:
			return v
		default:
			return fmt.Sprint(v)
		}
	}
}

// Database returns the connected database name for document meta, or nil
// (JSON null) when the connection URI named none.
func Database(svc *gateway.Service) any {
	if db := svc.Database(); db != "" {
		return db
	}
	return nil
}

// CaseColumns applies kc to every column name.
func CaseColumns(kc jsonapi.KeyCase, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = kc.Convert(c)
	}
	return out
}
