// Package gateway runs the request-scoped database work behind the HTTP API
// and the CLI: acquire a connection, validate, fetch, normalize, release.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leapstack-labs/sqlgate/internal/pool"
	"github.com/leapstack-labs/sqlgate/internal/rows"
	"github.com/leapstack-labs/sqlgate/internal/schema"
)

// Options configures a Service.
type Options struct {
	// Database is the connected database name, reported in metadata.
	Database string

	// DefaultLimit is the page size when a request gives none.
	DefaultLimit int

	// QueryTimeout bounds each operation. Zero means no timeout.
	QueryTimeout time.Duration

	Logger *slog.Logger
}

// Service runs gateway operations against a pool. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	pool         *pool.Pool
	database     string
	defaultLimit int
	queryTimeout time.Duration
	logger       *slog.Logger
}

// TablePage is one page of a table's rows.
type TablePage struct {
	Table      string
	Result     *rows.ResultSet
	Pagination rows.Pagination
	Offset     int
}

// New creates a Service over p.
func New(p *pool.Pool, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limit := opts.DefaultLimit
	if limit <= 0 {
		limit = rows.DefaultLimit
	}
	return &Service{
		pool:         p,
		database:     opts.Database,
		defaultLimit: limit,
		queryTimeout: opts.QueryTimeout,
		logger:       logger,
	}
}

// Database returns the connected database name. It may be empty.
func (s *Service) Database() string {
	return s.database
}

// Pool returns the underlying pool.
func (s *Service) Pool() *pool.Pool {
	return s.pool
}

// ParsePageRequest parses request-supplied pagination strings using the
// service's default limit.
func (s *Service) ParsePageRequest(page, limit string) (rows.PageRequest, error) {
	req, err := rows.ParsePageRequest(page, limit, s.defaultLimit)
	if err != nil {
		return rows.PageRequest{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return req, nil
}

// ListTables returns the table names of the connected database.
func (s *Service) ListTables(ctx context.Context) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var tables []string
	err := s.pool.With(ctx, func(conn *pool.Conn) error {
		var err error
		tables, err = schema.ListTables(ctx, conn)
		return err
	})
	if err != nil {
		return nil, classify("list tables", err)
	}
	return tables, nil
}

// TableData returns one page of table. The table must exist; its name is
// checked against the live table list before any row query is built.
func (s *Service) TableData(ctx context.Context, table string, req rows.PageRequest) (*TablePage, error) {
	if table == "" {
		return nil, fmt.Errorf("%w: table name is required", ErrInvalidInput)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		rs    *rows.ResultSet
		total int64
	)
	err := s.pool.With(ctx, func(conn *pool.Conn) error {
		exists, err := schema.TableExists(ctx, conn, table)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: table %q does not exist", ErrNotFound, table)
		}

		rs, total, err = rows.FetchPage(ctx, conn, table, req)
		return err
	})
	if err != nil {
		return nil, classify("fetch table", err)
	}

	rows.NormalizeAll(rs)

	s.logger.Debug("fetched table page",
		"table", table,
		"page", req.Page,
		"limit", req.Limit.String(),
		"rows", rs.Len(),
		"total", total)

	return &TablePage{
		Table:      table,
		Result:     rs,
		Pagination: rows.NewPagination(req, total),
		Offset:     req.Offset(),
	}, nil
}

// Query executes arbitrary SQL text. There is no statement-type restriction.
func (s *Service) Query(ctx context.Context, sqlText string) (*rows.ResultSet, error) {
	if strings.TrimSpace(sqlText) == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, rows.ErrEmptyQuery)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	var rs *rows.ResultSet
	err := s.pool.With(ctx, func(conn *pool.Conn) error {
		var err error
		rs, err = rows.ExecuteRaw(ctx, conn, sqlText)
		return err
	})
	if err != nil {
		return nil, classify("execute query", err)
	}

	rows.NormalizeAll(rs)

	s.logger.Debug("executed query", "rows", rs.Len(), "duration", time.Since(start))
	return rs, nil
}

// Ping checks connectivity through a scoped acquisition.
func (s *Service) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return classify("ping", s.pool.TestConnectivity(ctx))
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}
