// Package schema inspects the live database schema.
//
// Nothing is cached: every call issues one metadata query, so tables
// created or dropped between requests are seen immediately.
package schema

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// listTablesQuery lists base tables and views of the current database.
const listTablesQuery = "SHOW TABLES"

// Querier is satisfied by *sqlx.Conn, *sqlx.DB and *sqlx.Tx.
type Querier interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// ListTables returns the table names of the connected database in the
// order the server reports them.
func ListTables(ctx context.Context, q Querier) ([]string, error) {
	names := []string{}
	if err := q.SelectContext(ctx, &names, listTablesQuery); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return names, nil
}

// TableExists reports whether name matches a table exactly.
func TableExists(ctx context.Context, q Querier, name string) (bool, error) {
	if name == "" {
		return false, nil
	}
	names, err := ListTables(ctx, q)
	if err != nil {
		return false, err
	}
	return slices.Contains(names, name), nil
}

// QuoteIdentifier wraps a table name in backticks for interpolation into
// SQL text. This is the only place identifiers are quoted; callers must
// check TableExists first.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
