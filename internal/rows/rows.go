// Package rows retrieves row data for the gateway: paginated table pages,
// raw statement execution and value normalization.
package rows

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrEmptyQuery is returned by ExecuteRaw for blank SQL text.
var ErrEmptyQuery = errors.New("query text is empty")

// Row maps column names to driver values.
type Row map[string]any

// ResultSet is an ordered list of rows plus the column order of the first
// row. Columns is empty when Rows is empty.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int {
	return len(rs.Rows)
}

// Queryer is the subset of *sqlx.Conn used to fetch rows.
type Queryer interface {
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scan drains rows into a ResultSet, preserving column order.
func scan(rows *sqlx.Rows) (*ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	rs := &ResultSet{Columns: []string{}, Rows: []Row{}}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Heterogeneous row shapes are not reconciled: the column list is the
	// first row's keys, and an empty set has no columns.
	if len(rs.Rows) > 0 {
		rs.Columns = cols
	}
	return rs, nil
}
