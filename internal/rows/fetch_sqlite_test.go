package rows

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// sqlite driver for end-to-end fetch tests.
	_ "modernc.org/sqlite"
)

// setupUsersDB creates a users table with n rows named user-1..user-n.
func setupUsersDB(t *testing.T, n int) *sqlx.Conn {
	t.Helper()

	db, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)

	if n > 0 {
		values := make([]string, n)
		for i := range values {
			values[i] = fmt.Sprintf("(%d, 'user-%d')", i+1, i+1)
		}
		_, err = db.ExecContext(ctx, "INSERT INTO users (id, name) VALUES "+strings.Join(values, ", "))
		require.NoError(t, err)
	}

	conn, err := db.Connx(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestFetchPage_SQLite(t *testing.T) {
	conn := setupUsersDB(t, 120)
	ctx := context.Background()

	tests := []struct {
		name      string
		req       PageRequest
		wantFirst int64
		wantRows  int
		wantTotal int64
		wantPages int64
	}{
		{"first page", PageRequest{Page: 1, Limit: Limit{N: 50}}, 1, 50, 120, 3},
		{"second page", PageRequest{Page: 2, Limit: Limit{N: 50}}, 51, 50, 120, 3},
		{"last partial page", PageRequest{Page: 3, Limit: Limit{N: 50}}, 101, 20, 120, 3},
		{"past the end", PageRequest{Page: 9, Limit: Limit{N: 50}}, 0, 0, 120, 3},
		{"all", PageRequest{Page: 1, Limit: LimitAll}, 1, 120, 120, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, total, err := FetchPage(ctx, conn, "users", tt.req)
			require.NoError(t, err)

			p := NewPagination(tt.req, total)
			assert.Equal(t, tt.wantTotal, p.Total)
			assert.Equal(t, tt.wantPages, p.Pages)
			require.Len(t, rs.Rows, tt.wantRows)
			if !tt.req.Limit.All {
				assert.LessOrEqual(t, rs.Len(), tt.req.Limit.N)
			}
			if tt.wantRows > 0 {
				assert.Equal(t, []string{"id", "name"}, rs.Columns)
				assert.Equal(t, tt.wantFirst, rs.Rows[0]["id"])
			} else {
				assert.Empty(t, rs.Columns)
			}
		})
	}
}

func TestFetchPage_SQLiteEmptyTable(t *testing.T) {
	conn := setupUsersDB(t, 0)

	req := PageRequest{Page: 1, Limit: Limit{N: 50}}
	rs, total, err := FetchPage(context.Background(), conn, "users", req)
	require.NoError(t, err)

	assert.Equal(t, int64(0), total)
	assert.Empty(t, rs.Rows)
	assert.Equal(t, int64(1), NewPagination(req, total).Pages)
}

func TestExecuteRaw_SQLite(t *testing.T) {
	conn := setupUsersDB(t, 3)
	ctx := context.Background()

	rs, err := ExecuteRaw(ctx, conn, "INSERT INTO users (name) VALUES ('zoe')")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rs.Rows[0]["affectedRows"])
	assert.Equal(t, int64(4), rs.Rows[0]["insertId"])

	rs, err = ExecuteRaw(ctx, conn, "SELECT name FROM users WHERE id > 2 ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, rs.Columns)
	require.Len(t, rs.Rows, 2)
	assert.Equal(t, "user-3", rs.Rows[0]["name"])
	assert.Equal(t, "zoe", rs.Rows[1]["name"])

	_, err = ExecuteRaw(ctx, conn, "SELECT * FROM nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such table")
}
