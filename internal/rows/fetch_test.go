package rows

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockConn(t *testing.T) (*sqlx.Conn, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn, err := sqlx.NewDb(db, "sqlmock").Connx(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn, mock
}

func TestFetchPage(t *testing.T) {
	conn, mock := newMockConn(t)

	mock.ExpectQuery("SELECT * FROM `users` LIMIT ? OFFSET ?").
		WithArgs(2, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(3), "carol").
			AddRow(int64(4), "dave"))
	mock.ExpectQuery("SELECT COUNT(*) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(5))

	rs, total, err := FetchPage(context.Background(), conn, "users", PageRequest{Page: 2, Limit: Limit{N: 2}})
	require.NoError(t, err)

	assert.Equal(t, int64(5), total)
	assert.Equal(t, []string{"id", "name"}, rs.Columns)
	require.Len(t, rs.Rows, 2)
	assert.Equal(t, int64(3), rs.Rows[0]["id"])
	assert.Equal(t, "carol", rs.Rows[0]["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPage_All(t *testing.T) {
	conn, mock := newMockConn(t)

	mock.ExpectQuery("SELECT * FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(3))

	rs, total, err := FetchPage(context.Background(), conn, "users", PageRequest{Page: 1, Limit: LimitAll})
	require.NoError(t, err)

	assert.Equal(t, int64(3), total)
	assert.Equal(t, 3, rs.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPage_EmptyTableHasNoColumns(t *testing.T) {
	conn, mock := newMockConn(t)

	mock.ExpectQuery("SELECT * FROM `empty` LIMIT ? OFFSET ?").
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectQuery("SELECT COUNT(*) FROM `empty`").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(0))

	rs, total, err := FetchPage(context.Background(), conn, "empty", PageRequest{Page: 1, Limit: Limit{N: 50}})
	require.NoError(t, err)

	assert.Equal(t, int64(0), total)
	assert.Empty(t, rs.Rows)
	assert.NotNil(t, rs.Columns)
	assert.Empty(t, rs.Columns)
}

func TestFetchPage_QuotesIdentifier(t *testing.T) {
	conn, mock := newMockConn(t)

	mock.ExpectQuery("SELECT * FROM `odd``name`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := FetchPage(context.Background(), conn, "odd`name", PageRequest{Page: 1, Limit: LimitAll})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPage_Errors(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		errMsg    string
	}{
		{
			name: "data query fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT * FROM `users` LIMIT ? OFFSET ?").
					WithArgs(50, 0).
					WillReturnError(assert.AnError)
			},
			errMsg: "failed to read `users`",
		},
		{
			name: "count query fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT * FROM `users` LIMIT ? OFFSET ?").
					WithArgs(50, 0).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
				mock.ExpectQuery("SELECT COUNT(*) FROM `users`").
					WillReturnError(assert.AnError)
			},
			errMsg: "failed to count `users`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock := newMockConn(t)
			tt.setupMock(mock)

			_, _, err := FetchPage(context.Background(), conn, "users", PageRequest{Page: 1, Limit: Limit{N: 50}})
			require.Error(t, err)
			assert.ErrorIs(t, err, assert.AnError)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestExecuteRaw_Select(t *testing.T) {
	conn, mock := newMockConn(t)

	mock.ExpectQuery("SELECT id, total FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "total"}).AddRow(int64(1), []byte("9.99")))

	rs, err := ExecuteRaw(context.Background(), conn, "SELECT id, total FROM orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "total"}, rs.Columns)
	assert.Equal(t, 1, rs.Len())
}

func TestExecuteRaw_Exec(t *testing.T) {
	conn, mock := newMockConn(t)

	mock.ExpectExec("UPDATE orders SET status = 'shipped'").
		WillReturnResult(sqlmock.NewResult(0, 4))

	rs, err := ExecuteRaw(context.Background(), conn, "UPDATE orders SET status = 'shipped'")
	require.NoError(t, err)
	assert.Equal(t, []string{"affectedRows", "insertId"}, rs.Columns)
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, int64(4), rs.Rows[0]["affectedRows"])
	assert.Equal(t, int64(0), rs.Rows[0]["insertId"])
}

func TestExecuteRaw_Empty(t *testing.T) {
	conn, _ := newMockConn(t)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := ExecuteRaw(context.Background(), conn, q)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
}

func TestExecuteRaw_DriverError(t *testing.T) {
	conn, mock := newMockConn(t)

	// Unknown leading keywords run as exec.
	mock.ExpectExec("SELEC broken").WillReturnError(assert.AnError)

	_, err := ExecuteRaw(context.Background(), conn, "SELEC broken")
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestReturnsRows(t *testing.T) {
	tests := []struct {
		sql  string
		want bool
	}{
		{"SELECT 1", true},
		{"  select * from users", true},
		{"(SELECT 1) UNION (SELECT 2)", true},
		{"SHOW TABLES", true},
		{"DESCRIBE users", true},
		{"desc users", true},
		{"EXPLAIN SELECT 1", true},
		{"WITH t AS (SELECT 1) SELECT * FROM t", true},
		{"-- comment\nSELECT 1", true},
		{"# comment\nSELECT 1", true},
		{"/* hint */ SELECT 1", true},
		{"CALL refresh_stats()", true},
		{"CHECK TABLE users", true},
		{"ANALYZE TABLE users", true},
		{"OPTIMIZE TABLE users", true},
		{"REPAIR TABLE users", true},
		{"CHECKSUM TABLE users", true},
		{"HELP 'contents'", true},
		{"HANDLER users READ FIRST", true},
		{"handler `users` read `PRIMARY` NEXT", true},
		{"HANDLER users OPEN", false},
		{"HANDLER users CLOSE", false},
		{"INSERT INTO users (name) VALUES ('x')", false},
		{"UPDATE users SET name = 'y'", false},
		{"DELETE FROM users", false},
		{"CREATE TABLE t (id INT)", false},
		{"-- only a comment", false},
		{"/* unterminated", false},
	}

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.want, ReturnsRows(tt.sql))
		})
	}
}
