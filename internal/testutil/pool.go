package testutil

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlgate/internal/pool"
)

// NewMockPool returns a pool of the given size over a sqlmock handle.
// Statements are matched literally with sqlmock.QueryMatcherEqual. The
// pool is shut down when the test ends.
func NewMockPool(t testing.TB, size int) (*pool.Pool, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	p := pool.New(sqlx.NewDb(db, "sqlmock"), pool.Options{
		Size:   size,
		Logger: NewTestLogger(t),
	})
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	return p, mock
}
