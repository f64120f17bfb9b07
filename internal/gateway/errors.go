package gateway

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/sqlgate/internal/pool"
)

var (
	// ErrInvalidInput marks caller mistakes: bad pagination, empty query text.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a table that does not exist in the connected database.
	ErrNotFound = errors.New("not found")
)

// DatabaseError wraps any failure that happened while using an acquired
// connection, including malformed raw SQL.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// Detail returns the driver's own message, without operation context.
// It is reported to API callers verbatim and may include schema names.
func (e *DatabaseError) Detail() string {
	var myErr *mysql.MySQLError
	if errors.As(e.Err, &myErr) {
		return myErr.Message
	}
	return e.Err.Error()
}

// Number returns the MySQL error number, or 0 when the failure did not
// come from the server.
func (e *DatabaseError) Number() uint16 {
	var myErr *mysql.MySQLError
	if errors.As(e.Err, &myErr) {
		return myErr.Number
	}
	return 0
}

// classify leaves gateway and shutdown errors alone and wraps everything
// else as a DatabaseError.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) || errors.Is(err, pool.ErrClosed) {
		return err
	}
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return err
	}
	return &DatabaseError{Op: op, Err: err}
}
