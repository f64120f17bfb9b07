// Package pool owns the shared database connection pool.
//
// The pool is built lazily over database/sql: no physical connection is
// opened until the first Acquire. Callers take an exclusively-owned
// connection with Acquire and hand it back with Conn.Release, or use With
// to get the release on every exit path:
//
//	err := p.With(ctx, func(conn *pool.Conn) error {
//	    return conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM `users`")
//	})
//
// Shutdown stops new acquisitions, waits for in-flight ones to be released
// and then closes every physical connection.
package pool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/leapstack-labs/sqlgate/internal/connection"
)

// DefaultSize is the number of physical connections a pool holds.
const DefaultSize = 5

// DriverName is the database/sql driver name used by Open.
const DriverName = "mysql"

// ErrClosed is returned by Acquire once Shutdown has started.
var ErrClosed = errors.New("connection pool is closed")

// Options configures a Pool.
type Options struct {
	// Size caps open and idle connections. Zero means DefaultSize.
	Size   int
	Logger *slog.Logger
}

// Pool is a bounded set of reusable connections shared by all requests.
type Pool struct {
	db     *sqlx.DB
	logger *slog.Logger
	size   int

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup

	acquired atomic.Int64
	released atomic.Int64

	shutdownOnce sync.Once
	shutdownErr  error
}

// Stats is a point-in-time view of pool usage.
type Stats struct {
	sql.DBStats
	Size     int
	Acquired int64
	Released int64
}

// Open creates a pool for the given descriptor. No connection is made
// until the first acquisition; call TestConnectivity to fail fast.
func Open(d *connection.Descriptor, opts Options) (*Pool, error) {
	connector, err := mysql.NewConnector(d.Config())
	if err != nil {
		return nil, fmt.Errorf("failed to build connector for %s: %w", d.Redacted(), err)
	}
	return New(sqlx.NewDb(sql.OpenDB(connector), DriverName), opts), nil
}

// New wraps an existing handle. Used directly by tests with sqlmock.
func New(db *sqlx.DB, opts Options) *Pool {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db.SetMaxOpenConns(size)
	db.SetMaxIdleConns(size)

	return &Pool{
		db:     db,
		logger: logger,
		size:   size,
	}
}

// Acquire takes a connection from the pool, blocking while all connections
// are in use. The returned Conn must be released exactly once.
func (p *Pool) Acquire(ctx context.Context) (*Conn, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	p.inflight.Add(1)
	p.mu.Unlock()

	conn, err := p.db.Connx(ctx)
	if err != nil {
		p.inflight.Done()
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	p.acquired.Add(1)
	return &Conn{Conn: conn, pool: p}, nil
}

// With runs fn on an acquired connection and releases it afterwards,
// whether fn succeeds, fails or panics.
func (p *Pool) With(ctx context.Context, fn func(*Conn) error) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	return fn(conn)
}

// TestConnectivity acquires a connection, pings it and releases it.
// Used once at startup so a broken pool is never served.
func (p *Pool) TestConnectivity(ctx context.Context) error {
	return p.With(ctx, func(conn *Conn) error {
		if err := conn.PingContext(ctx); err != nil {
			return fmt.Errorf("ping failed: %w", err)
		}
		return nil
	})
}

// Shutdown stops new acquisitions, waits for in-flight connections to be
// released (or ctx to expire) and closes the pool. Safe to call more than
// once; later calls return the first result.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		done := make(chan struct{})
		go func() {
			p.inflight.Wait()
			close(done)
		}()

		var waitErr error
		select {
		case <-done:
		case <-ctx.Done():
			waitErr = fmt.Errorf("waiting for in-flight connections: %w", ctx.Err())
			p.logger.Warn("closing pool with connections still in use",
				slog.Int("in_use", p.db.Stats().InUse))
		}

		p.logger.Debug("closing connection pool")
		p.shutdownErr = errors.Join(waitErr, p.db.Close())
	})
	return p.shutdownErr
}

// Closed reports whether Shutdown has been called.
func (p *Pool) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Stats returns pool statistics including acquire/release counters.
func (p *Pool) Stats() Stats {
	return Stats{
		DBStats:  p.db.Stats(),
		Size:     p.size,
		Acquired: p.acquired.Load(),
		Released: p.released.Load(),
	}
}

// DB exposes the underlying handle for stats collectors.
func (p *Pool) DB() *sql.DB {
	return p.db.DB
}

// Conn is a connection exclusively owned by one caller until released.
type Conn struct {
	*sqlx.Conn
	pool *Pool
	once sync.Once
}

// Release returns the connection to the pool. Calls after the first are
// no-ops.
func (c *Conn) Release() {
	c.once.Do(func() {
		if err := c.Conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			c.pool.logger.Warn("failed to release connection", slog.String("error", err.Error()))
		}
		c.pool.released.Add(1)
		c.pool.inflight.Done()
	})
}
