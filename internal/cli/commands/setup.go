package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlgate/internal/cli/config"
	"github.com/leapstack-labs/sqlgate/internal/connection"
	"github.com/leapstack-labs/sqlgate/internal/gateway"
	"github.com/leapstack-labs/sqlgate/internal/pool"
)

// ErrNoDatabaseURL is returned when no URI was configured or entered.
var ErrNoDatabaseURL = errors.New("no database url configured (set --database-url, SQLGATE_DATABASE_URL or database_url)")

// openPool builds the pool for a descriptor. Tests replace it with a
// sqlmock-backed pool.
var openPool = func(d *connection.Descriptor, opts pool.Options) (*pool.Pool, error) {
	return pool.Open(d, opts)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg     *config.Config
	Logger  *slog.Logger
	Service *gateway.Service
}

// NewCommandContext resolves the connection URI, opens the pool and
// verifies connectivity. Any failure is returned before a command does
// real work. The cleanup function shuts the pool down and must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	ctx := cmd.Context()
	cfg := config.GetConfig(ctx)
	logger := config.GetLogger(ctx)

	uri, err := resolveDatabaseURL(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}

	desc, err := connection.Parse(uri)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range desc.Warnings() {
		logger.Warn(w)
	}
	logger.Info("connecting", slog.String("uri", desc.Redacted()), slog.Int("pool_size", cfg.PoolSize))

	p, err := openPool(desc, pool.Options{Size: cfg.PoolSize, Logger: logger})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		timeout := cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = config.DefaultShutdownTimeout
		}
		sctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := p.Shutdown(sctx); err != nil {
			logger.Warn("pool shutdown", slog.String("error", err.Error()))
		}
	}

	if err := p.TestConnectivity(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("cannot connect to %s: %w", desc.Redacted(), err)
	}

	svc := gateway.New(p, gateway.Options{
		Database:     desc.Database,
		DefaultLimit: cfg.DefaultLimit,
		QueryTimeout: cfg.QueryTimeout,
		Logger:       logger,
	})

	return &CommandContext{
		Cfg:     cfg,
		Logger:  logger,
		Service: svc,
	}, cleanup, nil
}

// resolveDatabaseURL returns the configured URI, falling back to an
// interactive prompt when stdin is a terminal.
func resolveDatabaseURL(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL, nil
	}
	if !stdinIsTerminal() {
		return "", ErrNoDatabaseURL
	}

	uri, err := promptSecret(cmd.ErrOrStderr(), "Database URL: ")
	if err != nil {
		return "", fmt.Errorf("failed to read database url: %w", err)
	}
	if uri == "" {
		return "", ErrNoDatabaseURL
	}
	return uri, nil
}
