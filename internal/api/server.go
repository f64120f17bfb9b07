// Package api provides the HTTP server for the table-browsing gateway.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	homeFeature "github.com/leapstack-labs/sqlgate/internal/api/features/home"
	"github.com/leapstack-labs/sqlgate/internal/api/metrics"
	"github.com/leapstack-labs/sqlgate/internal/api/router"
	"github.com/leapstack-labs/sqlgate/internal/gateway"
	"github.com/leapstack-labs/sqlgate/pkg/jsonapi"
)

// DefaultPort is the listen port when none is configured.
const DefaultPort = 3000

// DefaultShutdownTimeout bounds graceful shutdown when none is configured.
const DefaultShutdownTimeout = 10 * time.Second

// Server is the gateway HTTP server.
type Server struct {
	svc             *gateway.Service
	metrics         *metrics.Metrics
	port            int
	keyCase         jsonapi.KeyCase
	version         string
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// Config holds configuration for the API server.
type Config struct {
	Service         *gateway.Service
	Port            int
	KeyCase         jsonapi.KeyCase
	Version         string
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// NewServer creates a new API server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	return &Server{
		svc:             cfg.Service,
		metrics:         metrics.New(cfg.Service.Pool().DB(), cfg.Service.Database()),
		port:            port,
		keyCase:         cfg.KeyCase,
		version:         cfg.Version,
		shutdownTimeout: timeout,
		logger:          logger,
	}
}

// Metrics returns the server's metrics registry wrapper.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// Handler builds the router with middleware and all routes.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		RequestID,
		RequestLogger(s.logger),
		s.metrics.Middleware,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, router.Options{
		Service: s.svc,
		Metrics: s.metrics,
		KeyCase: s.keyCase,
		Info:    homeFeature.Info{Name: "sqlgate", Version: s.version},
		Logger:  s.logger,
	}); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}

	return r, nil
}

// Serve listens on the configured port and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then stops accepting
// requests, waits for in-flight ones and shuts the pool down. Both steps
// share one shutdown timeout.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	handler, err := s.Handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	s.logger.Info("starting API server", "addr", "http://"+ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	// Requests outlive the serve context so in-flight queries can finish
	// during graceful shutdown.
	baseCtx := context.WithoutCancel(ctx)
	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return baseCtx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down API server")
		return errors.Join(
			srv.Shutdown(shutdownCtx),
			s.svc.Pool().Shutdown(shutdownCtx),
		)
	})

	err = eg.Wait()
	s.logger.Info("server stopped")
	return err
}
