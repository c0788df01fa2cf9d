package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"sentra-hq/sentra/pkg/config"
	"sentra-hq/sentra/pkg/service"
	"sentra-hq/sentra/pkg/telemetry/metrics"
)

// Server is the HTTP API server.
type Server struct {
	config  config.ServerConfig
	service *service.Service
	metrics *metrics.Collector
	logger  *slog.Logger

	maxBatchItems int

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.Mutex
	isRunning    bool
}

// Options configures a Server.
type Options struct {
	Config  config.ServerConfig
	Service *service.Service

	// Metrics, when set, mounts its handler at /metrics.
	Metrics *metrics.Collector

	Logger *slog.Logger

	// MaxBatchItems caps items per batch request. Zero means unlimited.
	MaxBatchItems int
}

// New creates a Server.
func New(opts Options) (*Server, error) {
	if opts.Service == nil {
		return nil, fmt.Errorf("server: service is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Server{
		config:        opts.Config,
		service:       opts.Service,
		metrics:       opts.Metrics,
		logger:        opts.Logger.With("component", "server"),
		maxBatchItems: opts.MaxBatchItems,
	}, nil
}

// Handler builds the full route and middleware stack. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/scan/prompt", s.handleScanPrompt)
	mux.HandleFunc("POST /v1/scan/output", s.handleScanOutput)
	mux.HandleFunc("POST /v1/scan/batch", s.handleScanBatch)
	mux.HandleFunc("GET /v1/scanners", s.handleListScanners)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = bodyLimitMiddleware(s.config.MaxBodyBytes)(handler)
	handler = loggingMiddleware(s.logger)(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(s.logger)(handler)
	return handler
}

// Start runs the server and blocks until the context is cancelled, a
// shutdown signal arrives, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown stops the server gracefully, bounded by the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown",
			"timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}
