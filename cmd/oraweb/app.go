package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nkiryanov/oraweb/internal/db"
	"github.com/nkiryanov/oraweb/internal/handlers"
	"github.com/nkiryanov/oraweb/internal/logger"
	"github.com/nkiryanov/oraweb/internal/metrics"
	"github.com/nkiryanov/oraweb/internal/repository"
	"github.com/nkiryanov/oraweb/internal/repository/memory"
	"github.com/nkiryanov/oraweb/internal/repository/postgres"
	"github.com/nkiryanov/oraweb/internal/service/auth"
	"github.com/nkiryanov/oraweb/internal/service/auth/password"
	"github.com/nkiryanov/oraweb/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/oraweb/internal/service/layout"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger logger.Logger

	// Release resources (like db pool) after server stopped
	close func()
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	isProd := c.Environment == logger.EnvProd

	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	reg := metrics.NewRegistry()
	m := metrics.New(reg)

	// Initialize repositories
	var storage repository.Storage
	closeStorage := func() {}
	if c.DatabaseDSN == "" {
		logger.Warn("database not configured, data is kept in memory and lost on restart")
		storage = memory.NewStorage()
	} else {
		// Connect to the database and run migrations
		pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
		}
		storage = postgres.NewStorage(pool)
		closeStorage = pool.Close
	}

	// Initialize services
	hasher, err := password.New(password.Config{Cost: c.BcryptCost, Durations: m.HashDuration})
	if err != nil {
		closeStorage()
		return nil, fmt.Errorf("error while creating password hasher. Err: %w", err)
	}
	tokenManager, err := tokenmanager.New(tokenmanager.Config{AccessSecret: c.AccessSecret, RefreshSecret: c.RefreshSecret})
	if err != nil {
		closeStorage()
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	authService, err := auth.NewService(
		auth.Config{
			StoreTimeout: c.StoreTimeout,
			SecureCookie: isProd,
			Hasher:       hasher,
			Logger:       logger.With("service", "auth"),
		},
		tokenManager,
		storage.User(),
	)
	if err != nil {
		closeStorage()
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	layoutService, err := layout.NewService(layout.Config{StoreTimeout: c.StoreTimeout}, storage.Layout())
	if err != nil {
		closeStorage()
		return nil, fmt.Errorf("error while creating layout service. Err: %w", err)
	}

	mux := handlers.NewRouter(
		handlers.RouterConfig{
			CORSOrigins:     c.CORSOrigins,
			Metrics:         m,
			MetricsExporter: metrics.Handler(reg),
		},
		authService,
		layoutService,
		logger,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		logger:     logger,
		close:      closeStorage,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
// Returns nil if server stopped by context
func (s *ServerApp) Run(ctx context.Context) error {
	defer s.close()

	httpServer := &http.Server{
		Addr:              s.ListenAddr,
		Handler:           s.Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
