package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nkarpov/authd/internal/db"
	"github.com/nkarpov/authd/internal/handlers"
	"github.com/nkarpov/authd/internal/logger"
	"github.com/nkarpov/authd/internal/repository/postgres"
	"github.com/nkarpov/authd/internal/revocation"
	"github.com/nkarpov/authd/internal/service/auth"
	"github.com/nkarpov/authd/internal/service/auth/tokencodec"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DSN())
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}
	storage := postgres.NewStorage(pool)

	// Connect to the revocation store
	redisOpts, err := c.RedisOptions()
	if err != nil {
		return nil, fmt.Errorf("error while parsing redis options. Err: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("error while connecting to redis. Err: %w", err)
	}
	revoked := revocation.NewRedisStore(redisClient)

	// Initialize services
	codec, err := tokencodec.New(tokencodec.Config{
		SecretKey:  c.SecretKey,
		Alg:        c.Algorithm,
		AccessTTL:  c.AccessTTL(),
		RefreshTTL: c.RefreshTTL(),
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token codec. Err: %w", err)
	}

	authService, err := auth.NewService(auth.Config{}, codec, revoked, storage)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	mux := handlers.NewRouter(authService, logger)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
