package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/naksyetu/naksyetu-go/internal/config"
	"github.com/naksyetu/naksyetu-go/internal/daraja"
	"github.com/naksyetu/naksyetu-go/internal/postgres"
	"github.com/naksyetu/naksyetu-go/internal/redis"
	postgresrepo "github.com/naksyetu/naksyetu-go/internal/repository/postgres"
	redisrepo "github.com/naksyetu/naksyetu-go/internal/repository/redis"
	"github.com/naksyetu/naksyetu-go/internal/service"
	"github.com/naksyetu/naksyetu-go/internal/service/payment"
	httpgin "github.com/naksyetu/naksyetu-go/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{
		DSN:      dsn,
		MaxConns: cfg.Postgres.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redis.New(context.Background(), redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	sessions := redisrepo.NewSessionStore(rdb, cfg.Checkout.SessionTTL)
	pubsub := redisrepo.NewPaymentsPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "rl", 10, 1*time.Minute)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	// Initialize M-Pesa gateway client
	gateway := daraja.New(daraja.Config{
		ConsumerKey:    cfg.Daraja.ConsumerKey,
		ConsumerSecret: cfg.Daraja.ConsumerSecret,
		Shortcode:      cfg.Daraja.Shortcode,
		Passkey:        cfg.Daraja.Passkey,
		Environment:    cfg.Daraja.Environment,
		CallbackURL:    cfg.Daraja.CallbackURL,
	})

	// Initialize services
	services := service.NewServices(store, cache, sessions, pubsub, gateway, logger, service.Config{
		Payment: payment.Config{
			AccountPrefix: cfg.Checkout.AccountPrefix,
			WatchTimeout:  cfg.Checkout.WatchTimeout,
			PollInterval:  cfg.Checkout.PollInterval,
		},
	})

	// Initialize Gin router
	router := httpgin.NewRouter(services, idempotencyStore, limiter, logger, cfg.Server.CORSOrigins)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
