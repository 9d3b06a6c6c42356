package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/simple_bank_app/internal/core/ports/events"
	portsrepo "github.com/SscSPs/simple_bank_app/internal/core/ports/repositories"
	"github.com/SscSPs/simple_bank_app/internal/core/services"
	"github.com/SscSPs/simple_bank_app/internal/events/kafka"
	"github.com/SscSPs/simple_bank_app/internal/events/logging"
	"github.com/SscSPs/simple_bank_app/internal/handlers"
	"github.com/SscSPs/simple_bank_app/internal/middleware"
	"github.com/SscSPs/simple_bank_app/internal/platform/config"
	"github.com/SscSPs/simple_bank_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/simple_bank_app/internal/repositories/memory"
	"github.com/SscSPs/simple_bank_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// @title Simple Bank API
// @version 1.0
// @description Account lookup, balances, ledger history and money transfers.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	repos, closeStorage, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	publisher, closePublisher := setupPublisher(cfg, logger)
	defer closePublisher()

	serviceContainer := services.NewServiceContainer(repos, publisher)

	if cfg.SeedDemoData {
		if err := serviceContainer.Account.SeedDemoData(ctx); err != nil {
			return err
		}
		logger.Info("Demo data ready.")
	}

	var transferLimiter *limiter.Limiter
	if cfg.TransferRateLimit != "" {
		transferLimiter, err = middleware.NewMemoryRateLimiter(cfg.TransferRateLimit)
		if err != nil {
			return fmt.Errorf("invalid TRANSFER_RATE_LIMIT %q: %w", cfg.TransferRateLimit, err)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, transferLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// setupStorage builds the repositories for the configured storage driver.
func setupStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	if cfg.RunMigrations {
		logger.Info("Running database migrations...")
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			dbPool.Close()
			return portsrepo.RepositoryProvider{}, nil, err
		}
	}

	repos := pgsql.NewRepositoryProvider(dbPool, pgsql.RetryPolicy{
		MaxRetries: cfg.TransferMaxRetries,
		BaseDelay:  cfg.TransferRetryBaseDelay,
	})
	return repos, dbPool.Close, nil
}

// setupPublisher returns the Kafka publisher when brokers are configured, otherwise a log-only publisher.
func setupPublisher(cfg *config.Config, logger *slog.Logger) (events.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return logging.Publisher{}, func() {}
	}

	publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTransferTopic)
	logger.Info("Publishing transfer events to Kafka", slog.String("topic", cfg.KafkaTransferTopic))
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close Kafka writer", slog.String("error", err.Error()))
		}
	}
}
