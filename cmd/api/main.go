package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "quotation_service/docs"
	"quotation_service/internal/adapter/http/middleware"
	"quotation_service/internal/adapter/http/routes"
	"quotation_service/internal/adapter/persistence/repository"
	"quotation_service/internal/config"
	"quotation_service/internal/infrastructure/cache"
	"quotation_service/internal/infrastructure/database"
	"quotation_service/internal/usecase"
	"quotation_service/internal/usecase/interfaces"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

// @title           Quotation Service API
// @version         1.0
// @description     Utility connection quotations with shareable proposal links.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:5000

// @BasePath  /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger := config.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := newRepository(ctx, cfg, logger)
	if err != nil {
		config.LogError(logger, "main.go", "newRepository", "connect store", cfg.StoreDriver, err)
		logger.Fatal("quotation store unavailable")
	}
	defer closeStore()

	limiter, closeLimiter := newRateLimiter(ctx, cfg, logger)
	defer closeLimiter()

	uc := usecase.NewQuotationUseCase(repo, usecase.QuotationUseCaseConfig{
		PublicBaseURL: cfg.PublicBaseURL,
		AllowResend:   cfg.AllowResend,
		Logger:        logger,
	})

	router := routes.NewRouter(routes.Dependencies{
		Config:           cfg,
		Logger:           logger,
		QuotationUseCase: uc,
		RateLimiter:      limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.Env, "store": cfg.StoreDriver}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("failed to start the application")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	logger.Info("server gracefully stopped")
}

func newRepository(ctx context.Context, cfg config.Config, logger *logrus.Logger) (interfaces.IQuotationRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres, config.StoreSQLite:
		db, err := database.ConnectGorm(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					logger.WithError(err).Warn("closing database")
				}
			}
		}
		return repository.NewQuotationGormRepository(db), closeDB, nil
	default:
		ddb, err := database.ConnectDynamoDB(ctx, cfg.AWS)
		if err != nil {
			return nil, nil, err
		}
		// the DynamoDB client holds no connection to release
		return repository.NewQuotationDynamoRepository(ddb, cfg.AWS.QuotationsTable), func() {}, nil
	}
}

// newRateLimiter returns a nil limiter when rate limiting is off or Redis is
// unreachable.
func newRateLimiter(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*middleware.RateLimiter, func()) {
	noop := func() {}
	if !cfg.RateLimit.Enabled {
		return nil, noop
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisAddress)
	if err != nil {
		logger.WithError(err).Warn("rate limiting disabled")
		return nil, noop
	}
	limiter := middleware.NewRateLimiter(cache.NewFixedWindow(client), cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, logger)
	return limiter, func() { _ = client.Close() }
}
