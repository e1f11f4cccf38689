package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	portsrepo "github.com/SscSPs/bukubesar/internal/core/ports/repositories"
	"github.com/SscSPs/bukubesar/internal/core/services"
	"github.com/SscSPs/bukubesar/internal/handlers"
	"github.com/SscSPs/bukubesar/internal/middleware"
	"github.com/SscSPs/bukubesar/internal/platform/config"
	"github.com/SscSPs/bukubesar/internal/platform/metrics"
	"github.com/SscSPs/bukubesar/internal/repositories/database/pgsql"
	"github.com/SscSPs/bukubesar/internal/repositories/memory"
	"github.com/SscSPs/bukubesar/pkg/database"
	"github.com/gin-gonic/gin"
)

// @title Bukubesar API
// @version 1.0
// @description Double-entry journal posting with period closing.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	metrics.Init()

	var repos portsrepo.RepositoryProvider
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("Using in-memory storage; the ledger is lost on restart")
		repos = memory.NewRepositoryProvider(memory.New())
	default:
		dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer dbPool.Close()
		logger.Info("Database connection pool established.")

		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		repos = pgsql.NewRepositoryProvider(dbPool)
	}

	serviceContainer := services.NewServiceContainer(cfg, repos,
		services.WithPeriodEventListener(func(ctx context.Context, ev domain.PeriodEvent) {
			middleware.GetLoggerFromCtx(ctx).Info("Period transition committed",
				slog.String("period", ev.Period.String()),
				slog.String("action", string(ev.Action)),
				slog.String("from", string(ev.From)),
				slog.String("to", string(ev.To)),
				slog.String("actor", ev.Actor),
				slog.String("reason", ev.Reason),
			)
		}),
	)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.String("storage", cfg.StorageDriver),
		slog.String("currency", cfg.LedgerCurrency),
		slog.String("timezone", cfg.LedgerLocation.String()),
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
