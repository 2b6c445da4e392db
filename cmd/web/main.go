package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"gorm.io/gorm"

	"customer-orders-api/internal/config"
	"customer-orders-api/internal/handlers"
	"customer-orders-api/internal/middleware"
	"customer-orders-api/internal/observability"
	"customer-orders-api/internal/query"
	"customer-orders-api/internal/server"
	"customer-orders-api/internal/store"
)

const (
	importTimeout      = 5 * time.Minute
	rateLimiterSweepAt = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"driver", cfg.Database.Driver,
		"addr", cfg.Address(),
	)

	db, err := store.Open(cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := prepareDatabase(db, cfg.Database, logger); err != nil {
		logger.Error("failed to prepare database", "error", err)
		store.Close(db)
		os.Exit(1)
	}

	querier := query.New(db, query.Limits{
		DefaultLimit: cfg.Query.DefaultLimit,
		MaxLimit:     cfg.Query.MaxLimit,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rateLimiter := middleware.NewRateLimiter(cfg.Security)
	go rateLimiter.RunSweeper(ctx, rateLimiterSweepAt)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(querier, rateLimiter, cfg.Security, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("closing database connection")
		return store.Close(db)
	})

	if err := gracefulServer.ListenAndServe(ctx); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}

// newHandler wraps the routes in the middleware stack, outermost first.
func newHandler(querier handlers.Querier, limiter *middleware.RateLimiter, security config.SecurityConfig, logger *slog.Logger) http.Handler {
	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(security),
		middleware.TrustedProxy(security),
		middleware.RateLimit(limiter, logger),
	)
	return chain(server.NewServer(querier, logger))
}

// prepareDatabase creates the schema and, when enabled, imports the CSV files
// into an empty database.
func prepareDatabase(db *gorm.DB, cfg config.DatabaseConfig, logger *slog.Logger) error {
	if err := store.EnsureSchema(db); err != nil {
		return err
	}

	if !cfg.AutoImport {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
	defer cancel()

	importer := store.NewImporter(db, store.ImportConfig{
		UsersCSV:  cfg.UsersCSV,
		OrdersCSV: cfg.OrdersCSV,
		BatchSize: cfg.ImportBatchSize,
	}, logger)

	_, err := importer.Bootstrap(ctx)
	return err
}
