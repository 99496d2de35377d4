package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/salespulse/salespulse/internal/app"
	"github.com/salespulse/salespulse/internal/auth"
	"github.com/salespulse/salespulse/internal/metrics"
	metricshttp "github.com/salespulse/salespulse/internal/metrics/http"
	"github.com/salespulse/salespulse/internal/observability"
	"github.com/salespulse/salespulse/internal/offers"
	"github.com/salespulse/salespulse/internal/platform/cache"
	"github.com/salespulse/salespulse/internal/platform/db"
	"github.com/salespulse/salespulse/internal/products"
	"github.com/salespulse/salespulse/internal/reports"
	"github.com/salespulse/salespulse/internal/shared"
	"github.com/salespulse/salespulse/internal/users"
	"github.com/salespulse/salespulse/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.PGDSN); err != nil {
			logger.Error("run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "salespulse_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	metricsRepo := metrics.NewRepository(pool)
	metricsCache := metrics.NewCache(redisClient, cfg.MetricsCacheTTL)
	metricsService := metrics.NewService(metricsRepo, metricsCache, logger)
	metricsHandler := metricshttp.NewHandler(logger, metricsService)
	metricsHandler.WithStream(metricsService, redisClient)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	reportsRepo := reports.NewRepository(pool)
	reportsService := reports.NewService(reportsRepo, &jobs.QueueNotifier{Client: jobClient}, logger)
	reportsHandler := reports.NewHandler(logger, reportsService)

	usersService := users.NewService(users.NewRepository(pool))
	usersHandler := users.NewHandler(logger, usersService)

	productsService := products.NewService(products.NewRepository(pool))
	productsHandler := products.NewHandler(logger, productsService)

	offersService := offers.NewService(offers.NewRepository(pool))
	offersHandler := offers.NewHandler(logger, offersService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	obs := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SessionManager:  sessionManager,
		AuthHandler:     authHandler,
		MetricsHandler:  metricsHandler,
		ReportsHandler:  reportsHandler,
		UsersHandler:    usersHandler,
		ProductsHandler: productsHandler,
		OffersHandler:   offersHandler,
		JobsHandler:     jobsHandler,
		Metrics:         obs,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
