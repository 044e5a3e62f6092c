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

	"github.com/listforge/listforge/internal/app"
	"github.com/listforge/listforge/internal/attrs"
	"github.com/listforge/listforge/internal/batch"
	"github.com/listforge/listforge/internal/catalog"
	"github.com/listforge/listforge/internal/filters"
	"github.com/listforge/listforge/internal/observability"
	"github.com/listforge/listforge/internal/offers"
	"github.com/listforge/listforge/internal/platform/cache"
	"github.com/listforge/listforge/internal/platform/db"
	"github.com/listforge/listforge/internal/shared"
	"github.com/listforge/listforge/internal/tags"
	"github.com/listforge/listforge/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

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

	kv := shared.NewKV(redisClient, logger)
	metrics := observability.NewMetrics()

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	offerStore := offers.NewStore(kv)
	offersHandler := offers.NewHandler(logger, offerStore)

	filterStore := filters.NewStore(kv)
	filtersHandler := filters.NewHandler(logger, filterStore, catalogService)

	tagStore := tags.NewStore(kv)
	tagsHandler := tags.NewHandler(logger, tagStore)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	submitter := batch.NewSimulatedSubmitter(cfg.SubmitSuccessRate, cfg.SubmitDelay)
	notifier := batch.NewNotifier(redisClient, logger)
	batchRepo := batch.NewRepository(pool)
	batchService := batch.NewService(batchRepo, submitter, notifier, metrics, logger)
	batchHandler := batch.NewHandler(logger, batchService, jobsClient)

	// The dashboard holds its own subscription and refetches on change; the
	// server-side listener only surfaces churn in the logs.
	watcher := batch.NewWatcher(redisClient, logger)
	if err := watcher.Listen(ctx, func(table string) {
		logger.Debug("batch table changed", slog.String("table", table))
	}); err != nil {
		logger.Warn("batch watcher", slog.Any("error", err))
	}

	attrsRepo := attrs.NewRepository(pool)
	attrsHandler := attrs.NewHandler(logger, attrsRepo)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		CatalogHandler: catalogHandler,
		OffersHandler:  offersHandler,
		FiltersHandler: filtersHandler,
		TagsHandler:    tagsHandler,
		BatchHandler:   batchHandler,
		AttrsHandler:   attrsHandler,
		JobHandler:     jobHandler,
		Metrics:        metrics,
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
