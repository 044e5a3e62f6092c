package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/listforge/listforge/internal/app"
	"github.com/listforge/listforge/internal/batch"
	"github.com/listforge/listforge/internal/catalog"
	jobmetrics "github.com/listforge/listforge/internal/jobs"
	"github.com/listforge/listforge/internal/observability"
	"github.com/listforge/listforge/internal/platform/cache"
	"github.com/listforge/listforge/internal/platform/db"
	"github.com/listforge/listforge/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	metrics := observability.NewMetrics()
	jobMetrics := jobmetrics.NewMetrics(metrics.Registerer())

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)

	submitter := batch.NewSimulatedSubmitter(cfg.SubmitSuccessRate, cfg.SubmitDelay)
	notifier := batch.NewNotifier(redisClient, logger)
	batchRepo := batch.NewRepository(pool)
	batchService := batch.NewService(batchRepo, submitter, notifier, metrics, logger)

	restockTask, err := jobs.NewRestockRefreshTask(time.Now().UTC())
	if err != nil {
		logger.Error("build restock task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskBatchProcess, Handler: jobs.NewBatchProcessHandler(batchService, logger, jobMetrics)},
			{Type: jobs.TaskRestockRefresh, Handler: jobs.NewRestockRefreshHandler(catalogService, logger, jobMetrics)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "45 2 * * *", Task: restockTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
