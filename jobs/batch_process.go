package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/listforge/listforge/internal/batch"
	jobmetrics "github.com/listforge/listforge/internal/jobs"
)

// NewBatchProcessHandler builds the worker-side handler for TaskBatchProcess.
// A missing batch drops the task instead of retrying it.
func NewBatchProcessHandler(svc *batch.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload BatchProcessPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		tracker := metrics.Track(TaskBatchProcess)
		b, err := svc.Process(ctx, payload.BatchID)
		if errors.Is(err, batch.ErrBatchNotFound) {
			_ = tracker.End(nil)
			logger.Warn("batch process task for missing batch", "batch_id", payload.BatchID)
			return asynq.SkipRetry
		}
		if err != nil {
			return tracker.End(err)
		}
		logger.Info("batch processed",
			"batch_id", b.ID,
			"status", b.Status,
			"success", b.SuccessCount,
			"failed", b.FailedCount,
		)
		return tracker.End(nil)
	}
}
