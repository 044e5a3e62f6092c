package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/listforge/listforge/internal/catalog"
	jobmetrics "github.com/listforge/listforge/internal/jobs"
)

// NewRestockRefreshHandler builds the worker-side handler for
// TaskRestockRefresh.
func NewRestockRefreshHandler(svc *catalog.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload RestockRefreshPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		tracker := metrics.Track(TaskRestockRefresh)
		updated, err := svc.RefreshRestockStatuses(ctx)
		if err != nil {
			return tracker.End(err)
		}
		logger.Info("restock statuses refreshed",
			"updated", updated,
			"scheduled_for", payload.ScheduledFor.Format(time.RFC3339),
		)
		return tracker.End(nil)
	}
}
