package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBatchProcess runs one submission pass over a batch.
	TaskBatchProcess = "batch:process"
	// TaskRestockRefresh recomputes restock statuses across the catalog.
	TaskRestockRefresh = "catalog:restock_refresh"
)

// BatchProcessPayload identifies the batch to process.
type BatchProcessPayload struct {
	BatchID string `json:"batch_id"`
}

// NewBatchProcessTask constructs an Asynq task for a processing run.
func NewBatchProcessTask(batchID string) (*asynq.Task, error) {
	body, err := json.Marshal(BatchProcessPayload{BatchID: batchID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBatchProcess, body, asynq.Queue(QueueDefault)), nil
}

// RestockRefreshPayload carries scheduling metadata.
type RestockRefreshPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewRestockRefreshTask constructs an Asynq task for the nightly refresh.
func NewRestockRefreshTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(RestockRefreshPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRestockRefresh, body, asynq.Queue(QueueDefault)), nil
}
