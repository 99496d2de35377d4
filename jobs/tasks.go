package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeReportSubmitted fires after a daily report upsert so that
	// derived aggregates get invalidated out of the request path.
	TaskTypeReportSubmitted = "reports:submitted"
	// TaskTypeMetricsWarmup pre-computes dashboard aggregates per
	// organisation so the first morning load hits warm cache entries.
	TaskTypeMetricsWarmup = "metrics:warmup"
)

// ReportSubmittedPayload identifies the organisation whose aggregates
// are now stale.
type ReportSubmittedPayload struct {
	OrgID int64 `json:"org_id"`
}

// NewReportSubmittedTask constructs an Asynq task for a submitted report.
func NewReportSubmittedTask(payload ReportSubmittedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeReportSubmitted, data), nil
}

// MetricsWarmupPayload controls which organisations get warmed. An empty
// scope means every organisation with at least one active manager.
type MetricsWarmupPayload struct {
	Scope string `json:"scope"`
}

// NewMetricsWarmupTask constructs an Asynq warmup task.
func NewMetricsWarmupTask(payload MetricsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeMetricsWarmup, data), nil
}
