package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/salespulse/salespulse/internal/jobs"
	"github.com/salespulse/salespulse/internal/metrics"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// MetricsRefreshJob invalidates cached dashboard aggregates after a
// report submission. Bumping the cache version also notifies live
// dashboard feeds over pubsub, so each of them recomputes in full.
type MetricsRefreshJob struct {
	Cache   *metrics.Cache
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewMetricsRefreshJob wires dependencies for the refresh handler.
func NewMetricsRefreshJob(cache *metrics.Cache, logger *slog.Logger, jm *jobmetrics.Metrics) *MetricsRefreshJob {
	return &MetricsRefreshJob{Cache: cache, Logger: logger, Metrics: jm}
}

// Handle processes TaskTypeReportSubmitted tasks.
func (j *MetricsRefreshJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Cache == nil {
		return errors.New("metrics refresh: handler not configured")
	}
	var payload ReportSubmittedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskTypeReportSubmitted)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int64("org_id", payload.OrgID))
	if err := j.Cache.Bump(ctx); err != nil {
		resultErr = err
		logger.Error("bump metrics cache", slog.Any("error", err))
		return resultErr
	}
	logger.Info("metrics cache invalidated")
	return resultErr
}

func (j *MetricsRefreshJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *MetricsRefreshJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeReportSubmitted))
	}
	return slog.Default().With(slog.String("job", TaskTypeReportSubmitted))
}
