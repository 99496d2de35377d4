package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/salespulse/salespulse/internal/jobs"
	"github.com/salespulse/salespulse/internal/metrics"
	"github.com/salespulse/salespulse/internal/shared"
)

// MetricsWarmupJob pre-populates aggregate caches for every organisation
// that has an active manager. Each scope is warmed with the current-month
// snapshot, which is what the dashboard requests on first load.
type MetricsWarmupJob struct {
	Metrics *metrics.Service
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Track   *jobmetrics.Metrics
	clock   func() time.Time
}

// NewMetricsWarmupJob wires dependencies for the warmup handler.
func NewMetricsWarmupJob(metricsSvc *metrics.Service, pool *pgxpool.Pool, logger *slog.Logger, jm *jobmetrics.Metrics) *MetricsWarmupJob {
	return &MetricsWarmupJob{
		Metrics: metricsSvc,
		Pool:    pool,
		Logger:  logger,
		Track:   jm,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes TaskTypeMetricsWarmup tasks.
func (j *MetricsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("metrics warmup: handler not configured")
	}
	var payload MetricsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Scope == "" {
		payload.Scope = "active"
	}

	tracker := j.metrics().Track(TaskTypeMetricsWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("scope", payload.Scope))
	logger.Info("starting metrics warmup")

	scopes, err := j.fetchScopes(ctx)
	if err != nil {
		resultErr = err
		logger.Error("load warmup scopes", slog.Any("error", err))
		return resultErr
	}
	if len(scopes) == 0 {
		logger.Info("no organisations discovered for warmup")
		return resultErr
	}

	started := j.now()
	warmed := 0
	for _, scope := range scopes {
		if err := j.warmScope(ctx, scope); err != nil {
			resultErr = err
			logger.Error("warm organisation", slog.Int64("org_id", scope.OrgID), slog.Any("error", err))
			return resultErr
		}
		warmed++
	}

	logger.Info("completed metrics warmup", slog.Int("organisations", warmed), slog.Duration("duration", time.Since(started)))
	return resultErr
}

func (j *MetricsWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Track != nil {
		return j.Track
	}
	return defaultJobMetrics
}

func (j *MetricsWarmupJob) warmScope(ctx context.Context, tenant shared.TenantContext) error {
	if j.Metrics == nil {
		return nil
	}
	// Keep each scope bounded so a slow organisation cannot stall the run.
	scopeCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	current := metrics.DefaultCurrentMonth(j.now())
	filter := metrics.QueryFilter{Range: &current}
	if _, err := j.Metrics.GetSnapshot(scopeCtx, tenant, filter, metrics.GranularityDaily); err != nil {
		return err
	}
	if _, err := j.Metrics.GetRevenueSeries(scopeCtx, tenant, filter, metrics.GranularityMonthly); err != nil {
		return err
	}
	return nil
}

// fetchScopes builds one manager-scoped tenant per organisation. The
// warmup always runs as a manager so cached entries match what the
// team dashboard requests.
func (j *MetricsWarmupJob) fetchScopes(ctx context.Context) ([]shared.TenantContext, error) {
	if j.Pool == nil {
		return nil, errors.New("metrics warmup: pool not configured")
	}
	rows, err := j.Pool.Query(ctx, `
		SELECT org_id, MIN(id)
		FROM users
		WHERE role = 'manager' AND is_active
		GROUP BY org_id
		ORDER BY org_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scopes := make([]shared.TenantContext, 0)
	for rows.Next() {
		var orgID, userID int64
		if err := rows.Scan(&orgID, &userID); err != nil {
			return nil, err
		}
		scopes = append(scopes, shared.TenantContext{OrgID: orgID, UserID: userID, Role: shared.RoleManager})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scopes, nil
}

func (j *MetricsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeMetricsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskTypeMetricsWarmup))
}

func (j *MetricsWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
