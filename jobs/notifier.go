package jobs

import (
	"context"
	"errors"

	"github.com/salespulse/salespulse/internal/metrics"
)

// QueueNotifier pushes report-submitted events onto the job queue, where
// the worker invalidates cached aggregates.
type QueueNotifier struct {
	Client *Client
}

// ReportSubmitted enqueues a TaskTypeReportSubmitted task.
func (n *QueueNotifier) ReportSubmitted(ctx context.Context, orgID int64) error {
	if n == nil || n.Client == nil {
		return errors.New("jobs: notifier not configured")
	}
	_, err := n.Client.EnqueueReportSubmitted(ctx, ReportSubmittedPayload{OrgID: orgID})
	return err
}

// DirectNotifier bumps the metrics cache in-process. Single-node deploys
// use it so they can run without a worker.
type DirectNotifier struct {
	Cache *metrics.Cache
}

// ReportSubmitted invalidates aggregates immediately.
func (n *DirectNotifier) ReportSubmitted(ctx context.Context, orgID int64) error {
	if n == nil || n.Cache == nil {
		return nil
	}
	return n.Cache.Bump(ctx)
}
