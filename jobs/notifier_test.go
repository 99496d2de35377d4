package jobs

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/salespulse/salespulse/internal/metrics"
)

func TestDirectNotifierBumpsCacheVersion(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	cache := metrics.NewCache(client, time.Minute)
	before, err := cache.Version(ctx)
	if err != nil {
		t.Fatalf("version: %v", err)
	}

	notifier := &DirectNotifier{Cache: cache}
	if err := notifier.ReportSubmitted(ctx, 1); err != nil {
		t.Fatalf("notify: %v", err)
	}

	after, err := cache.Version(ctx)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if after != before+1 {
		t.Fatalf("version %d -> %d, want increment", before, after)
	}
}

func TestDirectNotifierNilCache(t *testing.T) {
	var notifier *DirectNotifier
	if err := notifier.ReportSubmitted(context.Background(), 1); err != nil {
		t.Fatalf("nil notifier must be inert: %v", err)
	}
}

func TestQueueNotifierRequiresClient(t *testing.T) {
	notifier := &QueueNotifier{}
	if err := notifier.ReportSubmitted(context.Background(), 1); err == nil {
		t.Fatal("expected error without a client")
	}
}

func TestReportSubmittedTaskRoundTrip(t *testing.T) {
	task, err := NewReportSubmittedTask(ReportSubmittedPayload{OrgID: 9})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if task.Type() != TaskTypeReportSubmitted {
		t.Errorf("task type = %q", task.Type())
	}
}
