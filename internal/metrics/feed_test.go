package metrics

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestFeedRefreshDeliversSnapshot(t *testing.T) {
	repo := &mockRepo{records: []SaleRecord{rec(day(2025, time.March, 5), 60)}}
	svc, client, cleanup := newTestService(t, repo)
	defer cleanup()

	var mu sync.Mutex
	var got []Snapshot
	feed := NewFeed(svc, client, nil, testTenant(), QueryFilter{}, GranularityMonthly, func(snap Snapshot) {
		mu.Lock()
		got = append(got, snap)
		mu.Unlock()
	})

	if err := feed.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(got))
	}
	if got[0].Summary.TotalRevenue != 60 {
		t.Errorf("snapshot revenue = %v", got[0].Summary.TotalRevenue)
	}
}

func TestFeedRecomputesOnBump(t *testing.T) {
	repo := &mockRepo{records: []SaleRecord{rec(day(2025, time.March, 5), 60)}}
	svc, client, cleanup := newTestService(t, repo)
	defer cleanup()

	snapshots := make(chan Snapshot, 4)
	feed := NewFeed(svc, client, nil, testTenant(), QueryFilter{}, GranularityMonthly, func(snap Snapshot) {
		snapshots <- snap
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = feed.Run(ctx)
	}()

	// Give the subscriber a moment to attach before publishing.
	time.Sleep(50 * time.Millisecond)

	repo.records = append(repo.records, rec(day(2025, time.March, 6), 40))
	cache := NewCache(client, time.Minute)
	if err := cache.Bump(context.Background()); err != nil {
		t.Fatalf("bump: %v", err)
	}

	select {
	case snap := <-snapshots:
		if snap.Summary.TotalRevenue != 100 {
			t.Errorf("recomputed revenue = %v, want 100", snap.Summary.TotalRevenue)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for recomputed snapshot")
	}

	cancel()
	<-done
}

func TestFeedDiscardsSupersededRun(t *testing.T) {
	repo := &mockRepo{}
	svc, client, cleanup := newTestService(t, repo)
	defer cleanup()

	var mu sync.Mutex
	var applied []float64
	feed := NewFeed(svc, client, nil, testTenant(), QueryFilter{}, GranularityMonthly, func(snap Snapshot) {
		mu.Lock()
		applied = append(applied, snap.Summary.TotalRevenue)
		mu.Unlock()
	})

	stale := feed.nextGen()
	fresh := feed.nextGen()

	feed.applyIfCurrent(stale, Snapshot{Summary: Summary{TotalRevenue: 1}})
	feed.applyIfCurrent(fresh, Snapshot{Summary: Summary{TotalRevenue: 2}})

	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 1 || applied[0] != 2 {
		t.Fatalf("superseded run must be discarded, applied = %v", applied)
	}
}
