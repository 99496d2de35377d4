package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/salespulse/salespulse/internal/shared"
)

// Feed pushes recomputed dashboard snapshots whenever a cache bump lands on
// the notification channel. Each bump re-runs the full
// filter → bucket → reduce pipeline from scratch; aggregates are never
// patched incrementally. A run that has been superseded by a newer bump
// discards its result instead of applying it, so a slow recompute can never
// overwrite a fresher one.
type Feed struct {
	service     *Service
	client      *redis.Client
	logger      *slog.Logger
	tenant      shared.TenantContext
	filter      QueryFilter
	granularity Granularity
	apply       func(Snapshot)

	mu  sync.Mutex
	gen uint64
}

// NewFeed constructs a push feed for one dashboard view.
func NewFeed(service *Service, client *redis.Client, logger *slog.Logger, tenant shared.TenantContext, filter QueryFilter, granularity Granularity, apply func(Snapshot)) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		service:     service,
		client:      client,
		logger:      logger,
		tenant:      tenant,
		filter:      filter,
		granularity: granularity,
		apply:       apply,
	}
}

// Refresh recomputes and applies the snapshot once, synchronously.
func (f *Feed) Refresh(ctx context.Context) error {
	gen := f.nextGen()
	snap, err := f.service.GetSnapshot(ctx, f.tenant, f.filter, f.granularity)
	if err != nil {
		return err
	}
	f.applyIfCurrent(gen, snap)
	return nil
}

// Run subscribes to the bump channel and recomputes on every notification
// until the context is cancelled.
func (f *Feed) Run(ctx context.Context) error {
	pubsub := f.client.Subscribe(ctx, BumpChannel)
	defer func() { _ = pubsub.Close() }()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			f.kick(ctx)
		}
	}
}

func (f *Feed) kick(ctx context.Context) {
	gen := f.nextGen()
	go func() {
		snap, err := f.service.GetSnapshot(ctx, f.tenant, f.filter, f.granularity)
		if err != nil {
			f.logger.Error("feed recompute", slog.Any("error", err))
			return
		}
		f.applyIfCurrent(gen, snap)
	}()
}

func (f *Feed) nextGen() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	return f.gen
}

// applyIfCurrent delivers the snapshot unless a newer generation has been
// started since this run began.
func (f *Feed) applyIfCurrent(gen uint64, snap Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return
	}
	if f.apply != nil {
		f.apply(snap)
	}
}
