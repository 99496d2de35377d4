package metrics

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/salespulse/salespulse/internal/shared"
)

// Repository exposes the sale-record fetch the pipeline is built on.
type Repository interface {
	FetchSaleRecords(ctx context.Context, tenant shared.TenantContext, filter QueryFilter) ([]SaleRecord, error)
}

// Service coordinates fetch, aggregation and cache for dashboard metrics.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires a Repository with a Cache helper.
func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// FetchRecords runs the raw row fetch without caching.
func (s *Service) FetchRecords(ctx context.Context, tenant shared.TenantContext, filter QueryFilter) ([]SaleRecord, error) {
	return s.repo.FetchSaleRecords(ctx, tenant, filter)
}

// GetSummary resolves scalar totals for the filtered record set.
func (s *Service) GetSummary(ctx context.Context, tenant shared.TenantContext, filter QueryFilter) (Summary, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		records, err := s.repo.FetchSaleRecords(ctx, tenant, filter)
		if err != nil {
			return Summary{}, err
		}
		return Summarize(FilterByDateRange(records, filter.Range)), nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return Summary{}, err
		}
		return value.(Summary), nil
	}

	key, err := s.cache.BuildKey(ctx, keySummary(tenant.OrgID, filter))
	if err != nil {
		return Summary{}, err
	}
	var summary Summary
	if err := s.cache.FetchJSON(ctx, key, &summary, loader); err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// GetRevenueSeries resolves the bucketed revenue series at the given
// granularity, ordered ascending by period start.
func (s *Service) GetRevenueSeries(ctx context.Context, tenant shared.TenantContext, filter QueryFilter, g Granularity) ([]Bucket, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		records, err := s.repo.FetchSaleRecords(ctx, tenant, filter)
		if err != nil {
			return nil, err
		}
		return BucketByGranularity(FilterByDateRange(records, filter.Range), g), nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]Bucket), nil
	}

	key, err := s.cache.BuildKey(ctx, keySeries(tenant.OrgID, filter, g))
	if err != nil {
		return nil, err
	}
	var buckets []Bucket
	if err := s.cache.FetchJSON(ctx, key, &buckets, loader); err != nil {
		return nil, err
	}
	return buckets, nil
}

// ComputeGrowth compares total revenue between the current period and the
// immediately preceding period of the same granularity. The filter's range
// is the current period; when nil the comparison window defaults to the
// current calendar month. User and product scoping carries over to both
// period fetches, so a pinned caller never sees team-wide totals. The two
// fetches run concurrently; either failure aborts the whole computation so
// a failed fetch is never mistaken for zero revenue.
func (s *Service) ComputeGrowth(ctx context.Context, tenant shared.TenantContext, g Granularity, filter QueryFilter) (GrowthReport, error) {
	cur := DefaultCurrentMonth(s.now().UTC())
	if filter.Range != nil {
		cur = *filter.Range
	}
	if err := cur.Validate(); err != nil {
		return GrowthReport{}, err
	}
	prev := ShiftBack(cur, g)

	curFilter, prevFilter := filter, filter
	curFilter.Range = &cur
	prevFilter.Range = &prev

	loader := func(ctx context.Context) (interface{}, error) {
		var currentRevenue, previousRevenue float64

		eg, ctx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			records, err := s.repo.FetchSaleRecords(ctx, tenant, curFilter)
			if err != nil {
				return err
			}
			currentRevenue = SumRevenue(records)
			return nil
		})
		eg.Go(func() error {
			records, err := s.repo.FetchSaleRecords(ctx, tenant, prevFilter)
			if err != nil {
				return err
			}
			previousRevenue = SumRevenue(records)
			return nil
		})
		if err := eg.Wait(); err != nil {
			return GrowthReport{}, err
		}

		return Growth(
			PeriodRevenue{Start: cur.Start, End: cur.End, Revenue: currentRevenue},
			PeriodRevenue{Start: prev.Start, End: prev.End, Revenue: previousRevenue},
		), nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return GrowthReport{}, err
		}
		return value.(GrowthReport), nil
	}

	key, err := s.cache.BuildKey(ctx, keyGrowth(tenant.OrgID, g, curFilter))
	if err != nil {
		return GrowthReport{}, err
	}
	var report GrowthReport
	if err := s.cache.FetchJSON(ctx, key, &report, loader); err != nil {
		return GrowthReport{}, err
	}
	return report, nil
}

// Snapshot bundles the dashboard view: totals, the bucketed series and the
// growth comparison, loaded concurrently.
type Snapshot struct {
	Summary Summary      `json:"summary"`
	Series  []Bucket     `json:"series"`
	Growth  GrowthReport `json:"growth"`
}

// GetSnapshot fans out the three dashboard loads and joins the results.
func (s *Service) GetSnapshot(ctx context.Context, tenant shared.TenantContext, filter QueryFilter, granularity Granularity) (Snapshot, error) {
	var snap Snapshot

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.GetSummary(ctx, tenant, filter)
		if err != nil {
			return err
		}
		snap.Summary = summary
		return nil
	})
	g.Go(func() error {
		series, err := s.GetRevenueSeries(ctx, tenant, filter, granularity)
		if err != nil {
			return err
		}
		snap.Series = series
		return nil
	})
	g.Go(func() error {
		growth, err := s.ComputeGrowth(ctx, tenant, granularity, filter)
		if err != nil {
			return err
		}
		snap.Growth = growth
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
