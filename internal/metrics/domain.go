package metrics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Granularity is the time-bucketing resolution for revenue series.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
	GranularityYearly  Granularity = "yearly"
)

// ErrInvalidGranularity indicates an unknown bucketing resolution.
var ErrInvalidGranularity = errors.New("metrics: invalid granularity")

// ErrInvalidRange indicates a date range whose start falls after its end.
var ErrInvalidRange = errors.New("metrics: invalid date range")

// ParseGranularity normalises a query-string granularity value.
func ParseGranularity(raw string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(raw))) {
	case GranularityDaily:
		return GranularityDaily, nil
	case GranularityWeekly:
		return GranularityWeekly, nil
	case GranularityMonthly:
		return GranularityMonthly, nil
	case GranularityYearly:
		return GranularityYearly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, raw)
}

// SaleRecord is a flat per-sale row joined with its parent daily report and
// product. Records whose date could not be resolved carry a zero Date and are
// excluded from filtering and bucketing.
type SaleRecord struct {
	Date        time.Time `json:"date"`
	Revenue     float64   `json:"revenue"`
	Units       int       `json:"units"`
	ProductName string    `json:"product_name"`
	UserName    string    `json:"user_name"`
	Closes      int       `json:"closes"`
	Offers      int       `json:"offers"`
	Calls       int       `json:"calls"`
}

// DateRange is an inclusive [Start, End] calendar interval.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label,omitempty"`
}

// Validate rejects ranges whose start falls after their end.
func (r DateRange) Validate() error {
	if r.Start.After(r.End) {
		return fmt.Errorf("%w: start %s after end %s", ErrInvalidRange,
			r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	}
	return nil
}

// Contains reports whether the calendar date of t lies within the range.
func (r DateRange) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(DateOnly(r.Start)) && !d.After(DateOnly(r.End))
}

// DateOnly truncates t to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Bucket is an ephemeral aggregation of records sharing a time period.
// Chronological order is carried by PeriodStart; Key is display-only and must
// never be used for sorting.
type Bucket struct {
	Key         string    `json:"key"`
	PeriodStart time.Time `json:"period_start"`
	Revenue     float64   `json:"revenue"`
	Units       int       `json:"units"`
	Closes      int       `json:"closes"`
	Offers      int       `json:"offers"`
	Calls       int       `json:"calls"`
}

// Summary contains scalar totals over a record set.
type Summary struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalUnits   int     `json:"total_units"`
	TotalCloses  int     `json:"total_closes"`
	TotalOffers  int     `json:"total_offers"`
	TotalCalls   int     `json:"total_calls"`
	Count        int     `json:"count"`
}

// PeriodRevenue is one side of a growth comparison.
type PeriodRevenue struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Revenue float64   `json:"revenue"`
}

// GrowthReport compares revenue between a current period and the
// immediately preceding period of the same granularity.
type GrowthReport struct {
	CurrentPeriod  PeriodRevenue `json:"current_period"`
	PreviousPeriod PeriodRevenue `json:"previous_period"`
	GrowthRate     float64       `json:"growth_rate"`
	GrowthAmount   float64       `json:"growth_amount"`
}

// QueryFilter scopes a sale-record fetch. All fields are optional; the
// tenant itself is passed separately and is never optional.
type QueryFilter struct {
	Range     *DateRange
	UserID    *int64
	ProductID *int64
}
