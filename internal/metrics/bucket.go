package metrics

import (
	"sort"
	"time"
)

// Display layouts per granularity. Weeks start on Monday (ISO convention).
const (
	layoutDaily   = "Jan 02"
	layoutWeekly  = "Jan 02, 2006"
	layoutMonthly = "Jan 2006"
	layoutYearly  = "2006"
)

// BucketByGranularity groups records into time buckets and sums every measure
// per bucket. The result is sorted ascending by PeriodStart; buckets exist
// only where at least one record contributed, so sparse periods produce gaps
// rather than zero-valued buckets. Records without a resolvable date are
// skipped.
func BucketByGranularity(records []SaleRecord, g Granularity) []Bucket {
	byKey := make(map[string]*Bucket)
	for _, rec := range records {
		if rec.Date.IsZero() {
			continue
		}
		start := PeriodStart(rec.Date, g)
		key := start.Format(keyLayout(g))
		bucket, ok := byKey[key]
		if !ok {
			bucket = &Bucket{Key: key, PeriodStart: start}
			byKey[key] = bucket
		}
		bucket.Revenue += rec.Revenue
		bucket.Units += rec.Units
		bucket.Closes += rec.Closes
		bucket.Offers += rec.Offers
		bucket.Calls += rec.Calls
	}

	buckets := make([]Bucket, 0, len(byKey))
	for _, bucket := range byKey {
		buckets = append(buckets, *bucket)
	}
	// PeriodStart, never the display key: "Jan 2025" sorts before "Dec 2024"
	// lexicographically.
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].PeriodStart.Before(buckets[j].PeriodStart)
	})
	return buckets
}

// PeriodStart computes the representative start date of the bucket that owns
// the given date at the given granularity.
func PeriodStart(t time.Time, g Granularity) time.Time {
	d := DateOnly(t)
	switch g {
	case GranularityWeekly:
		return startOfWeek(d)
	case GranularityMonthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	case GranularityYearly:
		return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

func keyLayout(g Granularity) string {
	switch g {
	case GranularityWeekly:
		return layoutWeekly
	case GranularityMonthly:
		return layoutMonthly
	case GranularityYearly:
		return layoutYearly
	default:
		return layoutDaily
	}
}

// startOfWeek returns the Monday on or before d.
func startOfWeek(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
