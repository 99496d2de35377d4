package metrics

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(t time.Time, revenue float64) SaleRecord {
	return SaleRecord{Date: t, Revenue: revenue, Units: 1, Closes: 1, Offers: 2, Calls: 4}
}

func TestBucketByGranularityMonthly(t *testing.T) {
	records := []SaleRecord{
		rec(day(2025, time.January, 5), 100),
		rec(day(2025, time.January, 20), 50),
		rec(day(2025, time.March, 2), 200),
	}

	buckets := BucketByGranularity(records, GranularityMonthly)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Key != "Jan 2025" || buckets[0].Revenue != 150 {
		t.Errorf("january bucket = %q revenue %.1f", buckets[0].Key, buckets[0].Revenue)
	}
	if buckets[1].Key != "Mar 2025" || buckets[1].Revenue != 200 {
		t.Errorf("march bucket = %q revenue %.1f", buckets[1].Key, buckets[1].Revenue)
	}
	// February has no records and must not appear as a zero bucket.
	for _, b := range buckets {
		if b.Key == "Feb 2025" {
			t.Errorf("unexpected empty-period bucket %q", b.Key)
		}
	}
}

func TestBucketOrderingAcrossYearBoundary(t *testing.T) {
	// "Jan 2025" sorts before "Dec 2024" as a string; PeriodStart must win.
	records := []SaleRecord{
		rec(day(2025, time.January, 10), 10),
		rec(day(2024, time.December, 10), 20),
		rec(day(2024, time.November, 10), 30),
	}

	buckets := BucketByGranularity(records, GranularityMonthly)
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}
	want := []string{"Nov 2024", "Dec 2024", "Jan 2025"}
	for i, key := range want {
		if buckets[i].Key != key {
			t.Errorf("bucket[%d] = %q, want %q", i, buckets[i].Key, key)
		}
	}
}

func TestBucketConservation(t *testing.T) {
	records := []SaleRecord{
		rec(day(2025, time.April, 1), 10.5),
		rec(day(2025, time.April, 8), 20.25),
		rec(day(2025, time.May, 3), 30),
		rec(day(2025, time.June, 30), 40),
	}
	var wantRevenue float64
	var wantUnits int
	for _, r := range records {
		wantRevenue += r.Revenue
		wantUnits += r.Units
	}

	for _, g := range []Granularity{GranularityDaily, GranularityWeekly, GranularityMonthly, GranularityYearly} {
		var gotRevenue float64
		var gotUnits int
		for _, b := range BucketByGranularity(records, g) {
			gotRevenue += b.Revenue
			gotUnits += b.Units
		}
		if gotRevenue != wantRevenue || gotUnits != wantUnits {
			t.Errorf("%s: totals %.2f/%d, want %.2f/%d", g, gotRevenue, gotUnits, wantRevenue, wantUnits)
		}
	}
}

func TestBucketSkipsZeroDates(t *testing.T) {
	records := []SaleRecord{
		rec(time.Time{}, 999),
		rec(day(2025, time.February, 14), 75),
	}
	buckets := BucketByGranularity(records, GranularityMonthly)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if buckets[0].Revenue != 75 {
		t.Errorf("revenue = %.1f, want 75 (zero-dated record must not contribute)", buckets[0].Revenue)
	}
}

func TestPeriodStartWeeklyMonday(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{day(2025, time.June, 2), day(2025, time.June, 2)}, // Monday maps to itself
		{day(2025, time.June, 4), day(2025, time.June, 2)}, // Wednesday
		{day(2025, time.June, 8), day(2025, time.June, 2)}, // Sunday belongs to the preceding Monday
		{day(2025, time.June, 9), day(2025, time.June, 9)}, // next Monday starts a new week
	}
	for _, tc := range cases {
		if got := PeriodStart(tc.in, GranularityWeekly); !got.Equal(tc.want) {
			t.Errorf("PeriodStart(%s) = %s, want %s", tc.in.Format("2006-01-02 Mon"), got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
		}
	}
}

func TestPeriodStartYearly(t *testing.T) {
	got := PeriodStart(day(2025, time.August, 17), GranularityYearly)
	if !got.Equal(day(2025, time.January, 1)) {
		t.Errorf("PeriodStart yearly = %s", got.Format("2006-01-02"))
	}
}

func TestBucketEmptyInput(t *testing.T) {
	buckets := BucketByGranularity(nil, GranularityDaily)
	if len(buckets) != 0 {
		t.Fatalf("expected no buckets, got %d", len(buckets))
	}
}
