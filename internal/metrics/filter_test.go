package metrics

import (
	"testing"
	"time"
)

func TestFilterByDateRangeInclusive(t *testing.T) {
	rng := &DateRange{Start: day(2025, time.March, 1), End: day(2025, time.March, 31)}
	records := []SaleRecord{
		rec(day(2025, time.February, 28), 1),
		rec(day(2025, time.March, 1), 2),
		rec(day(2025, time.March, 15), 3),
		rec(day(2025, time.March, 31), 4),
		rec(day(2025, time.April, 1), 5),
	}

	got := FilterByDateRange(records, rng)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[0].Revenue != 2 || got[2].Revenue != 4 {
		t.Errorf("boundary dates must be included: got %v", got)
	}
}

func TestFilterByDateRangeNilRangeIsIdentity(t *testing.T) {
	records := []SaleRecord{
		rec(time.Time{}, 1),
		rec(day(2025, time.July, 4), 2),
	}
	got := FilterByDateRange(records, nil)
	if len(got) != len(records) {
		t.Fatalf("nil range must return input unchanged, got %d records", len(got))
	}
}

func TestFilterByDateRangeExcludesZeroDates(t *testing.T) {
	rng := &DateRange{Start: day(1, time.January, 1), End: day(9999, time.December, 31)}
	records := []SaleRecord{
		rec(time.Time{}, 1),
		rec(day(2025, time.May, 5), 2),
	}
	got := FilterByDateRange(records, rng)
	if len(got) != 1 || got[0].Revenue != 2 {
		t.Fatalf("zero-dated records must be dropped, got %v", got)
	}
}

func TestFilterByDateRangeIgnoresTimeOfDay(t *testing.T) {
	rng := &DateRange{Start: day(2025, time.March, 1), End: day(2025, time.March, 1)}
	records := []SaleRecord{
		{Date: time.Date(2025, time.March, 1, 23, 59, 0, 0, time.UTC), Revenue: 7},
	}
	got := FilterByDateRange(records, rng)
	if len(got) != 1 {
		t.Fatalf("record on the end date must be included regardless of clock time")
	}
}

func TestDateRangeValidate(t *testing.T) {
	bad := DateRange{Start: day(2025, time.June, 2), End: day(2025, time.June, 1)}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for inverted range")
	}
	same := DateRange{Start: day(2025, time.June, 1), End: day(2025, time.June, 1)}
	if err := same.Validate(); err != nil {
		t.Fatalf("single-day range must validate: %v", err)
	}
}
