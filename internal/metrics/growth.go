package metrics

import "time"

// DefaultCurrentMonth is the growth comparison window used when the caller
// supplies no explicit range: the full calendar month containing now.
func DefaultCurrentMonth(now time.Time) DateRange {
	d := DateOnly(now)
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{
		Start: first,
		End:   first.AddDate(0, 1, -1),
		Label: first.Format(layoutMonthly),
	}
}

// ShiftBack derives the immediately preceding period of equal granularity.
// The shift preserves whole periods: a full calendar month maps to the full
// previous month even when their day counts differ, and partial ranges shift
// both endpoints with day-of-month clamping so February never overflows.
func ShiftBack(r DateRange, g Granularity) DateRange {
	switch g {
	case GranularityDaily:
		return DateRange{Start: r.Start.AddDate(0, 0, -1), End: r.End.AddDate(0, 0, -1)}
	case GranularityWeekly:
		return DateRange{Start: r.Start.AddDate(0, 0, -7), End: r.End.AddDate(0, 0, -7)}
	case GranularityYearly:
		if isFullYear(r) {
			year := r.Start.Year() - 1
			return DateRange{
				Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
			}
		}
		return DateRange{Start: addMonthsClamped(r.Start, -12), End: addMonthsClamped(r.End, -12)}
	default: // monthly
		if isFullMonth(r) {
			prevFirst := time.Date(r.Start.Year(), r.Start.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
			return DateRange{Start: prevFirst, End: prevFirst.AddDate(0, 1, -1)}
		}
		return DateRange{Start: addMonthsClamped(r.Start, -1), End: addMonthsClamped(r.End, -1)}
	}
}

// Growth compares two period revenues. A zero previous revenue yields a
// growth rate of 0 rather than Inf; the signed amount still reflects the
// absolute movement.
func Growth(current, previous PeriodRevenue) GrowthReport {
	report := GrowthReport{
		CurrentPeriod:  current,
		PreviousPeriod: previous,
		GrowthAmount:   current.Revenue - previous.Revenue,
	}
	if previous.Revenue > 0 {
		report.GrowthRate = (current.Revenue - previous.Revenue) / previous.Revenue * 100
	}
	return report
}

// SumRevenue totals revenue across a record set.
func SumRevenue(records []SaleRecord) float64 {
	var total float64
	for _, rec := range records {
		total += rec.Revenue
	}
	return total
}

func isFullMonth(r DateRange) bool {
	start := DateOnly(r.Start)
	end := DateOnly(r.End)
	if start.Day() != 1 {
		return false
	}
	if start.Year() != end.Year() || start.Month() != end.Month() {
		return false
	}
	return end.Day() == start.AddDate(0, 1, -1).Day()
}

func isFullYear(r DateRange) bool {
	start := DateOnly(r.Start)
	end := DateOnly(r.End)
	return start.Month() == time.January && start.Day() == 1 &&
		end.Month() == time.December && end.Day() == 31 &&
		start.Year() == end.Year()
}

// addMonthsClamped moves t by the given number of months, clamping the day to
// the target month's length instead of letting AddDate normalise Mar 31 into
// the next month.
func addMonthsClamped(t time.Time, months int) time.Time {
	d := DateOnly(t)
	anchor := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	day := d.Day()
	if max := daysInMonth(anchor.Year(), anchor.Month()); day > max {
		day = max
	}
	return time.Date(anchor.Year(), anchor.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}
