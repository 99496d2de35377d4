package metrics

// FilterByDateRange returns the records whose date falls inside the inclusive
// range. A nil range is the no-filter state and returns the input unchanged.
// Records without a resolvable date are excluded rather than coerced.
func FilterByDateRange(records []SaleRecord, rng *DateRange) []SaleRecord {
	if rng == nil {
		return records
	}
	filtered := make([]SaleRecord, 0, len(records))
	for _, rec := range records {
		if rec.Date.IsZero() {
			continue
		}
		if rng.Contains(rec.Date) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
