package metrics

// Summarize reduces a record set to scalar totals. An empty input yields the
// zero Summary, from which every derived ratio is 0.
func Summarize(records []SaleRecord) Summary {
	var s Summary
	for _, rec := range records {
		s.TotalRevenue += rec.Revenue
		s.TotalUnits += rec.Units
		s.TotalCloses += rec.Closes
		s.TotalOffers += rec.Offers
		s.TotalCalls += rec.Calls
		s.Count++
	}
	return s
}

// CloseRate is the percentage of offers that converted to closes.
func CloseRate(s Summary) float64 {
	return ratio(float64(s.TotalCloses), float64(s.TotalOffers)) * 100
}

// AvgRevenuePerClose is revenue divided by closes.
func AvgRevenuePerClose(s Summary) float64 {
	return ratio(s.TotalRevenue, float64(s.TotalCloses))
}

// ratio applies the uniform zero-guard: any ratio over a denominator that can
// be zero yields 0, never NaN or Inf.
func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
