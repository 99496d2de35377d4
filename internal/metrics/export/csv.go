package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/salespulse/salespulse/internal/metrics"
)

// WriteSummaryCSV serialises the scalar totals and derived ratios.
func WriteSummaryCSV(w io.Writer, summary metrics.Summary) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	records := [][]string{
		{"Total Revenue", formatFloat(summary.TotalRevenue)},
		{"Total Units", strconv.Itoa(summary.TotalUnits)},
		{"Total Closes", strconv.Itoa(summary.TotalCloses)},
		{"Total Offers", strconv.Itoa(summary.TotalOffers)},
		{"Total Calls", strconv.Itoa(summary.TotalCalls)},
		{"Records", strconv.Itoa(summary.Count)},
		{"Close Rate", formatFloat(metrics.CloseRate(summary))},
		{"Avg Revenue Per Close", formatFloat(metrics.AvgRevenuePerClose(summary))},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSeriesCSV emits the bucketed revenue series as CSV, in bucket order.
func WriteSeriesCSV(w io.Writer, buckets []metrics.Bucket) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Period", "Revenue", "Units", "Closes", "Offers", "Calls"}); err != nil {
		return err
	}
	for _, bucket := range buckets {
		if err := writer.Write([]string{
			bucket.Key,
			formatFloat(bucket.Revenue),
			strconv.Itoa(bucket.Units),
			strconv.Itoa(bucket.Closes),
			strconv.Itoa(bucket.Offers),
			strconv.Itoa(bucket.Calls),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteGrowthCSV prints the period-over-period comparison.
func WriteGrowthCSV(w io.Writer, report metrics.GrowthReport) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Period", "Start", "End", "Revenue"}); err != nil {
		return err
	}
	rows := [][]string{
		{"Current", report.CurrentPeriod.Start.Format("2006-01-02"), report.CurrentPeriod.End.Format("2006-01-02"), formatFloat(report.CurrentPeriod.Revenue)},
		{"Previous", report.PreviousPeriod.Start.Format("2006-01-02"), report.PreviousPeriod.End.Format("2006-01-02"), formatFloat(report.PreviousPeriod.Revenue)},
		{"Growth Rate", "", "", formatFloat(report.GrowthRate)},
		{"Growth Amount", "", "", formatFloat(report.GrowthAmount)},
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
