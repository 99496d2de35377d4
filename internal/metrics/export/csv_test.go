package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/salespulse/salespulse/internal/metrics"
)

func TestWriteSummaryCSV(t *testing.T) {
	summary := metrics.Summary{
		TotalRevenue: 1500.5,
		TotalUnits:   12,
		TotalCloses:  3,
		TotalOffers:  12,
		TotalCalls:   40,
		Count:        5,
	}

	var buf bytes.Buffer
	if err := WriteSummaryCSV(&buf, summary); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Metric,Value",
		"Total Revenue,1500.50",
		"Close Rate,25.00",
		"Avg Revenue Per Close,500.17",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing line %q in output:\n%s", want, out)
		}
	}
}

func TestWriteSummaryCSVZeroGuard(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummaryCSV(&buf, metrics.Summary{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Close Rate,0.00") {
		t.Errorf("empty summary must print a zero close rate:\n%s", out)
	}
	if strings.Contains(out, "NaN") || strings.Contains(out, "Inf") {
		t.Errorf("non-finite value leaked into CSV:\n%s", out)
	}
}

func TestWriteSeriesCSVOrder(t *testing.T) {
	buckets := []metrics.Bucket{
		{Key: "Dec 2024", Revenue: 20},
		{Key: "Jan 2025", Revenue: 10},
	}

	var buf bytes.Buffer
	if err := WriteSeriesCSV(&buf, buckets); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if strings.Index(out, "Dec 2024") > strings.Index(out, "Jan 2025") {
		t.Errorf("rows must follow bucket order:\n%s", out)
	}
	if !strings.Contains(out, "Period,Revenue,Units,Closes,Offers,Calls") {
		t.Errorf("missing header:\n%s", out)
	}
}

func TestWriteGrowthCSV(t *testing.T) {
	report := metrics.GrowthReport{
		CurrentPeriod: metrics.PeriodRevenue{
			Start:   time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
			End:     time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
			Revenue: 120,
		},
		PreviousPeriod: metrics.PeriodRevenue{
			Start:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:     time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
			Revenue: 100,
		},
		GrowthRate:   20,
		GrowthAmount: 20,
	}

	var buf bytes.Buffer
	if err := WriteGrowthCSV(&buf, report); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Current,2025-02-01,2025-02-28,120.00",
		"Previous,2025-01-01,2025-01-31,100.00",
		"Growth Rate,,,20.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing line %q:\n%s", want, out)
		}
	}
}
