package metricshttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/salespulse/salespulse/internal/metrics"
	"github.com/salespulse/salespulse/internal/shared"
)

type fakeService struct {
	summary    metrics.Summary
	series     []metrics.Bucket
	growth     metrics.GrowthReport
	err        error
	lastFilter metrics.QueryFilter
	lastGran   metrics.Granularity
}

func (f *fakeService) GetSummary(ctx context.Context, tenant shared.TenantContext, filter metrics.QueryFilter) (metrics.Summary, error) {
	f.lastFilter = filter
	if f.err != nil {
		return metrics.Summary{}, f.err
	}
	return f.summary, nil
}

func (f *fakeService) GetRevenueSeries(ctx context.Context, tenant shared.TenantContext, filter metrics.QueryFilter, g metrics.Granularity) ([]metrics.Bucket, error) {
	f.lastFilter = filter
	f.lastGran = g
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

func (f *fakeService) ComputeGrowth(ctx context.Context, tenant shared.TenantContext, g metrics.Granularity, filter metrics.QueryFilter) (metrics.GrowthReport, error) {
	f.lastFilter = filter
	f.lastGran = g
	if f.err != nil {
		return metrics.GrowthReport{}, f.err
	}
	return f.growth, nil
}

func (f *fakeService) GetSnapshot(ctx context.Context, tenant shared.TenantContext, filter metrics.QueryFilter, g metrics.Granularity) (metrics.Snapshot, error) {
	f.lastFilter = filter
	f.lastGran = g
	if f.err != nil {
		return metrics.Snapshot{}, f.err
	}
	return metrics.Snapshot{Summary: f.summary, Series: f.series, Growth: f.growth}, nil
}

func newTestServer(t *testing.T, svc MetricsService, role shared.Role) *httptest.Server {
	t.Helper()
	handler := NewHandler(nil, svc)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess := &shared.Session{}
			if role != "" {
				sess.Authenticate(7, 1, role)
			}
			ctx := shared.ContextWithSession(req.Context(), sess)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	handler.MountRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestHandleSummaryHappyPath(t *testing.T) {
	svc := &fakeService{summary: metrics.Summary{TotalRevenue: 1000, TotalCloses: 2, TotalOffers: 8}}
	srv := newTestServer(t, svc, shared.RoleManager)

	resp, err := http.Get(srv.URL + "/metrics/summary")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		TotalRevenue       float64 `json:"total_revenue"`
		CloseRate          float64 `json:"close_rate"`
		AvgRevenuePerClose float64 `json:"avg_revenue_per_close"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TotalRevenue != 1000 || body.CloseRate != 25 || body.AvgRevenuePerClose != 500 {
		t.Errorf("body = %+v", body)
	}
}

func TestHandleSummaryFetchFailureIsNotZeros(t *testing.T) {
	svc := &fakeService{err: errors.New("pg down")}
	srv := newTestServer(t, svc, shared.RoleManager)

	resp, err := http.Get(srv.URL + "/metrics/summary")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}

	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&problem); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if problem.Title != "metrics unavailable" {
		t.Errorf("title = %q", problem.Title)
	}
	if !strings.Contains(problem.Detail, "retry") {
		t.Errorf("detail should invite a retry, got %q", problem.Detail)
	}
}

func TestHandleSummaryUnauthenticated(t *testing.T) {
	srv := newTestServer(t, &fakeService{}, "")

	resp, err := http.Get(srv.URL + "/metrics/summary")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestHandleSummaryRejectsHalfRange(t *testing.T) {
	srv := newTestServer(t, &fakeService{}, shared.RoleManager)

	resp, err := http.Get(srv.URL + "/metrics/summary?from=2025-01-01")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleSummaryRejectsInvertedRange(t *testing.T) {
	srv := newTestServer(t, &fakeService{}, shared.RoleManager)

	resp, err := http.Get(srv.URL + "/metrics/summary?from=2025-02-01&to=2025-01-01")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleRevenueSeriesBadGranularity(t *testing.T) {
	srv := newTestServer(t, &fakeService{}, shared.RoleManager)

	resp, err := http.Get(srv.URL + "/metrics/revenue?granularity=hourly")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestNonManagerPinnedToOwnRecords(t *testing.T) {
	svc := &fakeService{}
	srv := newTestServer(t, svc, shared.RoleRep)

	resp, err := http.Get(srv.URL + "/metrics/summary?user_id=99")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if svc.lastFilter.UserID == nil || *svc.lastFilter.UserID != 7 {
		t.Fatalf("rep must be pinned to own user id, got %v", svc.lastFilter.UserID)
	}
}

func TestGrowthPinnedToOwnRecords(t *testing.T) {
	svc := &fakeService{}
	srv := newTestServer(t, svc, shared.RoleRep)

	resp, err := http.Get(srv.URL + "/metrics/growth?user_id=99")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if svc.lastFilter.UserID == nil || *svc.lastFilter.UserID != 7 {
		t.Fatalf("rep growth must be pinned to own user id, got %v", svc.lastFilter.UserID)
	}
}

func TestManagerCanScopeToUser(t *testing.T) {
	svc := &fakeService{}
	srv := newTestServer(t, svc, shared.RoleManager)

	resp, err := http.Get(srv.URL + "/metrics/summary?user_id=42")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if svc.lastFilter.UserID == nil || *svc.lastFilter.UserID != 42 {
		t.Fatalf("manager scope = %v, want 42", svc.lastFilter.UserID)
	}
}

func TestHandleDashboardDefaultGranularity(t *testing.T) {
	svc := &fakeService{}
	srv := newTestServer(t, svc, shared.RoleManager)

	resp, err := http.Get(srv.URL + "/dashboard")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if svc.lastGran != metrics.GranularityMonthly {
		t.Errorf("default granularity = %q, want monthly", svc.lastGran)
	}
}

func TestHandleExportCSVRoleCheck(t *testing.T) {
	svc := &fakeService{summary: metrics.Summary{TotalRevenue: 10}}

	srv := newTestServer(t, svc, shared.RoleSetter)
	resp, err := http.Get(srv.URL + "/metrics/export.csv")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("setter export status = %d, want 403", resp.StatusCode)
	}

	srv = newTestServer(t, svc, shared.RoleManager)
	resp, err = http.Get(srv.URL + "/metrics/export.csv")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("manager export status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "sales-metrics-") {
		t.Errorf("content disposition = %q", cd)
	}
}

func TestHandleGrowthUsesExplicitRange(t *testing.T) {
	svc := &fakeService{growth: metrics.GrowthReport{GrowthRate: 20}}
	srv := newTestServer(t, svc, shared.RoleManager)

	resp, err := http.Get(srv.URL + "/metrics/growth?from=2025-02-01&to=2025-02-28")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var report metrics.GrowthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.GrowthRate != 20 {
		t.Errorf("growth rate = %v", report.GrowthRate)
	}
}

func TestParseQueryDates(t *testing.T) {
	svc := &fakeService{}
	srv := newTestServer(t, svc, shared.RoleManager)

	resp, err := http.Get(srv.URL + "/metrics/summary?from=2025-01-01&to=2025-01-31")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if svc.lastFilter.Range == nil {
		t.Fatal("range not propagated")
	}
	want := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	if !svc.lastFilter.Range.End.Equal(want) {
		t.Errorf("range end = %s", svc.lastFilter.Range.End)
	}
}
