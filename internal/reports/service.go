package reports

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/salespulse/salespulse/internal/shared"
)

// Store is the persistence contract the service depends on.
type Store interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetReport(ctx context.Context, orgID, id int64) (*DailyReport, error)
	ListReports(ctx context.Context, orgID int64, filter ListFilter) ([]DailyReport, error)
}

// Notifier signals that submitted reports changed the metrics source data.
type Notifier interface {
	ReportSubmitted(ctx context.Context, orgID int64) error
}

// Service wraps report submission business rules.
type Service struct {
	store    Store
	validate *validator.Validate
	notifier Notifier
	logger   *slog.Logger
}

// NewService constructs a new Service.
func NewService(store Store, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		validate: validator.New(),
		notifier: notifier,
		logger:   logger,
	}
}

// Submit validates and persists an end-of-day report for the acting user.
// The report and its sale lines land in one transaction; resubmission for
// the same date replaces the prior submission wholesale. On success the
// notifier invalidates cached aggregates so dashboards recompute from
// scratch.
func (s *Service) Submit(ctx context.Context, tenant shared.TenantContext, req SubmitReportRequest) (*DailyReport, error) {
	if !tenant.Role.Has(shared.PermReportSubmit) {
		return nil, shared.ErrPermissionDenied
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("reports: validate submission: %w", err)
	}
	reportDate, err := time.Parse("2006-01-02", req.ReportDate)
	if err != nil {
		return nil, fmt.Errorf("reports: parse report date: %w", err)
	}

	report := DailyReport{
		OrgID:      tenant.OrgID,
		UserID:     tenant.UserID,
		ReportDate: reportDate,
		Calls:      req.Calls,
		Offers:     req.Offers,
		Closes:     req.Closes,
		Notes:      req.Notes,
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.UpsertReport(ctx, report)
		if err != nil {
			return err
		}
		report.ID = id
		if err := tx.DeleteSaleLines(ctx, id); err != nil {
			return err
		}
		report.Sales = report.Sales[:0]
		for _, line := range req.Sales {
			saleLine := SaleLine{
				ReportID:  id,
				ProductID: line.ProductID,
				Revenue:   line.Revenue,
				Units:     line.Units,
			}
			lineID, err := tx.InsertSaleLine(ctx, saleLine)
			if err != nil {
				return err
			}
			saleLine.ID = lineID
			report.Sales = append(report.Sales, saleLine)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		// Submission already committed; a missed invalidation only delays the
		// dashboard until the cache TTL expires.
		if err := s.notifier.ReportSubmitted(ctx, tenant.OrgID); err != nil {
			s.logger.Warn("report submitted notification", slog.Any("error", err))
		}
	}

	return &report, nil
}

// Get returns one report; non-manager roles can only read their own.
func (s *Service) Get(ctx context.Context, tenant shared.TenantContext, id int64) (*DailyReport, error) {
	if !tenant.Role.Has(shared.PermReportView) {
		return nil, shared.ErrPermissionDenied
	}
	report, err := s.store.GetReport(ctx, tenant.OrgID, id)
	if err != nil {
		return nil, err
	}
	if !tenant.Role.SeesWholeTeam() && report.UserID != tenant.UserID {
		return nil, ErrNotFound
	}
	return report, nil
}

// List returns reports visible to the caller. Non-manager roles are pinned
// to their own submissions.
func (s *Service) List(ctx context.Context, tenant shared.TenantContext, filter ListFilter) ([]DailyReport, error) {
	if !tenant.Role.Has(shared.PermReportView) {
		return nil, shared.ErrPermissionDenied
	}
	if !tenant.Role.SeesWholeTeam() {
		own := tenant.UserID
		filter.UserID = &own
	}
	return s.store.ListReports(ctx, tenant.OrgID, filter)
}
