package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salespulse/salespulse/internal/platform/db"
	"github.com/salespulse/salespulse/internal/shared"
)

// ErrNotFound indicates resource not found.
var ErrNotFound = errors.New("reports: not found")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes transactional operations.
type TxRepository interface {
	UpsertReport(ctx context.Context, report DailyReport) (int64, error)
	DeleteSaleLines(ctx context.Context, reportID int64) error
	InsertSaleLine(ctx context.Context, line SaleLine) (int64, error)
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps callback in repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

// GetReport returns a report with its sale lines, scoped to the organisation.
func (r *Repository) GetReport(ctx context.Context, orgID, id int64) (*DailyReport, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, org_id, user_id, report_date, calls, offers, closes, notes, created_at, updated_at
FROM daily_reports WHERE id = $1 AND org_id = $2`, id, orgID)
	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	lines, err := r.listSaleLines(ctx, report.ID)
	if err != nil {
		return nil, err
	}
	report.Sales = lines
	return report, nil
}

// ListReports returns reports for the organisation matching the filter,
// newest report date first.
func (r *Repository) ListReports(ctx context.Context, orgID int64, filter ListFilter) ([]DailyReport, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, org_id, user_id, report_date, calls, offers, closes, notes, created_at, updated_at
FROM daily_reports WHERE org_id = $1`)
	args := []any{orgID}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		fmt.Fprintf(&sb, " AND user_id = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		fmt.Fprintf(&sb, " AND report_date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		fmt.Fprintf(&sb, " AND report_date <= $%d", len(args))
	}
	sb.WriteString(" ORDER BY report_date DESC, id DESC")

	page := shared.NewPagination(filter.Page, filter.PerPage, 0)
	args = append(args, page.PerPage)
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	args = append(args, page.Offset())
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []DailyReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

func (r *Repository) listSaleLines(ctx context.Context, reportID int64) ([]SaleLine, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, report_id, product_id, revenue::float8, units
FROM report_sales WHERE report_id = $1 ORDER BY id`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []SaleLine
	for rows.Next() {
		var line SaleLine
		if err := rows.Scan(&line.ID, &line.ReportID, &line.ProductID, &line.Revenue, &line.Units); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// UpsertReport inserts or replaces the report for (org, user, date).
func (t *txRepo) UpsertReport(ctx context.Context, report DailyReport) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `INSERT INTO daily_reports (org_id, user_id, report_date, calls, offers, closes, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
ON CONFLICT (org_id, user_id, report_date)
DO UPDATE SET calls = EXCLUDED.calls, offers = EXCLUDED.offers, closes = EXCLUDED.closes, notes = EXCLUDED.notes, updated_at = now()
RETURNING id`,
		report.OrgID, report.UserID, report.ReportDate, report.Calls, report.Offers, report.Closes, report.Notes).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (t *txRepo) DeleteSaleLines(ctx context.Context, reportID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM report_sales WHERE report_id = $1`, reportID)
	return err
}

func (t *txRepo) InsertSaleLine(ctx context.Context, line SaleLine) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `INSERT INTO report_sales (report_id, product_id, revenue, units, created_at)
VALUES ($1, $2, $3, $4, now()) RETURNING id`,
		line.ReportID, line.ProductID, line.Revenue, line.Units).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*DailyReport, error) {
	var (
		report DailyReport
		date   time.Time
	)
	if err := row.Scan(&report.ID, &report.OrgID, &report.UserID, &date, &report.Calls, &report.Offers, &report.Closes, &report.Notes, &report.CreatedAt, &report.UpdatedAt); err != nil {
		return nil, err
	}
	report.ReportDate = date
	return &report, nil
}
