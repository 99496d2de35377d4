package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salespulse/salespulse/internal/shared"
)

// PostgresRepository fetches flat sale records for the metrics pipeline.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FetchSaleRecords returns one record per sale line joined with its parent
// daily report, product and reporting user, scoped to the tenant. Reports
// without sale lines still contribute a record so call counters survive
// zero-revenue days. Rows whose report date is NULL are skipped; they cannot
// resolve to a calendar date and must not be coerced to one.
func (r *PostgresRepository) FetchSaleRecords(ctx context.Context, tenant shared.TenantContext, filter QueryFilter) ([]SaleRecord, error) {
	if !tenant.Valid() {
		return nil, shared.ErrTenantMissing
	}

	var sb strings.Builder
	sb.WriteString(`SELECT dr.report_date,
	COALESCE(rs.revenue, 0)::float8,
	COALESCE(rs.units, 0),
	COALESCE(p.name, 'Unknown'),
	COALESCE(u.name, 'Unknown'),
	dr.closes, dr.offers, dr.calls
FROM daily_reports dr
LEFT JOIN report_sales rs ON rs.report_id = dr.id
LEFT JOIN products p ON p.id = rs.product_id
JOIN users u ON u.id = dr.user_id
WHERE dr.org_id = $1`)
	args := []any{tenant.OrgID}

	if filter.Range != nil {
		if err := filter.Range.Validate(); err != nil {
			return nil, err
		}
		args = append(args, DateOnly(filter.Range.Start))
		fmt.Fprintf(&sb, " AND dr.report_date >= $%d", len(args))
		args = append(args, DateOnly(filter.Range.End))
		fmt.Fprintf(&sb, " AND dr.report_date <= $%d", len(args))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		fmt.Fprintf(&sb, " AND dr.user_id = $%d", len(args))
	}
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		fmt.Fprintf(&sb, " AND rs.product_id = $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("metrics: fetch sale records: %w", err)
	}
	defer rows.Close()

	var (
		records []SaleRecord
		skipped int
	)
	for rows.Next() {
		var (
			date pgtype.Date
			rec  SaleRecord
		)
		if err := rows.Scan(&date, &rec.Revenue, &rec.Units, &rec.ProductName, &rec.UserName, &rec.Closes, &rec.Offers, &rec.Calls); err != nil {
			return nil, fmt.Errorf("metrics: scan sale record: %w", err)
		}
		if !date.Valid {
			skipped++
			continue
		}
		rec.Date = DateOnly(date.Time)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("metrics: fetch sale records: %w", err)
	}
	if skipped > 0 {
		slog.Warn("sale records without report date skipped",
			slog.Int("skipped", skipped),
			slog.Int64("org_id", tenant.OrgID))
	}
	return records, nil
}
