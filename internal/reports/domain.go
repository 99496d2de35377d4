package reports

import "time"

// DailyReport is one rep's end-of-day submission: activity counters plus the
// individual sales closed that day.
type DailyReport struct {
	ID         int64      `json:"id"`
	OrgID      int64      `json:"org_id"`
	UserID     int64      `json:"user_id"`
	ReportDate time.Time  `json:"report_date"`
	Calls      int        `json:"calls"`
	Offers     int        `json:"offers"`
	Closes     int        `json:"closes"`
	Notes      *string    `json:"notes,omitempty"`
	Sales      []SaleLine `json:"sales,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// SaleLine is a single sale attributed to a daily report.
type SaleLine struct {
	ID        int64   `json:"id"`
	ReportID  int64   `json:"report_id"`
	ProductID *int64  `json:"product_id,omitempty"`
	Revenue   float64 `json:"revenue"`
	Units     int     `json:"units"`
}

// SubmitReportRequest is the end-of-day submission payload. Resubmitting for
// the same date replaces the previous report.
type SubmitReportRequest struct {
	ReportDate string           `json:"report_date" validate:"required,datetime=2006-01-02"`
	Calls      int              `json:"calls" validate:"gte=0"`
	Offers     int              `json:"offers" validate:"gte=0"`
	Closes     int              `json:"closes" validate:"gte=0"`
	Notes      *string          `json:"notes,omitempty"`
	Sales      []SubmitSaleLine `json:"sales,omitempty" validate:"dive"`
}

// SubmitSaleLine is one sale in a submission.
type SubmitSaleLine struct {
	ProductID *int64  `json:"product_id,omitempty" validate:"omitempty,gt=0"`
	Revenue   float64 `json:"revenue" validate:"gte=0"`
	Units     int     `json:"units" validate:"gte=0"`
}

// ListFilter scopes a report listing. Page and PerPage are clamped by the
// repository; zero values fall back to the defaults.
type ListFilter struct {
	UserID  *int64
	From    *time.Time
	To      *time.Time
	Page    int
	PerPage int
}
