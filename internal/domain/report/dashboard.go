package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardFilter bounds the reporting window. Both bounds are inclusive
// of StartDate and exclusive of EndDate.
type DashboardFilter struct {
	StartDate time.Time
	EndDate   time.Time
}

// CurrentMonthFilter returns a filter covering the calendar month of now.
func CurrentMonthFilter(now time.Time) DashboardFilter {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return DashboardFilter{
		StartDate: start,
		EndDate:   start.AddDate(0, 1, 0),
	}
}

// DashboardStats is a read model of ledger-wide and in-window aggregates.
// It is recomputed per request.
type DashboardStats struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	// Whole-ledger counters
	TotalCustomers int64 `json:"total_customers"`
	TotalInvoices  int64 `json:"total_invoices"`

	// In-window activity
	InvoicesIssued   int64           `json:"invoices_issued"`
	PaymentsReceived decimal.Decimal `json:"payments_received"`

	// Open position as of now
	OpenInvoiceCount  int64           `json:"open_invoice_count"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	OverdueCount      int64           `json:"overdue_count"`
}

// DashboardRepository aggregates ledger statistics for the dashboard
type DashboardRepository interface {
	// GetStats computes all dashboard aggregates for the given window.
	// Sums are zero, never null, when the window is empty.
	GetStats(ctx context.Context, filter DashboardFilter) (*DashboardStats, error)
}
