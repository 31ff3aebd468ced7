package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/report"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestGormDashboardRepository_GetStats_EmptyLedger(t *testing.T) {
	db := setupBillingDB(t)
	repo := NewGormDashboardRepository(db)

	filter := report.CurrentMonthFilter(time.Now())
	stats, err := repo.GetStats(context.Background(), filter)
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.TotalCustomers)
	assert.Equal(t, int64(0), stats.TotalInvoices)
	assert.Equal(t, int64(0), stats.InvoicesIssued)
	assert.True(t, stats.PaymentsReceived.IsZero(), "empty window must sum to zero, got %s", stats.PaymentsReceived)
	assert.Equal(t, int64(0), stats.OpenInvoiceCount)
	assert.True(t, stats.OutstandingAmount.IsZero())
	assert.Equal(t, int64(0), stats.OverdueCount)
}

func TestGormDashboardRepository_GetStats(t *testing.T) {
	db := setupBillingDB(t)
	repo := NewGormDashboardRepository(db)
	customerRepo := NewGormCustomerRepository(db)
	invoiceRepo := NewGormInvoiceRepository(db)
	paymentRepo := NewGormPaymentRepository(db)
	ctx := context.Background()

	customer := mustCustomer(t, "PT Maju Jaya", "billing@majujaya.co.id")
	require.NoError(t, customerRepo.Create(ctx, customer))

	now := time.Now()
	filter := report.CurrentMonthFilter(now)

	// Open invoice issued this month, partially paid
	partial, err := billing.NewInvoice(customer.ID,
		valueobject.NewMoneyIDR(decimal.NewFromInt(1000000)),
		now, now.AddDate(0, 0, 14), "in-window invoice")
	require.NoError(t, err)
	require.NoError(t, invoiceRepo.Create(ctx, partial))

	// Overdue invoice issued before the window
	past := filter.StartDate.AddDate(0, -1, 0)
	overdue, err := billing.NewInvoice(customer.ID,
		valueobject.NewMoneyIDR(decimal.NewFromInt(500000)),
		past, past.AddDate(0, 0, 7), "stale invoice")
	require.NoError(t, err)
	require.NoError(t, invoiceRepo.Create(ctx, overdue))

	_, _, err = paymentRepo.RecordPayment(ctx, partial.ID, func(inv *billing.Invoice, payments []*billing.Payment) (*billing.Payment, error) {
		return billing.NewPayment(inv.ID, valueobject.NewMoneyIDR(decimal.NewFromInt(400000)), billing.PaymentMethodTransfer, now, "DP")
	})
	require.NoError(t, err)

	stats, err := repo.GetStats(ctx, filter)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TotalCustomers)
	assert.Equal(t, int64(2), stats.TotalInvoices)
	assert.Equal(t, int64(1), stats.InvoicesIssued)
	assert.True(t, stats.PaymentsReceived.Equal(decimal.NewFromInt(400000)),
		"payments received %s", stats.PaymentsReceived)
	assert.Equal(t, int64(2), stats.OpenInvoiceCount)
	// 600000 remaining on the partial invoice plus the full 500000
	assert.True(t, stats.OutstandingAmount.Equal(decimal.NewFromInt(1100000)),
		"outstanding %s", stats.OutstandingAmount)
	assert.Equal(t, int64(1), stats.OverdueCount)
}

func newMockDashboardRepository(t *testing.T) (*GormDashboardRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormDashboardRepository(gormDB), mock, mockDB
}

func TestGormDashboardRepository_GetStats_SQL(t *testing.T) {
	repo, mock, mockDB := newMockDashboardRepository(t)
	defer mockDB.Close()

	countRow := func(n int64) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"count"}).AddRow(n)
	}
	sumRow := func(v string) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"coalesce"}).AddRow(v)
	}

	mock.ExpectQuery(`SELECT count\(\*\) FROM "customers"`).WillReturnRows(countRow(3))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices"`).WillReturnRows(countRow(10))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE issue_date >= .+ AND issue_date < .+`).
		WillReturnRows(countRow(4))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "payments" WHERE payment_date >= .+ AND payment_date < .+`).
		WillReturnRows(sumRow("400000"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE status <> .+`).WillReturnRows(countRow(5))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount - paid_amount\), 0\) FROM "invoices" WHERE status <> .+`).
		WillReturnRows(sumRow("1100000"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE status <> .+ AND due_date < .+`).
		WillReturnRows(countRow(2))

	filter := report.CurrentMonthFilter(time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC))
	stats, err := repo.GetStats(context.Background(), filter)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalCustomers)
	assert.Equal(t, int64(10), stats.TotalInvoices)
	assert.Equal(t, int64(4), stats.InvoicesIssued)
	assert.True(t, stats.PaymentsReceived.Equal(decimal.NewFromInt(400000)))
	assert.Equal(t, int64(5), stats.OpenInvoiceCount)
	assert.True(t, stats.OutstandingAmount.Equal(decimal.NewFromInt(1100000)))
	assert.Equal(t, int64(2), stats.OverdueCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
