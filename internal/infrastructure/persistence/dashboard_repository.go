package persistence

import (
	"context"
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDashboardRepository implements report.DashboardRepository using GORM
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetStats computes all dashboard aggregates for the given window
func (r *GormDashboardRepository) GetStats(ctx context.Context, filter report.DashboardFilter) (*report.DashboardStats, error) {
	db := r.db.WithContext(ctx)

	var totalCustomers int64
	if err := db.Model(&billing.Customer{}).Count(&totalCustomers).Error; err != nil {
		return nil, err
	}

	var totalInvoices int64
	if err := db.Model(&billing.Invoice{}).Count(&totalInvoices).Error; err != nil {
		return nil, err
	}

	var invoicesIssued int64
	if err := db.Model(&billing.Invoice{}).
		Where("issue_date >= ? AND issue_date < ?", filter.StartDate, filter.EndDate).
		Count(&invoicesIssued).Error; err != nil {
		return nil, err
	}

	var paymentsReceived decimal.Decimal
	if err := db.Model(&billing.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("payment_date >= ? AND payment_date < ?", filter.StartDate, filter.EndDate).
		Scan(&paymentsReceived).Error; err != nil {
		return nil, err
	}

	var openCount int64
	if err := db.Model(&billing.Invoice{}).
		Where("status <> ?", billing.InvoiceStatusPaid).
		Count(&openCount).Error; err != nil {
		return nil, err
	}

	var outstanding decimal.Decimal
	if err := db.Model(&billing.Invoice{}).
		Select("COALESCE(SUM(amount - paid_amount), 0)").
		Where("status <> ?", billing.InvoiceStatusPaid).
		Scan(&outstanding).Error; err != nil {
		return nil, err
	}

	var overdueCount int64
	if err := db.Model(&billing.Invoice{}).
		Where("status <> ? AND due_date < ?", billing.InvoiceStatusPaid, time.Now()).
		Count(&overdueCount).Error; err != nil {
		return nil, err
	}

	return &report.DashboardStats{
		PeriodStart:       filter.StartDate,
		PeriodEnd:         filter.EndDate,
		TotalCustomers:    totalCustomers,
		TotalInvoices:     totalInvoices,
		InvoicesIssued:    invoicesIssued,
		PaymentsReceived:  paymentsReceived,
		OpenInvoiceCount:  openCount,
		OutstandingAmount: outstanding,
		OverdueCount:      overdueCount,
	}, nil
}

// Ensure GormDashboardRepository implements DashboardRepository
var _ report.DashboardRepository = (*GormDashboardRepository)(nil)
