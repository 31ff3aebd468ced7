package report

import (
	"context"
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/report"
	"github.com/billing/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// recentLimit is the number of recent invoices and payments on the dashboard
const recentLimit = 5

// Dashboard combines aggregate statistics with recent ledger activity
type Dashboard struct {
	Stats          *report.DashboardStats `json:"stats"`
	RecentInvoices []*billing.Invoice     `json:"recent_invoices"`
	RecentPayments []*billing.Payment     `json:"recent_payments"`
}

// DashboardService computes dashboard statistics per request
type DashboardService struct {
	dashboardRepo report.DashboardRepository
	invoiceRepo   billing.InvoiceRepository
	paymentRepo   billing.PaymentRepository
	logger        *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	dashboardRepo report.DashboardRepository,
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		invoiceRepo:   invoiceRepo,
		paymentRepo:   paymentRepo,
		logger:        logger,
	}
}

// GetDashboard computes the dashboard for the given window.
// A nil filter defaults to the current calendar month.
func (s *DashboardService) GetDashboard(ctx context.Context, filter *report.DashboardFilter) (*Dashboard, error) {
	window := report.CurrentMonthFilter(time.Now())
	if filter != nil {
		window = *filter
	}

	stats, err := s.dashboardRepo.GetStats(ctx, window)
	if err != nil {
		s.logger.Error("Failed to compute dashboard stats", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute dashboard")
	}

	invoices, err := s.invoiceRepo.FindRecent(ctx, recentLimit)
	if err != nil {
		s.logger.Error("Failed to load recent invoices", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute dashboard")
	}

	payments, err := s.paymentRepo.FindRecent(ctx, recentLimit)
	if err != nil {
		s.logger.Error("Failed to load recent payments", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute dashboard")
	}

	return &Dashboard{
		Stats:          stats,
		RecentInvoices: invoices,
		RecentPayments: payments,
	}, nil
}
