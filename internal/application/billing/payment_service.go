package billing

import (
	"context"
	"errors"
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/billing/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService records and queries payments against invoices
type PaymentService struct {
	paymentRepo billing.PaymentRepository
	invoiceRepo billing.InvoiceRepository
	cfg         config.BillingConfig
	logger      *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo billing.PaymentRepository,
	invoiceRepo billing.InvoiceRepository,
	cfg config.BillingConfig,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// Record validates and records a payment against an invoice and rewrites
// the invoice's settlement state, all within one locked transaction.
// Overpayment is rejected unless billing.allow_overpayment is set.
func (s *PaymentService) Record(ctx context.Context, input RecordPaymentInput) (*RecordPaymentResult, error) {
	paymentDate := input.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	payment, invoice, err := s.paymentRepo.RecordPayment(ctx, input.InvoiceID,
		func(inv *billing.Invoice, payments []*billing.Payment) (*billing.Payment, error) {
			if !s.cfg.AllowOverpayment {
				remaining := billing.ComputeBalance(inv.Amount, payments).Remaining
				if input.Amount.GreaterThan(remaining) {
					return nil, shared.NewDomainError("OVERPAYMENT",
						"Payment exceeds the invoice's remaining balance")
				}
			}
			return billing.NewPayment(inv.ID, valueobject.NewMoneyIDR(input.Amount),
				input.Method, paymentDate, input.Note)
		})
	if err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) {
			return nil, err
		}
		s.logger.Error("Failed to record payment",
			zap.String("invoice_id", input.InvoiceID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record payment")
	}

	s.logger.Info("Payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("method", string(payment.Method)),
		zap.String("amount", payment.Amount.String()),
		zap.String("invoice_status", string(invoice.Status)))

	return &RecordPaymentResult{Payment: payment, Invoice: invoice}, nil
}

// Get returns a payment by ID
func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment not found")
	}
	return payment, nil
}

// ListByInvoice returns an invoice's payments, oldest first
func (s *PaymentService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*billing.Payment, error) {
	if _, err := s.invoiceRepo.FindByID(ctx, invoiceID); err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}

	payments, err := s.paymentRepo.FindByInvoice(ctx, invoiceID)
	if err != nil {
		s.logger.Error("Failed to load invoice payments",
			zap.String("invoice_id", invoiceID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load payments")
	}
	return payments, nil
}

// List returns payments matching the filter
func (s *PaymentService) List(ctx context.Context, input ListPaymentsInput) (*PaymentPage, error) {
	filter := billing.NewPaymentFilter()
	filter.InvoiceID = input.InvoiceID
	filter.Method = input.Method
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.SortBy != "" {
		filter.SortBy = input.SortBy
	}
	if input.SortOrder != "" {
		filter.SortOrder = input.SortOrder
	}

	payments, total, err := s.paymentRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list payments", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list payments")
	}

	return &PaymentPage{
		Payments: payments,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.Limit(),
	}, nil
}
