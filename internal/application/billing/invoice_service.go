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

// invoiceNumberAttempts bounds the retry loop when a generated number
// collides with an existing one
const invoiceNumberAttempts = 5

// InvoicePDFRenderer renders an invoice with its payment history as PDF
type InvoicePDFRenderer interface {
	Render(invoice *billing.Invoice, customer *billing.Customer) ([]byte, error)
}

// InvoiceService handles invoice lifecycle operations
type InvoiceService struct {
	invoiceRepo  billing.InvoiceRepository
	customerRepo billing.CustomerRepository
	renderer     InvoicePDFRenderer
	cfg          config.BillingConfig
	logger       *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	customerRepo billing.CustomerRepository,
	renderer InvoicePDFRenderer,
	cfg config.BillingConfig,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		renderer:     renderer,
		cfg:          cfg,
		logger:       logger,
	}
}

// Create raises a new unpaid invoice for an existing customer
func (s *InvoiceService) Create(ctx context.Context, input CreateInvoiceInput) (*billing.Invoice, error) {
	if _, err := s.customerRepo.FindByID(ctx, input.CustomerID); err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}

	issueDate := input.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now()
	}

	invoice, err := billing.NewInvoice(
		input.CustomerID,
		valueobject.NewMoneyIDR(input.Amount),
		issueDate,
		input.DueDate,
		input.Description,
	)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < invoiceNumberAttempts; attempt++ {
		invoice.InvoiceNumber = billing.NewInvoiceNumber(s.cfg.InvoicePrefix, issueDate)

		err = s.invoiceRepo.Create(ctx, invoice)
		if err == nil {
			s.logger.Info("Invoice created",
				zap.String("invoice_id", invoice.ID.String()),
				zap.String("invoice_number", invoice.InvoiceNumber),
				zap.String("customer_id", invoice.CustomerID.String()))
			return invoice, nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			break
		}
		s.logger.Warn("Invoice number collision, regenerating",
			zap.String("invoice_number", invoice.InvoiceNumber))
	}

	s.logger.Error("Failed to create invoice", zap.Error(err))
	return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create invoice")
}

// Get returns an invoice with its payment history
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDWithPayments(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}
	return invoice, nil
}

// List returns invoices matching the filter
func (s *InvoiceService) List(ctx context.Context, input ListInvoicesInput) (*InvoicePage, error) {
	filter := billing.NewInvoiceFilter()
	filter.Keyword = input.Keyword
	filter.Status = input.Status
	filter.CustomerID = input.CustomerID
	filter.DateFrom = input.DateFrom
	filter.DateTo = input.DateTo
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

	invoices, total, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list invoices")
	}

	return &InvoicePage{
		Invoices: invoices,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.Limit(),
	}, nil
}

// Update edits an invoice's amount, due date, and description.
// Invoices with recorded payments are immutable.
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, input UpdateInvoiceInput) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDWithPayments(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}

	if err := invoice.UpdateDetails(valueobject.NewMoneyIDR(input.Amount), input.DueDate, input.Description); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		s.logger.Error("Failed to update invoice",
			zap.String("invoice_id", id.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update invoice")
	}

	return invoice, nil
}

// Delete removes an invoice without payments
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByIDWithPayments(ctx, id)
	if err != nil {
		return shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}

	if err := invoice.CanDelete(); err != nil {
		return err
	}

	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete invoice",
			zap.String("invoice_id", id.String()), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete invoice")
	}

	s.logger.Info("Invoice deleted", zap.String("invoice_id", id.String()))
	return nil
}

// UnpaidByCustomer returns a customer's invoices that still carry a balance
func (s *InvoiceService) UnpaidByCustomer(ctx context.Context, customerID uuid.UUID) ([]*billing.Invoice, error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}

	invoices, err := s.invoiceRepo.FindOpenByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error("Failed to load open invoices",
			zap.String("customer_id", customerID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load open invoices")
	}
	return invoices, nil
}

// RenderPDF renders an invoice with its payment history as a PDF document
func (s *InvoiceService) RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	invoice, err := s.invoiceRepo.FindByIDWithPayments(ctx, id)
	if err != nil {
		return nil, "", shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}

	customer, err := s.customerRepo.FindByID(ctx, invoice.CustomerID)
	if err != nil {
		s.logger.Error("Invoice references missing customer",
			zap.String("invoice_id", id.String()),
			zap.String("customer_id", invoice.CustomerID.String()))
		return nil, "", shared.NewDomainError("INTERNAL_ERROR", "Failed to render invoice")
	}

	data, err := s.renderer.Render(invoice, customer)
	if err != nil {
		s.logger.Error("Failed to render invoice PDF",
			zap.String("invoice_id", id.String()), zap.Error(err))
		return nil, "", shared.NewDomainError("INTERNAL_ERROR", "Failed to render invoice")
	}

	filename := invoice.InvoiceNumber + ".pdf"
	return data, filename, nil
}
