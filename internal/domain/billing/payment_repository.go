package billing

import (
	"context"

	"github.com/google/uuid"
)

// PaymentRepository defines the interface for payment persistence.
// Payment creation goes through RecordPayment so that the invoice's
// derived balance is rewritten in the same transaction.
type PaymentRepository interface {
	// RecordPayment loads and locks the invoice row, loads its payments, and
	// invokes build to validate and construct the new payment. The payment is
	// inserted and the invoice's paid amount and status are recomputed and
	// written back before the transaction commits.
	RecordPayment(ctx context.Context, invoiceID uuid.UUID, build func(invoice *Invoice, payments []*Payment) (*Payment, error)) (*Payment, *Invoice, error)

	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByInvoice returns all payments of an invoice, oldest first
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*Payment, error)

	// FindAll returns payments matching the filter with a total count
	FindAll(ctx context.Context, filter PaymentFilter) ([]*Payment, int64, error)

	// FindRecent returns the most recently recorded payments
	FindRecent(ctx context.Context, limit int) ([]*Payment, error)

	// Count returns the total number of payments
	Count(ctx context.Context) (int64, error)
}

// PaymentFilter contains filter options for querying payments
type PaymentFilter struct {
	// Filter by invoice
	InvoiceID *uuid.UUID

	// Filter by method
	Method *PaymentMethod

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewPaymentFilter creates a new PaymentFilter with default values
func NewPaymentFilter() PaymentFilter {
	return PaymentFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "payment_date",
		SortOrder: "desc",
	}
}

// WithInvoiceID sets the invoice filter
func (f PaymentFilter) WithInvoiceID(invoiceID uuid.UUID) PaymentFilter {
	f.InvoiceID = &invoiceID
	return f
}

// WithMethod sets the method filter
func (f PaymentFilter) WithMethod(method PaymentMethod) PaymentFilter {
	f.Method = &method
	return f
}

// WithPagination sets pagination parameters
func (f PaymentFilter) WithPagination(page, pageSize int) PaymentFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f PaymentFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f PaymentFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
