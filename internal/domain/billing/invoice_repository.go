package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// Create creates a new invoice
	Create(ctx context.Context, invoice *Invoice) error

	// Update updates an existing invoice
	Update(ctx context.Context, invoice *Invoice) error

	// Delete removes an invoice and any payments in a single transaction.
	// The has-payments guard is enforced by the caller.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds an invoice by ID without loading payments
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDWithPayments finds an invoice with its payment history loaded
	FindByIDWithPayments(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by its invoice number
	FindByNumber(ctx context.Context, number string) (*Invoice, error)

	// FindAll returns invoices matching the filter with a total count
	FindAll(ctx context.Context, filter InvoiceFilter) ([]*Invoice, int64, error)

	// FindOpenByCustomer returns a customer's invoices that are not fully paid
	FindOpenByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Invoice, error)

	// FindRecent returns the most recently created invoices
	FindRecent(ctx context.Context, limit int) ([]*Invoice, error)

	// CountOpenByCustomer counts a customer's invoices that are not fully paid
	CountOpenByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)

	// ExistsByNumber checks if an invoice number is already taken
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// Count returns the total number of invoices
	Count(ctx context.Context) (int64, error)
}

// InvoiceFilter contains filter options for querying invoices
type InvoiceFilter struct {
	// Search keyword matched against invoice number and description
	Keyword string

	// Filter by status
	Status *InvoiceStatus

	// Filter by owning customer
	CustomerID *uuid.UUID

	// Issue date range, inclusive on both ends
	DateFrom *time.Time
	DateTo   *time.Time

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewInvoiceFilter creates a new InvoiceFilter with default values
func NewInvoiceFilter() InvoiceFilter {
	return InvoiceFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// WithKeyword sets the search keyword
func (f InvoiceFilter) WithKeyword(keyword string) InvoiceFilter {
	f.Keyword = keyword
	return f
}

// WithStatus sets the status filter
func (f InvoiceFilter) WithStatus(status InvoiceStatus) InvoiceFilter {
	f.Status = &status
	return f
}

// WithCustomerID sets the customer filter
func (f InvoiceFilter) WithCustomerID(customerID uuid.UUID) InvoiceFilter {
	f.CustomerID = &customerID
	return f
}

// WithDateRange sets the inclusive issue date range
func (f InvoiceFilter) WithDateRange(from, to time.Time) InvoiceFilter {
	if !from.IsZero() {
		f.DateFrom = &from
	}
	if !to.IsZero() {
		f.DateTo = &to
	}
	return f
}

// WithPagination sets pagination parameters
func (f InvoiceFilter) WithPagination(page, pageSize int) InvoiceFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f InvoiceFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f InvoiceFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
