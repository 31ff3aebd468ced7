package billing

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// Create creates a new customer
	Create(ctx context.Context, customer *Customer) error

	// Update updates an existing customer
	Update(ctx context.Context, customer *Customer) error

	// DeleteCascade removes a customer together with its invoices and their
	// payments in a single transaction
	DeleteCascade(ctx context.Context, id uuid.UUID) error

	// FindByID finds a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindAll returns customers matching the filter with a total count
	FindAll(ctx context.Context, filter CustomerFilter) ([]*Customer, int64, error)

	// ExistsByEmail checks if an email belongs to another customer.
	// excludeID skips a customer (used when updating).
	ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)

	// Count returns the total number of customers
	Count(ctx context.Context) (int64, error)
}

// CustomerFilter contains filter options for querying customers
type CustomerFilter struct {
	// Search keyword matched against name, email, and phone
	Keyword string

	// Filter by status
	Status *CustomerStatus

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewCustomerFilter creates a new CustomerFilter with default values
func NewCustomerFilter() CustomerFilter {
	return CustomerFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// WithKeyword sets the search keyword
func (f CustomerFilter) WithKeyword(keyword string) CustomerFilter {
	f.Keyword = keyword
	return f
}

// WithStatus sets the status filter
func (f CustomerFilter) WithStatus(status CustomerStatus) CustomerFilter {
	f.Status = &status
	return f
}

// WithPagination sets pagination parameters
func (f CustomerFilter) WithPagination(page, pageSize int) CustomerFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f CustomerFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f CustomerFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
