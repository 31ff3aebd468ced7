package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create creates a new invoice
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	if err := r.db.WithContext(ctx).Create(invoice).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update updates an existing invoice
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	result := r.db.WithContext(ctx).Save(invoice)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an invoice and any payments in a single transaction.
// The has-payments guard is enforced by the caller.
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).
			Delete(&billing.Payment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&billing.Invoice{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds an invoice by ID without loading payments
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByIDWithPayments finds an invoice with its payment history loaded
func (r *GormInvoiceRepository) FindByIDWithPayments(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	invoice, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var payments []*billing.Payment
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Order("payment_date ASC, created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	invoice.Payments = payments

	return invoice, nil
}

// FindByNumber finds an invoice by its invoice number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Where("invoice_number = ?", strings.TrimSpace(number)).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll returns invoices matching the filter with a total count
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]*billing.Invoice, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Invoice{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.SortBy, InvoiceSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)

	var invoices []*billing.Invoice
	if err := query.
		Order(sortField + " " + sortOrder).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

// FindOpenByCustomer returns a customer's invoices that are not fully paid
func (r *GormInvoiceRepository) FindOpenByCustomer(ctx context.Context, customerID uuid.UUID) ([]*billing.Invoice, error) {
	var invoices []*billing.Invoice
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status <> ?", customerID, billing.InvoiceStatusPaid).
		Order("due_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindRecent returns the most recently created invoices
func (r *GormInvoiceRepository) FindRecent(ctx context.Context, limit int) ([]*billing.Invoice, error) {
	if limit <= 0 {
		limit = 5
	}

	var invoices []*billing.Invoice
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// CountOpenByCustomer counts a customer's invoices that are not fully paid
func (r *GormInvoiceRepository) CountOpenByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("customer_id = ? AND status <> ?", customerID, billing.InvoiceStatusPaid).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks if an invoice number is already taken
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("invoice_number = ?", strings.TrimSpace(number)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the total number of invoices
func (r *GormInvoiceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.Invoice{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies keyword, status, customer, and date filters without pagination
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter billing.InvoiceFilter) *gorm.DB {
	if filter.Keyword != "" {
		pattern := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.Where("LOWER(invoice_number) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.DateFrom != nil {
		query = query.Where("issue_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("issue_date <= ?", *filter.DateTo)
	}
	return query
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
