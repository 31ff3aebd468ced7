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

// GormCustomerRepository implements billing.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Create creates a new customer
func (r *GormCustomerRepository) Create(ctx context.Context, customer *billing.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update updates an existing customer
func (r *GormCustomerRepository) Update(ctx context.Context, customer *billing.Customer) error {
	result := r.db.WithContext(ctx).Save(customer)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteCascade removes a customer, its invoices, and their payments in a
// single transaction. The no-unsettled-invoices guard is the caller's job.
func (r *GormCustomerRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoiceIDs []uuid.UUID
		if err := tx.Model(&billing.Invoice{}).
			Where("customer_id = ?", id).
			Pluck("id", &invoiceIDs).Error; err != nil {
			return err
		}

		if len(invoiceIDs) > 0 {
			if err := tx.Where("invoice_id IN ?", invoiceIDs).
				Delete(&billing.Payment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("customer_id = ?", id).
				Delete(&billing.Invoice{}).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&billing.Customer{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Customer, error) {
	var customer billing.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindAll returns customers matching the filter with a total count
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter billing.CustomerFilter) ([]*billing.Customer, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Customer{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.SortBy, CustomerSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)

	var customers []*billing.Customer
	if err := query.
		Order(sortField + " " + sortOrder).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&customers).Error; err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

// ExistsByEmail checks if an email belongs to another customer
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}

	query := r.db.WithContext(ctx).
		Model(&billing.Customer{}).
		Where("email = ?", email)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the total number of customers
func (r *GormCustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.Customer{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies keyword and status filters without pagination
func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter billing.CustomerFilter) *gorm.DB {
	if filter.Keyword != "" {
		pattern := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			pattern, pattern, "%"+filter.Keyword+"%")
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ billing.CustomerRepository = (*GormCustomerRepository)(nil)
