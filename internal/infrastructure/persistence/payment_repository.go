package persistence

import (
	"context"
	"errors"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRepository implements billing.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// RecordPayment inserts a payment and rewrites the invoice's derived balance
// in one transaction. The invoice row is locked for the duration so two
// concurrent payments against the same invoice serialize.
func (r *GormPaymentRepository) RecordPayment(
	ctx context.Context,
	invoiceID uuid.UUID,
	build func(invoice *billing.Invoice, payments []*billing.Payment) (*billing.Payment, error),
) (*billing.Payment, *billing.Invoice, error) {
	var (
		payment *billing.Payment
		invoice *billing.Invoice
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		// SQLite serializes writers on its own and rejects FOR UPDATE
		if tx.Dialector.Name() == "postgres" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var inv billing.Invoice
		if err := query.First(&inv, "id = ?", invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		var existing []*billing.Payment
		if err := tx.
			Where("invoice_id = ?", invoiceID).
			Order("payment_date ASC, created_at ASC").
			Find(&existing).Error; err != nil {
			return err
		}
		inv.Payments = existing

		p, err := build(&inv, existing)
		if err != nil {
			return err
		}

		if err := tx.Create(p).Error; err != nil {
			return err
		}

		balance := billing.ComputeBalance(inv.Amount, append(existing, p))
		inv.ApplyBalance(balance)
		inv.Payments = append(existing, p)

		if err := tx.Model(&billing.Invoice{}).
			Where("id = ?", inv.ID).
			Updates(map[string]any{
				"paid_amount": inv.PaidAmount,
				"status":      inv.Status,
				"updated_at":  inv.UpdatedAt,
				"version":     inv.Version,
			}).Error; err != nil {
			return err
		}

		payment = p
		invoice = &inv
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return payment, invoice, nil
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	var payment billing.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByInvoice returns all payments of an invoice, oldest first
func (r *GormPaymentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*billing.Payment, error) {
	var payments []*billing.Payment
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC, created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindAll returns payments matching the filter with a total count
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter billing.PaymentFilter) ([]*billing.Payment, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Payment{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.SortBy, PaymentSortFields, "payment_date")
	sortOrder := ValidateSortOrder(filter.SortOrder)

	var payments []*billing.Payment
	if err := query.
		Order(sortField + " " + sortOrder).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// FindRecent returns the most recently recorded payments
func (r *GormPaymentRepository) FindRecent(ctx context.Context, limit int) ([]*billing.Payment, error) {
	if limit <= 0 {
		limit = 5
	}

	var payments []*billing.Payment
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Count returns the total number of payments
func (r *GormPaymentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.Payment{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies invoice and method filters without pagination
func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter billing.PaymentFilter) *gorm.DB {
	if filter.InvoiceID != nil {
		query = query.Where("invoice_id = ?", *filter.InvoiceID)
	}
	if filter.Method != nil {
		query = query.Where("method = ?", *filter.Method)
	}
	return query
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
