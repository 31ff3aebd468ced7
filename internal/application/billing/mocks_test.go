package billing

import (
	"context"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCustomerRepository is a mock implementation of billing.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *billing.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *billing.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter billing.CustomerFilter) ([]*billing.Customer, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*billing.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDWithPayments(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]*billing.Invoice, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*billing.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) FindOpenByCustomer(ctx context.Context, customerID uuid.UUID) ([]*billing.Invoice, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindRecent(ctx context.Context, limit int) ([]*billing.Invoice, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountOpenByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentRepository is a mock implementation of billing.PaymentRepository.
// RecordPayment runs the build callback against the invoice and payments
// primed on the mock, mirroring the transactional repository.
type MockPaymentRepository struct {
	mock.Mock

	// Invoice and payment history handed to the build callback
	Invoice  *billing.Invoice
	Payments []*billing.Payment
}

func (m *MockPaymentRepository) RecordPayment(ctx context.Context, invoiceID uuid.UUID, build func(invoice *billing.Invoice, payments []*billing.Payment) (*billing.Payment, error)) (*billing.Payment, *billing.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Error(0) != nil {
		return nil, nil, args.Error(0)
	}

	payment, err := build(m.Invoice, m.Payments)
	if err != nil {
		return nil, nil, err
	}

	m.Payments = append(m.Payments, payment)
	m.Invoice.Payments = m.Payments
	m.Invoice.ApplyBalance(m.Invoice.Balance())
	return payment, m.Invoice, nil
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*billing.Payment, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter billing.PaymentFilter) ([]*billing.Payment, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*billing.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) FindRecent(ctx context.Context, limit int) ([]*billing.Payment, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
