package billing

import (
	"context"
	"testing"
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPaymentService(payments *MockPaymentRepository, invoices *MockInvoiceRepository, cfg config.BillingConfig) *PaymentService {
	return NewPaymentService(payments, invoices, cfg, zap.NewNop())
}

func TestPaymentService_Record_Partial(t *testing.T) {
	invoice := testInvoiceEntity(t, uuid.New(), 1000000)
	payments := &MockPaymentRepository{Invoice: invoice}
	svc := newPaymentService(payments, new(MockInvoiceRepository), config.BillingConfig{})

	payments.On("RecordPayment", mock.Anything, invoice.ID).Return(nil)

	result, err := svc.Record(context.Background(), RecordPaymentInput{
		InvoiceID:   invoice.ID,
		Amount:      decimal.NewFromInt(400000),
		Method:      billing.PaymentMethodTransfer,
		PaymentDate: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Note:        "first installment",
	})
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusPartial, result.Invoice.Status)
	assert.True(t, result.Invoice.PaidAmount.Equal(decimal.NewFromInt(400000)))
	assert.Equal(t, billing.PaymentMethodTransfer, result.Payment.Method)
	assert.Equal(t, "first installment", result.Payment.Note)
}

func TestPaymentService_Record_Settles(t *testing.T) {
	invoice := testInvoiceEntity(t, uuid.New(), 1000000)
	payments := &MockPaymentRepository{Invoice: invoice}
	svc := newPaymentService(payments, new(MockInvoiceRepository), config.BillingConfig{})

	payments.On("RecordPayment", mock.Anything, invoice.ID).Return(nil)

	first, err := svc.Record(context.Background(), RecordPaymentInput{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(600000),
		Method:    billing.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusPartial, first.Invoice.Status)

	second, err := svc.Record(context.Background(), RecordPaymentInput{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(400000),
		Method:    billing.PaymentMethodQRIS,
	})
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusPaid, second.Invoice.Status)
	assert.True(t, second.Invoice.PaidAmount.Equal(invoice.Amount))
}

func TestPaymentService_Record_Overpayment(t *testing.T) {
	invoice := testInvoiceEntity(t, uuid.New(), 1000000)
	payments := &MockPaymentRepository{Invoice: invoice}
	svc := newPaymentService(payments, new(MockInvoiceRepository), config.BillingConfig{})

	payments.On("RecordPayment", mock.Anything, invoice.ID).Return(nil)

	_, err := svc.Record(context.Background(), RecordPaymentInput{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(1200000),
		Method:    billing.PaymentMethodTransfer,
	})
	assertDomainCode(t, err, "OVERPAYMENT")
	assert.Equal(t, billing.InvoiceStatusUnpaid, invoice.Status)
	assert.Empty(t, payments.Payments)
}

func TestPaymentService_Record_OverpaymentAllowedByConfig(t *testing.T) {
	invoice := testInvoiceEntity(t, uuid.New(), 1000000)
	payments := &MockPaymentRepository{Invoice: invoice}
	svc := newPaymentService(payments, new(MockInvoiceRepository), config.BillingConfig{AllowOverpayment: true})

	payments.On("RecordPayment", mock.Anything, invoice.ID).Return(nil)

	result, err := svc.Record(context.Background(), RecordPaymentInput{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(1200000),
		Method:    billing.PaymentMethodTransfer,
	})
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusPaid, result.Invoice.Status)
	assert.True(t, result.Invoice.PaidAmount.Equal(decimal.NewFromInt(1200000)))
}

func TestPaymentService_Record_InvoiceMissing(t *testing.T) {
	payments := new(MockPaymentRepository)
	svc := newPaymentService(payments, new(MockInvoiceRepository), config.BillingConfig{})

	id := uuid.New()
	payments.On("RecordPayment", mock.Anything, id).Return(shared.ErrNotFound)

	_, err := svc.Record(context.Background(), RecordPaymentInput{
		InvoiceID: id,
		Amount:    decimal.NewFromInt(100000),
		Method:    billing.PaymentMethodCash,
	})
	assertDomainCode(t, err, "NOT_FOUND")
}

func TestPaymentService_Record_InvalidMethod(t *testing.T) {
	invoice := testInvoiceEntity(t, uuid.New(), 1000000)
	payments := &MockPaymentRepository{Invoice: invoice}
	svc := newPaymentService(payments, new(MockInvoiceRepository), config.BillingConfig{})

	payments.On("RecordPayment", mock.Anything, invoice.ID).Return(nil)

	_, err := svc.Record(context.Background(), RecordPaymentInput{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(100000),
		Method:    billing.PaymentMethod("cheque"),
	})
	assertDomainCode(t, err, "INVALID_METHOD")
}

func TestPaymentService_Record_DefaultsPaymentDate(t *testing.T) {
	invoice := testInvoiceEntity(t, uuid.New(), 1000000)
	payments := &MockPaymentRepository{Invoice: invoice}
	svc := newPaymentService(payments, new(MockInvoiceRepository), config.BillingConfig{})

	payments.On("RecordPayment", mock.Anything, invoice.ID).Return(nil)

	before := time.Now()
	result, err := svc.Record(context.Background(), RecordPaymentInput{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(100000),
		Method:    billing.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.False(t, result.Payment.PaymentDate.Before(before))
}

func TestPaymentService_ListByInvoice(t *testing.T) {
	payments := new(MockPaymentRepository)
	invoices := new(MockInvoiceRepository)
	svc := newPaymentService(payments, invoices, config.BillingConfig{})

	invoice := testInvoiceEntity(t, uuid.New(), 1000000)
	history := []*billing.Payment{}
	invoices.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
	payments.On("FindByInvoice", mock.Anything, invoice.ID).Return(history, nil)

	result, err := svc.ListByInvoice(context.Background(), invoice.ID)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestPaymentService_ListByInvoice_InvoiceMissing(t *testing.T) {
	payments := new(MockPaymentRepository)
	invoices := new(MockInvoiceRepository)
	svc := newPaymentService(payments, invoices, config.BillingConfig{})

	id := uuid.New()
	invoices.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := svc.ListByInvoice(context.Background(), id)
	assertDomainCode(t, err, "NOT_FOUND")
	payments.AssertNotCalled(t, "FindByInvoice", mock.Anything, mock.Anything)
}

func TestPaymentService_List(t *testing.T) {
	payments := new(MockPaymentRepository)
	svc := newPaymentService(payments, new(MockInvoiceRepository), config.BillingConfig{})

	payments.On("FindAll", mock.Anything, mock.MatchedBy(func(f billing.PaymentFilter) bool {
		return f.Method != nil && *f.Method == billing.PaymentMethodCash &&
			f.Page == 1 && f.PageSize == 20 && f.SortBy == "payment_date"
	})).Return([]*billing.Payment{}, int64(0), nil)

	method := billing.PaymentMethodCash
	result, err := svc.List(context.Background(), ListPaymentsInput{Method: &method})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Total)
}
