package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordCash(t *testing.T, repo *GormPaymentRepository, invoiceID uuid.UUID, amount int64) (*billing.Payment, *billing.Invoice) {
	t.Helper()
	payment, invoice, err := repo.RecordPayment(context.Background(), invoiceID, func(inv *billing.Invoice, payments []*billing.Payment) (*billing.Payment, error) {
		return billing.NewPayment(inv.ID, valueobject.NewMoneyIDR(decimal.NewFromInt(amount)), billing.PaymentMethodCash, time.Now(), "")
	})
	require.NoError(t, err)
	return payment, invoice
}

func TestGormPaymentRepository_RecordPayment(t *testing.T) {
	db := setupBillingDB(t)
	invoiceRepo := NewGormInvoiceRepository(db)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	invoice := mustInvoiceFor(t, uuid.New(), 1000000)
	require.NoError(t, invoiceRepo.Create(ctx, invoice))

	t.Run("partial payment", func(t *testing.T) {
		payment, updated := recordCash(t, repo, invoice.ID, 400000)

		assert.Equal(t, invoice.ID, payment.InvoiceID)
		assert.True(t, updated.PaidAmount.Equal(decimal.NewFromInt(400000)))
		assert.Equal(t, billing.InvoiceStatusPartial, updated.Status)

		stored, err := invoiceRepo.FindByID(ctx, invoice.ID)
		require.NoError(t, err)
		assert.True(t, stored.PaidAmount.Equal(decimal.NewFromInt(400000)))
		assert.Equal(t, billing.InvoiceStatusPartial, stored.Status)
	})

	t.Run("settling payment", func(t *testing.T) {
		_, updated := recordCash(t, repo, invoice.ID, 600000)

		assert.True(t, updated.PaidAmount.Equal(decimal.NewFromInt(1000000)))
		assert.Equal(t, billing.InvoiceStatusPaid, updated.Status)

		stored, err := invoiceRepo.FindByID(ctx, invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPaid, stored.Status)
	})
}

func TestGormPaymentRepository_RecordPayment_InvoiceNotFound(t *testing.T) {
	db := setupBillingDB(t)
	repo := NewGormPaymentRepository(db)

	_, _, err := repo.RecordPayment(context.Background(), uuid.New(), func(inv *billing.Invoice, payments []*billing.Payment) (*billing.Payment, error) {
		t.Fatal("build must not be called when the invoice is missing")
		return nil, nil
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPaymentRepository_RecordPayment_BuildRejects(t *testing.T) {
	db := setupBillingDB(t)
	invoiceRepo := NewGormInvoiceRepository(db)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	invoice := mustInvoiceFor(t, uuid.New(), 1000000)
	require.NoError(t, invoiceRepo.Create(ctx, invoice))

	rejection := shared.NewDomainError("OVERPAYMENT", "Payment exceeds remaining balance")
	_, _, err := repo.RecordPayment(ctx, invoice.ID, func(inv *billing.Invoice, payments []*billing.Payment) (*billing.Payment, error) {
		return nil, rejection
	})
	assert.ErrorIs(t, err, rejection)

	// Nothing was written
	payments, err := repo.FindByInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	stored, err := invoiceRepo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusUnpaid, stored.Status)
	assert.True(t, stored.PaidAmount.IsZero())
}

func TestGormPaymentRepository_RecordPayment_BuildSeesHistory(t *testing.T) {
	db := setupBillingDB(t)
	invoiceRepo := NewGormInvoiceRepository(db)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	invoice := mustInvoiceFor(t, uuid.New(), 1000000)
	require.NoError(t, invoiceRepo.Create(ctx, invoice))

	recordCash(t, repo, invoice.ID, 400000)

	var seen int
	_, _, err := repo.RecordPayment(ctx, invoice.ID, func(inv *billing.Invoice, payments []*billing.Payment) (*billing.Payment, error) {
		seen = len(payments)
		return billing.NewPayment(inv.ID, valueobject.NewMoneyIDR(decimal.NewFromInt(100000)), billing.PaymentMethodQRIS, time.Now(), "")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestGormPaymentRepository_RecordPayment_Concurrent(t *testing.T) {
	db := setupBillingDB(t)
	invoiceRepo := NewGormInvoiceRepository(db)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	invoice := mustInvoiceFor(t, uuid.New(), 1000000)
	require.NoError(t, invoiceRepo.Create(ctx, invoice))

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _, errs[n] = repo.RecordPayment(ctx, invoice.ID, func(inv *billing.Invoice, payments []*billing.Payment) (*billing.Payment, error) {
				return billing.NewPayment(inv.ID, valueobject.NewMoneyIDR(decimal.NewFromInt(100000)), billing.PaymentMethodTransfer, time.Now(), "")
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	require.Greater(t, succeeded, 0)

	// Paid amount reflects exactly the successful writes
	stored, err := invoiceRepo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	expected := decimal.NewFromInt(int64(succeeded) * 100000)
	assert.True(t, stored.PaidAmount.Equal(expected),
		"paid %s, want %s", stored.PaidAmount, expected)
}

func TestGormPaymentRepository_FindByInvoice(t *testing.T) {
	db := setupBillingDB(t)
	invoiceRepo := NewGormInvoiceRepository(db)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	invoice := mustInvoiceFor(t, uuid.New(), 1000000)
	other := mustInvoiceFor(t, uuid.New(), 500000)
	require.NoError(t, invoiceRepo.Create(ctx, invoice))
	require.NoError(t, invoiceRepo.Create(ctx, other))

	recordCash(t, repo, invoice.ID, 400000)
	recordCash(t, repo, invoice.ID, 600000)
	recordCash(t, repo, other.ID, 500000)

	payments, err := repo.FindByInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
	for _, p := range payments {
		assert.Equal(t, invoice.ID, p.InvoiceID)
	}
}

func TestGormPaymentRepository_FindAll(t *testing.T) {
	db := setupBillingDB(t)
	invoiceRepo := NewGormInvoiceRepository(db)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	invoice := mustInvoiceFor(t, uuid.New(), 1000000)
	require.NoError(t, invoiceRepo.Create(ctx, invoice))

	recordCash(t, repo, invoice.ID, 400000)
	_, _, err := repo.RecordPayment(ctx, invoice.ID, func(inv *billing.Invoice, payments []*billing.Payment) (*billing.Payment, error) {
		return billing.NewPayment(inv.ID, valueobject.NewMoneyIDR(decimal.NewFromInt(100000)), billing.PaymentMethodQRIS, time.Now(), "")
	})
	require.NoError(t, err)

	t.Run("returns all with total", func(t *testing.T) {
		payments, total, err := repo.FindAll(ctx, billing.NewPaymentFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, payments, 2)
	})

	t.Run("filters by method", func(t *testing.T) {
		payments, total, err := repo.FindAll(ctx, billing.NewPaymentFilter().WithMethod(billing.PaymentMethodQRIS))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, payments, 1)
		assert.Equal(t, billing.PaymentMethodQRIS, payments[0].Method)
	})

	t.Run("filters by invoice", func(t *testing.T) {
		payments, total, err := repo.FindAll(ctx, billing.NewPaymentFilter().WithInvoiceID(invoice.ID))
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, payments, 2)
	})
}

func TestGormPaymentRepository_FindByID(t *testing.T) {
	db := setupBillingDB(t)
	invoiceRepo := NewGormInvoiceRepository(db)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	invoice := mustInvoiceFor(t, uuid.New(), 1000000)
	require.NoError(t, invoiceRepo.Create(ctx, invoice))

	payment, _ := recordCash(t, repo, invoice.ID, 400000)

	found, err := repo.FindByID(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, found.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPaymentRepository_CountAndRecent(t *testing.T) {
	db := setupBillingDB(t)
	invoiceRepo := NewGormInvoiceRepository(db)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	invoice := mustInvoiceFor(t, uuid.New(), 10000000)
	require.NoError(t, invoiceRepo.Create(ctx, invoice))

	for i := 0; i < 7; i++ {
		recordCash(t, repo, invoice.ID, 100000)
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)

	recent, err := repo.FindRecent(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, recent, 5)
}
