package pdf

import (
	"testing"
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/billing/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCompany() config.CompanyConfig {
	return config.CompanyConfig{
		Name:    "PT Jasa Digital",
		Address: "Jl. Gatot Subroto Kav. 1, Jakarta",
		Phone:   "021-5550123",
		Email:   "finance@jasadigital.co.id",
	}
}

func testInvoice(t *testing.T) (*billing.Invoice, *billing.Customer) {
	t.Helper()

	customer, err := billing.NewCustomer("PT Maju Jaya", "08123456789", "billing@majujaya.co.id", "Jl. Sudirman 1")
	require.NoError(t, err)

	issue := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	invoice, err := billing.NewInvoice(customer.ID,
		valueobject.NewMoneyIDR(decimal.NewFromInt(1500000)),
		issue, issue.AddDate(0, 0, 14), "website development")
	require.NoError(t, err)

	return invoice, customer
}

func TestInvoiceRenderer_Render(t *testing.T) {
	renderer := NewInvoiceRenderer(testCompany())
	invoice, customer := testInvoice(t)

	data, err := renderer.Render(invoice, customer)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestInvoiceRenderer_Render_WithPayments(t *testing.T) {
	renderer := NewInvoiceRenderer(testCompany())
	invoice, customer := testInvoice(t)

	payment, err := billing.NewPayment(invoice.ID,
		valueobject.NewMoneyIDR(decimal.NewFromInt(500000)),
		billing.PaymentMethodQRIS, time.Now(), "down payment")
	require.NoError(t, err)
	invoice.Payments = []*billing.Payment{payment}

	data, err := renderer.Render(invoice, customer)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestInvoiceRenderer_Render_MissingInput(t *testing.T) {
	renderer := NewInvoiceRenderer(testCompany())
	invoice, customer := testInvoice(t)

	_, err := renderer.Render(nil, customer)
	assert.Error(t, err)

	_, err = renderer.Render(invoice, nil)
	assert.Error(t, err)
}

func TestFormatIDR(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "Rp 0"},
		{"950", "Rp 950"},
		{"1500000", "Rp 1.500.000"},
		{"1234567890", "Rp 1.234.567.890"},
		{"1500000.50", "Rp 1.500.000,50"},
		{"-250000", "Rp -250.000"},
	}

	for _, tc := range cases {
		amount, err := decimal.NewFromString(tc.amount)
		require.NoError(t, err)
		assert.Equal(t, tc.want, formatIDR(amount), "amount %s", tc.amount)
	}
}
