package billing

import (
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was settled
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodQRIS     PaymentMethod = "qris"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodQRIS:
		return true
	}
	return false
}

// String returns the string representation of the method
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment represents money received against an invoice.
// Payments are append-only: once recorded they are never edited,
// only removed together with their invoice.
type Payment struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	PaymentDate time.Time       `gorm:"not null" json:"payment_date"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Method      PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	Note        string          `gorm:"type:text" json:"note,omitempty"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a new payment against an invoice
func NewPayment(invoiceID uuid.UUID, amount valueobject.Money, method PaymentMethod, paymentDate time.Time, note string) (*Payment, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method must be cash, transfer, or qris")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	return &Payment{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   invoiceID,
		PaymentDate: paymentDate,
		Amount:      amount.Amount(),
		Method:      method,
		Note:        note,
	}, nil
}

// GetAmountMoney returns the amount as Money
func (p *Payment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(p.Amount)
}
