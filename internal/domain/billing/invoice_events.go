package billing

import (
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Invoice
const AggregateTypeInvoice = "Invoice"

// Invoice domain event types
const (
	EventTypeInvoiceCreated  = "InvoiceCreated"
	EventTypeInvoicePaid     = "InvoicePaid"
	EventTypePaymentRecorded = "PaymentRecorded"
)

// InvoiceCreatedEvent is published when an invoice is raised
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, invoice.ID),
		InvoiceNumber:   invoice.InvoiceNumber,
		CustomerID:      invoice.CustomerID,
		Amount:          invoice.Amount,
	}
}

// InvoicePaidEvent is published when an invoice becomes fully settled
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(invoice *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, invoice.ID),
		InvoiceNumber:   invoice.InvoiceNumber,
		PaidAmount:      invoice.PaidAmount,
	}
}

// PaymentRecordedEvent is published when a payment is recorded against an invoice
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    PaymentMethod   `json:"method"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(invoice *Invoice, payment *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypeInvoice, invoice.ID),
		PaymentID:       payment.ID,
		Amount:          payment.Amount,
		Method:          payment.Method,
	}
}
