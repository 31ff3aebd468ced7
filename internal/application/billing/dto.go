package billing

import (
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCustomerInput contains input for creating a customer
type CreateCustomerInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// UpdateCustomerInput contains input for updating a customer
type UpdateCustomerInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// ListCustomersInput contains filters for listing customers
type ListCustomersInput struct {
	Keyword   string
	Status    *billing.CustomerStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// CustomerPage is a page of customers with the total count
type CustomerPage struct {
	Customers []*billing.Customer
	Total     int64
	Page      int
	PageSize  int
}

// CreateInvoiceInput contains input for raising an invoice
type CreateInvoiceInput struct {
	CustomerID  uuid.UUID
	Amount      decimal.Decimal
	IssueDate   time.Time
	DueDate     time.Time
	Description string
}

// UpdateInvoiceInput contains input for editing an invoice.
// Only invoices without payments can be edited.
type UpdateInvoiceInput struct {
	Amount      decimal.Decimal
	DueDate     time.Time
	Description string
}

// ListInvoicesInput contains filters for listing invoices
type ListInvoicesInput struct {
	Keyword    string
	Status     *billing.InvoiceStatus
	CustomerID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// InvoicePage is a page of invoices with the total count
type InvoicePage struct {
	Invoices []*billing.Invoice
	Total    int64
	Page     int
	PageSize int
}

// RecordPaymentInput contains input for recording a payment
type RecordPaymentInput struct {
	InvoiceID   uuid.UUID
	Amount      decimal.Decimal
	Method      billing.PaymentMethod
	PaymentDate time.Time
	Note        string
}

// RecordPaymentResult carries the created payment and the invoice's
// rewritten settlement state
type RecordPaymentResult struct {
	Payment *billing.Payment
	Invoice *billing.Invoice
}

// ListPaymentsInput contains filters for listing payments
type ListPaymentsInput struct {
	InvoiceID *uuid.UUID
	Method    *billing.PaymentMethod
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// PaymentPage is a page of payments with the total count
type PaymentPage struct {
	Payments []*billing.Payment
	Total    int64
	Page     int
	PageSize int
}
