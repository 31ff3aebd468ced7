package dto

import (
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for date-only fields
const DateLayout = "2006-01-02"

// Date is a date-only field that unmarshals from "YYYY-MM-DD"
type Date struct {
	time.Time
}

// UnmarshalJSON parses a quoted YYYY-MM-DD string. Empty and null
// leave the date zero.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(`"`+DateLayout+`"`, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON renders the date as a quoted YYYY-MM-DD string
func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.Format(DateLayout) + `"`), nil
}

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=200"`
	Phone   string `json:"phone" binding:"omitempty,max=30"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address" binding:"omitempty,max=500"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=200"`
	Phone   string `json:"phone" binding:"omitempty,max=30"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address" binding:"omitempty,max=500"`
}

// ListCustomersRequest represents customer list query parameters
type ListCustomersRequest struct {
	ListRequest
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
}

// CreateInvoiceRequest represents an invoice creation request
type CreateInvoiceRequest struct {
	CustomerID  string          `json:"customer_id" binding:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	IssueDate   Date            `json:"issue_date"`
	DueDate     Date            `json:"due_date" binding:"required"`
	Description string          `json:"description" binding:"omitempty,max=1000"`
}

// UpdateInvoiceRequest represents an invoice update request
type UpdateInvoiceRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	DueDate     Date            `json:"due_date" binding:"required"`
	Description string          `json:"description" binding:"omitempty,max=1000"`
}

// ListInvoicesRequest represents invoice list query parameters
type ListInvoicesRequest struct {
	ListRequest
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=unpaid partial paid"`
	DateFrom   string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

// UnpaidInvoiceResponse summarizes an open invoice for payment entry,
// carrying the remaining balance alongside the stored amounts
type UnpaidInvoiceResponse struct {
	ID              uuid.UUID       `json:"id"`
	InvoiceNumber   string          `json:"invoice_number"`
	IssueDate       time.Time       `json:"issue_date"`
	DueDate         time.Time       `json:"due_date"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          string          `json:"status"`
}

// NewUnpaidInvoiceResponse maps an open invoice to its summary form
func NewUnpaidInvoiceResponse(invoice *billing.Invoice) UnpaidInvoiceResponse {
	return UnpaidInvoiceResponse{
		ID:              invoice.ID,
		InvoiceNumber:   invoice.InvoiceNumber,
		IssueDate:       invoice.IssueDate,
		DueDate:         invoice.DueDate,
		Amount:          invoice.Amount,
		PaidAmount:      invoice.PaidAmount,
		RemainingAmount: invoice.Remaining(),
		Status:          invoice.Status.String(),
	}
}

// NewUnpaidInvoiceResponses maps a list of open invoices, never returning nil
func NewUnpaidInvoiceResponses(invoices []*billing.Invoice) []UnpaidInvoiceResponse {
	responses := make([]UnpaidInvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		responses = append(responses, NewUnpaidInvoiceResponse(invoice))
	}
	return responses
}

// RecordPaymentRequest represents a payment creation request
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      string          `json:"method" binding:"required,oneof=cash transfer qris"`
	PaymentDate Date            `json:"payment_date"`
	Note        string          `json:"note" binding:"omitempty,max=500"`
}

// ListPaymentsRequest represents payment list query parameters
type ListPaymentsRequest struct {
	ListRequest
	InvoiceID string `form:"invoice_id" binding:"omitempty,uuid"`
	Method    string `form:"method" binding:"omitempty,oneof=cash transfer qris"`
}

// DashboardRequest represents dashboard query parameters
type DashboardRequest struct {
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}
