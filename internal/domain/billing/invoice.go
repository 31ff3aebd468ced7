package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"  // No payments recorded
	InvoiceStatusPartial InvoiceStatus = "partial" // 0 < paid < amount
	InvoiceStatusPaid    InvoiceStatus = "paid"    // paid >= amount
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPartial, InvoiceStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// DefaultInvoicePrefix is the prefix used for generated invoice numbers
const DefaultInvoicePrefix = "INV"

// NewInvoiceNumber generates a unique invoice number of the form
// PREFIX-YYYYMMDD-XXXXXXXX where the token is random and uppercased.
func NewInvoiceNumber(prefix string, issuedAt time.Time) string {
	if prefix == "" {
		prefix = DefaultInvoicePrefix
	}
	token := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, issuedAt.Format("20060102"), token)
}

// Balance is the settlement state of an invoice derived from its payments
type Balance struct {
	Paid      decimal.Decimal
	Remaining decimal.Decimal
	Status    InvoiceStatus
}

// ComputeBalance derives the settlement state from the invoice face amount
// and the full set of recorded payments. An empty payment set yields an
// unpaid balance; paid at or above the face amount yields paid.
// Remaining goes negative on overpayment.
func ComputeBalance(amount decimal.Decimal, payments []*Payment) Balance {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}

	status := InvoiceStatusUnpaid
	switch {
	case paid.IsZero() || paid.IsNegative():
		status = InvoiceStatusUnpaid
	case paid.GreaterThanOrEqual(amount):
		status = InvoiceStatusPaid
	default:
		status = InvoiceStatusPartial
	}

	return Balance{
		Paid:      paid,
		Remaining: amount.Sub(paid),
		Status:    status,
	}
}

// Invoice represents an amount billed to a customer.
// It is the aggregate root for the billing ledger; PaidAmount and Status
// are derived from the payment set and rewritten whenever payments change.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"invoice_number"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	IssueDate     time.Time       `gorm:"not null" json:"issue_date"`
	DueDate       time.Time       `gorm:"not null" json:"due_date"`
	Description   string          `gorm:"type:text" json:"description,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"paid_amount"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'unpaid'" json:"status"`
	Payments      []*Payment      `gorm:"-" json:"payments,omitempty"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new unpaid invoice for a customer
func NewInvoice(customerID uuid.UUID, amount valueobject.Money, issueDate, dueDate time.Time, description string) (*Invoice, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice amount must be positive")
	}
	if issueDate.IsZero() {
		issueDate = time.Now()
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     NewInvoiceNumber(DefaultInvoicePrefix, issueDate),
		CustomerID:        customerID,
		IssueDate:         issueDate,
		DueDate:           dueDate,
		Description:       description,
		Amount:            amount.Amount(),
		PaidAmount:        decimal.Zero,
		Status:            InvoiceStatusUnpaid,
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// HasPayments returns true if any payment has been recorded.
// The stored paid amount is authoritative even when payments aren't loaded.
func (i *Invoice) HasPayments() bool {
	return len(i.Payments) > 0 || i.PaidAmount.GreaterThan(decimal.Zero)
}

// UpdateDetails changes the invoice's amount, due date, and description.
// Rejected once any payment has been recorded.
func (i *Invoice) UpdateDetails(amount valueobject.Money, dueDate time.Time, description string) error {
	if i.HasPayments() {
		return shared.NewDomainError("HAS_PAYMENTS", "Cannot edit an invoice with recorded payments")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Invoice amount must be positive")
	}
	if dueDate.IsZero() {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}

	i.Amount = amount.Amount()
	i.DueDate = dueDate
	i.Description = description
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// CanDelete returns an error if the invoice has recorded payments
func (i *Invoice) CanDelete() error {
	if i.HasPayments() {
		return shared.NewDomainError("HAS_PAYMENTS", "Cannot delete an invoice with recorded payments")
	}
	return nil
}

// Balance derives the settlement state from the loaded payment set
func (i *Invoice) Balance() Balance {
	return ComputeBalance(i.Amount, i.Payments)
}

// ApplyBalance writes a derived balance back onto the aggregate.
// Called inside the same transaction that mutated the payment set.
func (i *Invoice) ApplyBalance(b Balance) {
	previous := i.Status
	i.PaidAmount = b.Paid
	i.Status = b.Status
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	if previous != InvoiceStatusPaid && b.Status == InvoiceStatusPaid {
		i.AddDomainEvent(NewInvoicePaidEvent(i))
	}
}

// Remaining returns the amount still owed (negative on overpayment)
func (i *Invoice) Remaining() decimal.Decimal {
	return i.Amount.Sub(i.PaidAmount)
}

// GetAmountMoney returns the face amount as Money
func (i *Invoice) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(i.Amount)
}

// GetPaidAmountMoney returns the paid amount as Money
func (i *Invoice) GetPaidAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(i.PaidAmount)
}

// IsUnpaid returns true if no payment has been recorded
func (i *Invoice) IsUnpaid() bool {
	return i.Status == InvoiceStatusUnpaid
}

// IsPartial returns true if the invoice is partially settled
func (i *Invoice) IsPartial() bool {
	return i.Status == InvoiceStatusPartial
}

// IsPaid returns true if the invoice is fully settled
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// IsOpen returns true if the invoice still carries a balance
func (i *Invoice) IsOpen() bool {
	return i.Status != InvoiceStatusPaid
}

// IsOverdue returns true if the invoice is open past its due date
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.IsPaid() {
		return false
	}
	return now.After(i.DueDate)
}

// DaysOverdue returns the number of days past due (0 if not overdue)
func (i *Invoice) DaysOverdue(now time.Time) int {
	if !i.IsOverdue(now) {
		return 0
	}
	return int(now.Sub(i.DueDate).Hours() / 24)
}
