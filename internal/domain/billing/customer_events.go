package billing

import (
	"github.com/billing/backend/internal/domain/shared"
)

// Aggregate type constant for Customer
const AggregateTypeCustomer = "Customer"

// Customer domain event types
const (
	EventTypeCustomerCreated = "CustomerCreated"
	EventTypeCustomerDeleted = "CustomerDeleted"
)

// CustomerCreatedEvent is published when a customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, customer.ID),
		Name:            customer.Name,
		Email:           customer.Email,
	}
}

// CustomerDeletedEvent is published when a customer and its invoices are removed
type CustomerDeletedEvent struct {
	shared.BaseDomainEvent
	Name         string `json:"name"`
	InvoiceCount int    `json:"invoice_count"`
}

// NewCustomerDeletedEvent creates a new CustomerDeletedEvent
func NewCustomerDeletedEvent(customer *Customer, invoiceCount int) *CustomerDeletedEvent {
	return &CustomerDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerDeleted, AggregateTypeCustomer, customer.ID),
		Name:            customer.Name,
		InvoiceCount:    invoiceCount,
	}
}
