package billing

import (
	"regexp"
	"strings"
	"time"

	"github.com/billing/backend/internal/domain/shared"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Customer represents a billed party.
// It is the aggregate root owning invoices.
type Customer struct {
	shared.BaseAggregateRoot
	Name    string         `gorm:"type:varchar(100);not null" json:"name"`
	Phone   string         `gorm:"type:varchar(20);index" json:"phone"`
	Email   string         `gorm:"type:varchar(120);index" json:"email"`
	Address string         `gorm:"type:text" json:"address"`
	Status  CustomerStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(name, phone, email, address string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return nil, err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		email = strings.ToLower(strings.TrimSpace(email))
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Phone:             strings.TrimSpace(phone),
		Email:             email,
		Address:           address,
		Status:            CustomerStatusActive,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// Update updates the customer's contact information
func (c *Customer) Update(name, phone, email, address string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
		email = strings.ToLower(strings.TrimSpace(email))
	}

	c.Name = strings.TrimSpace(name)
	c.Phone = strings.TrimSpace(phone)
	c.Email = email
	c.Address = address
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Activate activates the customer
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Customer is already active")
	}

	c.Status = CustomerStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Deactivate deactivates the customer
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Customer is already inactive")
	}

	c.Status = CustomerStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsActive returns true if the customer is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// Validation functions

func validateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 100 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 20 characters")
	}
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 120 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 120 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
