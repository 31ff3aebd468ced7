package billing

import (
	"context"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService handles customer management operations
type CustomerService struct {
	customerRepo billing.CustomerRepository
	invoiceRepo  billing.InvoiceRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo billing.CustomerRepository,
	invoiceRepo billing.InvoiceRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		logger:       logger,
	}
}

// Create registers a new customer. An email already used by another
// customer is rejected.
func (s *CustomerService) Create(ctx context.Context, input CreateCustomerInput) (*billing.Customer, error) {
	customer, err := billing.NewCustomer(input.Name, input.Phone, input.Email, input.Address)
	if err != nil {
		return nil, err
	}

	if err := s.checkEmailAvailable(ctx, customer.Email, nil); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		s.logger.Error("Failed to create customer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create customer")
	}

	s.logger.Info("Customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("name", customer.Name))

	return customer, nil
}

// Get returns a customer by ID
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*billing.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	return customer, nil
}

// Update changes a customer's details. The duplicate-email check
// excludes the customer itself.
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*billing.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}

	if err := s.checkEmailAvailable(ctx, input.Email, &id); err != nil {
		return nil, err
	}

	if err := customer.Update(input.Name, input.Phone, input.Email, input.Address); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		s.logger.Error("Failed to update customer",
			zap.String("customer_id", id.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update customer")
	}

	return customer, nil
}

// Activate re-enables a customer
func (s *CustomerService) Activate(ctx context.Context, id uuid.UUID) (*billing.Customer, error) {
	return s.transition(ctx, id, (*billing.Customer).Activate)
}

// Deactivate disables a customer without touching its ledger
func (s *CustomerService) Deactivate(ctx context.Context, id uuid.UUID) (*billing.Customer, error) {
	return s.transition(ctx, id, (*billing.Customer).Deactivate)
}

// List returns customers matching the filter
func (s *CustomerService) List(ctx context.Context, input ListCustomersInput) (*CustomerPage, error) {
	filter := billing.NewCustomerFilter()
	filter.Keyword = input.Keyword
	filter.Status = input.Status
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.SortBy != "" {
		filter.SortBy = input.SortBy
	}
	if input.SortOrder != "" {
		filter.SortOrder = input.SortOrder
	}

	customers, total, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list customers", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list customers")
	}

	return &CustomerPage{
		Customers: customers,
		Total:     total,
		Page:      filter.Page,
		PageSize:  filter.Limit(),
	}, nil
}

// Delete removes a customer together with its invoices and payments.
// Any invoice that is not fully paid blocks the delete.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		return shared.NewDomainError("NOT_FOUND", "Customer not found")
	}

	open, err := s.invoiceRepo.CountOpenByCustomer(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count open invoices",
			zap.String("customer_id", id.String()), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete customer")
	}
	if open > 0 {
		return shared.NewDomainError("HAS_OPEN_INVOICES",
			"Customer has invoices that are not fully paid")
	}

	if err := s.customerRepo.DeleteCascade(ctx, id); err != nil {
		s.logger.Error("Failed to delete customer",
			zap.String("customer_id", id.String()), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete customer")
	}

	s.logger.Info("Customer deleted with its ledger", zap.String("customer_id", id.String()))
	return nil
}

func (s *CustomerService) transition(ctx context.Context, id uuid.UUID, change func(*billing.Customer) error) (*billing.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}

	if err := change(customer); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		s.logger.Error("Failed to update customer status",
			zap.String("customer_id", id.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update customer")
	}

	return customer, nil
}

// checkEmailAvailable rejects an email already used by another customer.
// Empty emails are always available.
func (s *CustomerService) checkEmailAvailable(ctx context.Context, email string, excludeID *uuid.UUID) error {
	if email == "" {
		return nil
	}

	exists, err := s.customerRepo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		s.logger.Error("Failed to check customer email uniqueness", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to validate customer email")
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Email is already used by another customer")
	}
	return nil
}
