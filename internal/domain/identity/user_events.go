package identity

import (
	"github.com/billing/backend/internal/domain/shared"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserCreated = "UserCreated"
)

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   Role       `json:"role"`
	Status UserStatus `json:"status"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID),
		Name:            user.Name,
		Email:           user.Email,
		Role:            user.Role,
		Status:          user.Status,
	}
}
