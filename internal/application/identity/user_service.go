package identity

import (
	"context"

	"github.com/billing/backend/internal/domain/identity"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user management operations
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Get returns a user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	info := NewUserInfo(user)
	return &info, nil
}

// List returns users matching the filter with a total count
func (s *UserService) List(ctx context.Context, input ListUsersInput) (*ListUsersResult, error) {
	filter := identity.NewUserFilter()
	filter.Keyword = input.Keyword
	filter.Status = input.Status
	filter.Role = input.Role
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

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	infos := make([]UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, NewUserInfo(user))
	}

	return &ListUsersResult{
		Users:    infos,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.Limit(),
	}, nil
}

// Activate re-enables a deactivated user
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	return s.transition(ctx, id, (*identity.User).Activate)
}

// Deactivate disables a user; the account is kept, never deleted
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	return s.transition(ctx, id, (*identity.User).Deactivate)
}

func (s *UserService) transition(ctx context.Context, id uuid.UUID, change func(*identity.User) error) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := change(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user status",
			zap.String("user_id", id.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	s.logger.Info("User status changed",
		zap.String("user_id", id.String()),
		zap.String("status", string(user.Status)))

	info := NewUserInfo(user)
	return &info, nil
}

// parseUserID parses the string form of a user ID carried in token claims
func parseUserID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, shared.NewDomainError("INVALID_INPUT", "Invalid user ID")
	}
	return id, nil
}
