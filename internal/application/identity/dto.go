package identity

import (
	"time"

	"github.com/billing/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterInput contains input for user registration
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     identity.Role
}

// LoginInput contains input for user login
type LoginInput struct {
	Email    string
	Password string
}

// UserInfo is the user representation returned to callers
type UserInfo struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Role        identity.Role       `json:"role"`
	Status      identity.UserStatus `json:"status"`
	Permissions []string            `json:"permissions"`
	LastLoginAt *time.Time          `json:"last_login_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// NewUserInfo builds a UserInfo from a user aggregate
func NewUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Status:      user.Status,
		Permissions: user.Permissions(),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// LoginResult contains the outcome of a successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshTokenInput contains input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the refreshed token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput contains input for logout
type LogoutInput struct {
	AccessToken string
}

// ChangePasswordInput contains input for a password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// ListUsersInput contains filters for listing users
type ListUsersInput struct {
	Keyword   string
	Status    *identity.UserStatus
	Role      *identity.Role
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ListUsersResult contains a page of users
type ListUsersResult struct {
	Users    []UserInfo `json:"users"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}
