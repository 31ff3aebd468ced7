package identity

import (
	"context"
	"errors"

	"github.com/billing/backend/internal/domain/identity"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service.
// blacklist may be nil, in which case logout becomes client-side only.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Register creates a new user account. Registering an email that is
// already taken fails and leaves the existing account untouched.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserInfo, error) {
	role := input.Role
	if role == "" {
		role = identity.RoleStaff
	}

	user, err := identity.NewUser(input.Name, input.Email, input.Password, role)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		s.logger.Error("Failed to check email uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register user")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Concurrent registration can still hit the unique index
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register user")
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))

	info := NewUserInfo(user)
	return &info, nil
}

// Login authenticates a user and returns a token pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Warn("Login attempt for unknown email", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !user.CanLogin() {
		s.logger.Warn("Login attempt for inactive account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account has been deactivated")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        string(user.Role),
		Permissions: user.Permissions(),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Update(ctx, user); err != nil {
		// Login still succeeds, the timestamp is best effort
		s.logger.Error("Failed to record login timestamp", zap.Error(err))
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User:                  NewUserInfo(user),
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair.
// Role and permissions are re-resolved from the stored user so that
// role changes take effect at the next refresh.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	if s.blacklist != nil {
		blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Error("Token blacklist lookup failed", zap.Error(err))
		} else if blacklisted {
			return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
		}

		invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAt.Time)
		if err != nil {
			s.logger.Error("Token invalidation lookup failed", zap.Error(err))
		} else if invalidated {
			return nil, shared.NewDomainError("TOKEN_REVOKED", "Session has been invalidated, please log in again")
		}
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, user.Name, string(user.Role), user.Permissions())
	if err != nil {
		return nil, mapTokenError(err)
	}

	s.logger.Info("Token refreshed", zap.String("user_id", user.ID.String()))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	claims, err := s.jwtService.ValidateAccessToken(input.AccessToken)
	if err != nil {
		// An expired or garbled token has nothing left to revoke
		return nil
	}

	if s.blacklist == nil {
		s.logger.Debug("Logout without token blacklist, tokens expire naturally")
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to blacklist token on logout", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke session")
	}

	s.logger.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

// GetCurrentUser returns the authenticated user's profile
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*UserInfo, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	info := NewUserInfo(user)
	return &info, nil
}

// ChangePassword changes a user's password after verifying the current
// one, and invalidates every token issued before the change.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	if s.blacklist != nil {
		ttl := s.jwtService.GetRefreshTokenExpiration()
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), ttl); err != nil {
			s.logger.Error("Failed to invalidate sessions after password change", zap.Error(err))
		}
	}

	s.logger.Info("User password changed", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *AuthService) findUser(ctx context.Context, userID string) (*identity.User, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	return user, nil
}

// mapTokenError translates JWT validation errors into domain errors
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, auth.ErrInvalidTokenType):
		return shared.NewDomainError("TOKEN_INVALID", "Wrong token type")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrMissingUserID), errors.Is(err, auth.ErrTokenNotYetValid):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate token")
	}
}
