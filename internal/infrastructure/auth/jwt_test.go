package auth

import (
	"testing"
	"time"

	"github.com/billing/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	}
	return NewJWTService(cfg)
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{
		UserID:      uuid.New(),
		Email:       "admin@billing.test",
		Name:        "Admin",
		Role:        "admin",
		Permissions: []string{"customer:read", "customer:write", "invoice:read"},
	}
}

func TestNewJWTService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                 "test-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	}

	svc := NewJWTService(cfg)

	assert.NotNil(t, svc)
	assert.Equal(t, []byte(cfg.Secret), svc.secret)
	assert.Equal(t, cfg.AccessTokenExpiration, svc.accessExpiration)
	assert.Equal(t, cfg.RefreshTokenExpiration, svc.refreshExpiration)
	assert.Equal(t, cfg.Issuer, svc.issuer)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.AccessTokenExpiresAt.After(time.Now()))
	assert.True(t, pair.RefreshTokenExpiresAt.After(time.Now()))
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken_Success(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.Email, claims.Email)
	assert.Equal(t, input.Name, claims.Name)
	assert.Equal(t, input.Role, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, input.Permissions, claims.Permissions)
}

func TestValidateAccessToken_ExpiredToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  -1 * time.Hour, // Already expired
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	}
	svc := NewJWTService(cfg)
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAccessToken_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateAccessToken("invalid-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_WrongTokenType(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	// Try to validate refresh token as access token
	_, err = svc.ValidateAccessToken(pair.RefreshToken)

	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateRefreshToken_Success(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)

	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.Email, claims.Email)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	// Refresh token carries identity only
	assert.Empty(t, claims.Permissions)
	assert.Empty(t, claims.Role)
}

func TestValidateRefreshToken_WrongTokenType(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	// Try to validate access token as refresh token
	_, err = svc.ValidateRefreshToken(pair.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestRefreshTokenPair_Success(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	newPermissions := []string{"customer:read"}
	newPair, err := svc.RefreshTokenPair(pair.RefreshToken, "Admin", "staff", newPermissions)

	require.NoError(t, err)
	assert.NotEmpty(t, newPair.AccessToken)
	assert.NotEmpty(t, newPair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, newPair.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)

	// Role and permissions in the new access token reflect the caller's input
	claims, err := svc.ValidateAccessToken(newPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "staff", claims.Role)
	assert.Equal(t, newPermissions, claims.Permissions)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.Email, claims.Email)
}

func TestRefreshTokenPair_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.RefreshTokenPair("invalid-token", "", "", nil)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenPair_WithAccessToken(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	// Try to use access token for refresh
	_, err = svc.RefreshTokenPair(pair.AccessToken, "", "", nil)

	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestClaims_GetUserUUID(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	userUUID, err := claims.GetUserUUID()

	require.NoError(t, err)
	assert.Equal(t, input.UserID, userUUID)
}

func TestClaims_HasPermission(t *testing.T) {
	claims := &Claims{
		Permissions: []string{"customer:read", "invoice:read", "payment:create"},
	}

	assert.True(t, claims.HasPermission("customer:read"))
	assert.True(t, claims.HasPermission("payment:create"))
	assert.False(t, claims.HasPermission("user:manage"))
}

func TestClaims_HasAnyPermission(t *testing.T) {
	claims := &Claims{
		Permissions: []string{"customer:read", "invoice:read"},
	}

	assert.True(t, claims.HasAnyPermission("customer:read", "user:manage"))
	assert.True(t, claims.HasAnyPermission("user:manage", "invoice:read"))
	assert.False(t, claims.HasAnyPermission("user:manage", "invoice:write"))
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	ttl := claims.GetRemainingTTL()
	assert.Greater(t, ttl, 14*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)
}

func TestValidateAccessToken_DifferentSecret(t *testing.T) {
	svc1 := newTestJWTService()
	input := newTestInput()

	pair, err := svc1.GenerateTokenPair(input)
	require.NoError(t, err)

	// Create service with different secret
	cfg := config.JWTConfig{
		Secret:                 "different-secret-key-32-chars!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	}
	svc2 := NewJWTService(cfg)

	_, err = svc2.ValidateAccessToken(pair.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
}
