package middleware

import (
	"net/http"

	"github.com/billing/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequirePermission creates middleware that requires a specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission creates middleware that requires any of the listed permissions
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, permissions...)
}

// RequireAnyPermissionWithConfig creates permission middleware with custom config
func RequireAnyPermissionWithConfig(cfg PermissionConfig, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			denyPermission(c, cfg, permissions, "No authentication claims found")
			return
		}

		if !claims.HasAnyPermission(permissions...) {
			denyPermission(c, cfg, permissions, "User lacks required permission")
			return
		}

		c.Next()
	}
}

// HasPermission checks a permission from inside a handler
func HasPermission(c *gin.Context, permission string) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	return claims.HasPermission(permission)
}

func denyPermission(c *gin.Context, cfg PermissionConfig, requiredPerms []string, reason string) {
	if cfg.Logger != nil {
		claims := GetJWTClaims(c)
		userID := ""
		userPerms := []string{}
		if claims != nil {
			userID = claims.UserID
			userPerms = claims.Permissions
		}

		cfg.Logger.Warn("Permission denied",
			zap.String("reason", reason),
			zap.String("user_id", userID),
			zap.Strings("required_permissions", requiredPerms),
			zap.Strings("user_permissions", userPerms),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden,
		dto.NewErrorResponse(dto.ErrCodeForbidden, "Access denied: insufficient permissions"))
}
