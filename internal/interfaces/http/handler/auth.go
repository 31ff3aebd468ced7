package handler

import (
	"strings"

	appidentity "github.com/billing/backend/internal/application/identity"
	"github.com/billing/backend/internal/domain/identity"
	"github.com/billing/backend/internal/interfaces/http/dto"
	"github.com/billing/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
	rateLimiter *middleware.RateLimiter
	jwtAuth     gin.HandlerFunc
}

// NewAuthHandler creates a new auth handler. The rate limiter guards the
// credential endpoints; jwtAuth protects the authenticated routes.
func NewAuthHandler(authService *appidentity.AuthService, rateLimiter *middleware.RateLimiter, jwtAuth gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		rateLimiter: rateLimiter,
		jwtAuth:     jwtAuth,
	}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")

	public := auth.Group("")
	if h.rateLimiter != nil {
		public.Use(h.rateLimiter.Middleware())
	}
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)
	public.POST("/refresh", h.Refresh)

	private := auth.Group("")
	private.Use(h.jwtAuth)
	private.POST("/logout", h.Logout)
	private.POST("/change-password", h.ChangePassword)
	private.GET("/me", h.Me)
}

// Register creates a new user account
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), appidentity.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     identity.Role(req.Role),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// Login authenticates a user and issues a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), appidentity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), appidentity.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Logout revokes the presented access token
func (h *AuthHandler) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader(middleware.AuthHeaderKey), middleware.BearerPrefix)

	if err := h.authService.Logout(c.Request.Context(), appidentity.LogoutInput{AccessToken: token}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Logged out"})
}

// ChangePassword changes the authenticated user's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	err = h.authService.ChangePassword(c.Request.Context(), appidentity.ChangePasswordInput{
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password changed"})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetJWTUserID(c)
	if userID == "" {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}
