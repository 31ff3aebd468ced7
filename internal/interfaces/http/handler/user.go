package handler

import (
	appidentity "github.com/billing/backend/internal/application/identity"
	"github.com/billing/backend/internal/domain/identity"
	"github.com/billing/backend/internal/interfaces/http/dto"
	"github.com/billing/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	BaseHandler
	userService *appidentity.UserService
	jwtAuth     gin.HandlerFunc
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *appidentity.UserService, jwtAuth gin.HandlerFunc) *UserHandler {
	return &UserHandler{
		userService: userService,
		jwtAuth:     jwtAuth,
	}
}

// RegisterRoutes registers user management routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/identity/users")
	users.Use(h.jwtAuth, middleware.RequirePermission(identity.PermUserManage))

	users.GET("", h.List)
	users.GET("/:id", h.Get)
	users.POST("/:id/activate", h.Activate)
	users.POST("/:id/deactivate", h.Deactivate)
}

// List returns a page of users
func (h *UserHandler) List(c *gin.Context) {
	var req dto.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	input := appidentity.ListUsersInput{
		Keyword:   req.Keyword,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.Status != "" {
		status := identity.UserStatus(req.Status)
		input.Status = &status
	}
	if req.Role != "" {
		role := identity.Role(req.Role)
		input.Role = &role
	}

	result, err := h.userService.List(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Users, result.Total, result.Page, result.PageSize)
}

// Get returns a single user
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Activate re-enables a deactivated user
func (h *UserHandler) Activate(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Deactivate disables a user account
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}
