package handler

import (
	"time"

	appreport "github.com/billing/backend/internal/application/report"
	"github.com/billing/backend/internal/domain/identity"
	"github.com/billing/backend/internal/domain/report"
	"github.com/billing/backend/internal/interfaces/http/dto"
	"github.com/billing/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	BaseHandler
	dashboardService *appreport.DashboardService
	jwtAuth          gin.HandlerFunc
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *appreport.DashboardService, jwtAuth gin.HandlerFunc) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		jwtAuth:          jwtAuth,
	}
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dashboard := rg.Group("/dashboard")
	dashboard.Use(h.jwtAuth, middleware.RequirePermission(identity.PermDashboardRead))

	dashboard.GET("/stats", h.Stats)
}

// Stats returns dashboard aggregates for the requested window.
// Without query parameters the window is the current calendar month.
func (h *DashboardHandler) Stats(c *gin.Context) {
	var req dto.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	var filter *report.DashboardFilter
	if req.StartDate != "" && req.EndDate != "" {
		start, _ := time.Parse(dto.DateLayout, req.StartDate)
		end, _ := time.Parse(dto.DateLayout, req.EndDate)
		if !end.After(start) {
			h.BadRequest(c, "end_date must be after start_date")
			return
		}
		filter = &report.DashboardFilter{StartDate: start, EndDate: end}
	}

	dashboard, err := h.dashboardService.GetDashboard(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dashboard)
}
