package handler

import (
	"time"

	"github.com/billing/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SystemHandler handles health and info endpoints
type SystemHandler struct {
	BaseHandler
	cfg     *config.Config
	db      *gorm.DB
	started time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(cfg *config.Config, db *gorm.DB) *SystemHandler {
	return &SystemHandler{
		cfg:     cfg,
		db:      db,
		started: time.Now(),
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	system.GET("/health", h.Health)
	system.GET("/info", h.Info)
}

// Health reports liveness and database connectivity
func (h *SystemHandler) Health(c *gin.Context) {
	dbStatus := "ok"
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			dbStatus = "unavailable"
		}
	}

	h.Success(c, gin.H{
		"status":   "ok",
		"database": dbStatus,
		"uptime":   time.Since(h.started).String(),
	})
}

// Info reports application metadata
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, gin.H{
		"name":        h.cfg.App.Name,
		"environment": h.cfg.App.Env,
		"company":     h.cfg.Company.Name,
	})
}
