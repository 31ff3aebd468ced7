package handler

import (
	appbilling "github.com/billing/backend/internal/application/billing"
	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/identity"
	"github.com/billing/backend/internal/interfaces/http/dto"
	"github.com/billing/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles ledger-wide payment queries.
// Recording payments lives on the invoice routes.
type PaymentHandler struct {
	BaseHandler
	paymentService *appbilling.PaymentService
	jwtAuth        gin.HandlerFunc
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *appbilling.PaymentService, jwtAuth gin.HandlerFunc) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		jwtAuth:        jwtAuth,
	}
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/billing/payments")
	payments.Use(h.jwtAuth, middleware.RequirePermission(identity.PermPaymentRead))

	payments.GET("", h.List)
	payments.GET("/:id", h.Get)
}

// List returns a page of payments across all invoices
func (h *PaymentHandler) List(c *gin.Context) {
	var req dto.ListPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	input := appbilling.ListPaymentsInput{
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.InvoiceID != "" {
		invoiceID, err := uuid.Parse(req.InvoiceID)
		if err != nil {
			h.BadRequest(c, "Invalid invoice ID")
			return
		}
		input.InvoiceID = &invoiceID
	}
	if req.Method != "" {
		method := billing.PaymentMethod(req.Method)
		input.Method = &method
	}

	page, err := h.paymentService.List(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Payments, page.Total, page.Page, page.PageSize)
}

// Get returns a single payment
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}
