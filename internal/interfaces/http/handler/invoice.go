package handler

import (
	"net/http"
	"time"

	appbilling "github.com/billing/backend/internal/application/billing"
	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/identity"
	"github.com/billing/backend/internal/interfaces/http/dto"
	"github.com/billing/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *appbilling.InvoiceService
	paymentService *appbilling.PaymentService
	jwtAuth        gin.HandlerFunc
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *appbilling.InvoiceService, paymentService *appbilling.PaymentService, jwtAuth gin.HandlerFunc) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		paymentService: paymentService,
		jwtAuth:        jwtAuth,
	}
}

// RegisterRoutes registers invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/billing/invoices")
	invoices.Use(h.jwtAuth)

	read := middleware.RequirePermission(identity.PermInvoiceRead)
	write := middleware.RequirePermission(identity.PermInvoiceWrite)

	invoices.GET("", read, h.List)
	invoices.GET("/:id", read, h.Get)
	invoices.GET("/:id/pdf", read, h.DownloadPDF)
	invoices.POST("", write, h.Create)
	invoices.PUT("/:id", write, h.Update)
	invoices.DELETE("/:id", write, h.Delete)

	invoices.GET("/:id/payments", middleware.RequirePermission(identity.PermPaymentRead), h.ListPayments)
	invoices.POST("/:id/payments", middleware.RequirePermission(identity.PermPaymentCreate), h.RecordPayment)
}

// Create raises a new invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), appbilling.CreateInvoiceInput{
		CustomerID:  customerID,
		Amount:      req.Amount,
		IssueDate:   req.IssueDate.Time,
		DueDate:     req.DueDate.Time,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// Get returns a single invoice with its payment history
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List returns a page of invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var req dto.ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	input := appbilling.ListInvoicesInput{
		Keyword:   req.Keyword,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.Status != "" {
		status := billing.InvoiceStatus(req.Status)
		input.Status = &status
	}
	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID")
			return
		}
		input.CustomerID = &customerID
	}
	if req.DateFrom != "" {
		from, _ := time.Parse(dto.DateLayout, req.DateFrom)
		input.DateFrom = &from
	}
	if req.DateTo != "" {
		to, _ := time.Parse(dto.DateLayout, req.DateTo)
		input.DateTo = &to
	}
	if input.DateFrom != nil && input.DateTo != nil && input.DateTo.Before(*input.DateFrom) {
		h.BadRequest(c, "date_to must not be before date_from")
		return
	}

	page, err := h.invoiceService.List(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Invoices, page.Total, page.Page, page.PageSize)
}

// Update edits an invoice that has no payments yet
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), id, appbilling.UpdateInvoiceInput{
		Amount:      req.Amount,
		DueDate:     req.DueDate.Time,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Delete removes an invoice that has no payments yet
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DownloadPDF renders the invoice as a PDF attachment
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	data, filename, err := h.invoiceService.RenderPDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// ListPayments returns an invoice's payments, oldest first
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	payments, err := h.paymentService.ListByInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payments)
}

// RecordPayment records a payment against the invoice
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.paymentService.Record(c.Request.Context(), appbilling.RecordPaymentInput{
		InvoiceID:   id,
		Amount:      req.Amount,
		Method:      billing.PaymentMethod(req.Method),
		PaymentDate: req.PaymentDate.Time,
		Note:        req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, gin.H{
		"payment": result.Payment,
		"invoice": result.Invoice,
	})
}
