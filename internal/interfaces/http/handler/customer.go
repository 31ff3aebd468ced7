package handler

import (
	appbilling "github.com/billing/backend/internal/application/billing"
	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/identity"
	"github.com/billing/backend/internal/interfaces/http/dto"
	"github.com/billing/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *appbilling.CustomerService
	invoiceService  *appbilling.InvoiceService
	jwtAuth         gin.HandlerFunc
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *appbilling.CustomerService, invoiceService *appbilling.InvoiceService, jwtAuth gin.HandlerFunc) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		invoiceService:  invoiceService,
		jwtAuth:         jwtAuth,
	}
}

// RegisterRoutes registers customer routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/billing/customers")
	customers.Use(h.jwtAuth)

	read := middleware.RequirePermission(identity.PermCustomerRead)
	write := middleware.RequirePermission(identity.PermCustomerWrite)

	customers.GET("", read, h.List)
	customers.GET("/:id", read, h.Get)
	customers.GET("/:id/invoices/unpaid", middleware.RequirePermission(identity.PermInvoiceRead), h.UnpaidInvoices)
	customers.POST("", write, h.Create)
	customers.PUT("/:id", write, h.Update)
	customers.DELETE("/:id", write, h.Delete)
	customers.POST("/:id/activate", write, h.Activate)
	customers.POST("/:id/deactivate", write, h.Deactivate)
}

// Create registers a new customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), appbilling.CreateCustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, customer)
}

// Get returns a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	customer, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// List returns a page of customers
func (h *CustomerHandler) List(c *gin.Context) {
	var req dto.ListCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	input := appbilling.ListCustomersInput{
		Keyword:   req.Keyword,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.Status != "" {
		status := billing.CustomerStatus(req.Status)
		input.Status = &status
	}

	page, err := h.customerService.List(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Customers, page.Total, page.Page, page.PageSize)
}

// Update edits a customer's details
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), id, appbilling.UpdateCustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Delete removes a customer and their settled ledger.
// Customers with open invoices cannot be deleted.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate re-enables a deactivated customer
func (h *CustomerHandler) Activate(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	customer, err := h.customerService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Deactivate disables a customer
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	customer, err := h.customerService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// UnpaidInvoices returns the customer's open invoices, oldest due first
func (h *CustomerHandler) UnpaidInvoices(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	invoices, err := h.invoiceService.UnpaidByCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewUnpaidInvoiceResponses(invoices))
}
