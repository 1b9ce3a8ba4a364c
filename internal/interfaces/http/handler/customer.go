package handler

import (
	"github.com/gin-gonic/gin"
	appbilling "github.com/waterworks/backend/internal/application/billing"
)

// CustomerHandler handles customer and meter API endpoints
type CustomerHandler struct {
	BaseHandler
	customers *appbilling.CustomerService
	reports   *appbilling.ReportService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers *appbilling.CustomerService, reports *appbilling.ReportService) *CustomerHandler {
	return &CustomerHandler{
		customers: customers,
		reports:   reports,
	}
}

// RegisterRoutes registers customer and meter routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.List)
		customers.GET("/:id", h.Get)
		customers.PUT("/:id", h.Update)
		customers.DELETE("/:id", h.Delete)
		customers.GET("/:id/meter", h.GetMeter)
		customers.GET("/:id/notifications", h.ListNotifications)
	}

	meters := rg.Group("/meters")
	{
		meters.POST("", h.RegisterMeter)
		meters.GET("", h.ListMeters)
	}
}

// Create creates a new customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req appbilling.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, customer)
}

// List returns all customers with their derived balances
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customers)
}

// Get returns one customer with its derived balance
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customers.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customer)
}

// Update updates a customer's contact details
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req appbilling.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customers.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete removes a customer and everything attached to it
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// GetMeter returns the customer's meter
func (h *CustomerHandler) GetMeter(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	meter, err := h.customers.GetMeterByCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, meter)
}

// ListNotifications returns the customer's notifications, newest first
func (h *CustomerHandler) ListNotifications(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	notifications, err := h.reports.CustomerNotifications(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, notifications)
}

// RegisterMeter installs a meter for a customer
func (h *CustomerHandler) RegisterMeter(c *gin.Context) {
	var req appbilling.RegisterMeterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	meter, err := h.customers.RegisterMeter(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, meter)
}

// ListMeters returns all meters
func (h *CustomerHandler) ListMeters(c *gin.Context) {
	meters, err := h.customers.ListMeters(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, meters)
}
