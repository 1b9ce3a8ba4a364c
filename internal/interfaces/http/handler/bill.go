package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/waterworks/backend/internal/application/billing"
)

// BillHandler handles bill and tariff API endpoints
type BillHandler struct {
	BaseHandler
	billing *appbilling.BillingService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billing *appbilling.BillingService) *BillHandler {
	return &BillHandler{billing: billing}
}

// RegisterRoutes registers bill and tariff routes
func (h *BillHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bills := rg.Group("/bills")
	{
		bills.GET("/:id", h.Get)
		bills.GET("/:id/amount-due", h.PreviewAmountDue)
		bills.GET("/:id/payments", h.ListPayments)
	}

	rg.GET("/customers/:id/bills", h.ListByCustomer)

	tariffs := rg.Group("/tariffs")
	{
		tariffs.POST("", h.CreateTariff)
		tariffs.GET("", h.ListTariffs)
		tariffs.GET("/effective", h.EffectiveTariff)
	}
}

// Get returns one bill
func (h *BillHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billing.GetBill(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, bill)
}

// PreviewAmountDue recomputes the bill's amount due from current data
// without persisting anything
func (h *BillHandler) PreviewAmountDue(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	preview, err := h.billing.PreviewBillAmountDue(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, preview)
}

// ListPayments returns a bill's payments
func (h *BillHandler) ListPayments(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	payments, err := h.billing.ListPaymentsByBill(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payments)
}

// ListByCustomer returns a customer's bills, newest first
func (h *BillHandler) ListByCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	bills, err := h.billing.ListBillsByCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, bills)
}

// CreateTariff records a new tariff and reprices every unpaid bill
func (h *BillHandler) CreateTariff(c *gin.Context) {
	var req appbilling.CreateTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tariff, err := h.billing.CreateTariff(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, tariff)
}

// ListTariffs returns all tariffs, newest effective date first
func (h *BillHandler) ListTariffs(c *gin.Context) {
	tariffs, err := h.billing.ListTariffs(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tariffs)
}

// EffectiveTariff returns the tariff currently governing all computations
func (h *BillHandler) EffectiveTariff(c *gin.Context) {
	tariff, err := h.billing.EffectiveTariff(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tariff)
}
