package handler

import (
	"github.com/gin-gonic/gin"
	appbilling "github.com/waterworks/backend/internal/application/billing"
)

// PaymentHandler handles payment API endpoints. Every mutation re-derives
// the affected bill's paid status before responding.
type PaymentHandler struct {
	BaseHandler
	billing *appbilling.BillingService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(billing *appbilling.BillingService) *PaymentHandler {
	return &PaymentHandler{billing: billing}
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.Create)
		payments.PUT("/:id", h.Update)
		payments.DELETE("/:id", h.Delete)
	}
}

// Create applies a payment to a bill
func (h *PaymentHandler) Create(c *gin.Context) {
	var req appbilling.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.billing.ApplyPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, payment)
}

// Update corrects a payment's amount or moves it to another bill
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	var req appbilling.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.billing.CorrectPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}

// Delete reverses a payment
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	if err := h.billing.DeletePayment(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
