package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/waterworks/backend/internal/application/billing"
)

// ReadingHandler handles meter reading API endpoints. Creating, editing
// and deleting a reading all run the billing cascade before responding.
type ReadingHandler struct {
	BaseHandler
	billing *appbilling.BillingService
}

// NewReadingHandler creates a new ReadingHandler
func NewReadingHandler(billing *appbilling.BillingService) *ReadingHandler {
	return &ReadingHandler{billing: billing}
}

// RegisterRoutes registers meter reading routes
func (h *ReadingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	readings := rg.Group("/readings")
	{
		readings.POST("", h.Create)
		readings.GET("/:id", h.Get)
		readings.PUT("/:id", h.Update)
		readings.DELETE("/:id", h.Delete)
	}

	rg.GET("/meters/:id/readings", h.ListByMeter)
}

// Create submits a new meter reading and issues its bill
func (h *ReadingHandler) Create(c *gin.Context) {
	var req appbilling.CreateReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	reading, err := h.billing.SubmitReading(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, reading)
}

// Get returns one reading
func (h *ReadingHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid reading ID")
		return
	}

	reading, err := h.billing.GetReading(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, reading)
}

// Update corrects a reading's register value and recomputes its bill
func (h *ReadingHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid reading ID")
		return
	}

	var req appbilling.UpdateReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	reading, err := h.billing.CorrectReading(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, reading)
}

// Delete removes a reading along with its bill and the bill's payments
func (h *ReadingHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid reading ID")
		return
	}

	if err := h.billing.DeleteReading(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// ListByMeter returns a meter's readings ordered by reading date
func (h *ReadingHandler) ListByMeter(c *gin.Context) {
	meterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid meter ID")
		return
	}

	readings, err := h.billing.ListReadingsByMeter(c.Request.Context(), meterID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, readings)
}
