package handler

import (
	"github.com/gin-gonic/gin"
	appbilling "github.com/waterworks/backend/internal/application/billing"
)

// ReportHandler handles reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reports *appbilling.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *appbilling.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RegisterRoutes registers reporting routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
}

// Dashboard summarizes the ledger: customer count, total outstanding
// balance, today's reading count and the latest notifications
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dashboard)
}
