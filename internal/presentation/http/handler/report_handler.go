package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/bizcoach-api/internal/application/service"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
	"github.com/sangkips/bizcoach-api/internal/presentation/http/dto/response"
)

// ReportHandler serves document exports
type ReportHandler struct {
	reportService *service.ReportService
	defaultFrame  enum.TimeFrame
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService, defaultFrame enum.TimeFrame) *ReportHandler {
	return &ReportHandler{reportService: reportService, defaultFrame: defaultFrame}
}

// DashboardPDF streams the dashboard overview as a PDF download
func (h *ReportHandler) DashboardPDF(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	tf := timeFrame(c, h.defaultFrame)
	doc, err := h.reportService.DashboardPDF(c.Request.Context(), ownerID, tf)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="dashboard-%s.pdf"`, tf))
	c.Data(http.StatusOK, "application/pdf", doc)
}
