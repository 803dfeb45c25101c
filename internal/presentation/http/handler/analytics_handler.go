package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/bizcoach-api/internal/application/service"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
	"github.com/sangkips/bizcoach-api/internal/presentation/http/dto/response"
)

// AnalyticsHandler handles dashboard analytics HTTP requests
type AnalyticsHandler struct {
	dashboardService *service.DashboardService
	defaultFrame     enum.TimeFrame
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(dashboardService *service.DashboardService, defaultFrame enum.TimeFrame) *AnalyticsHandler {
	return &AnalyticsHandler{dashboardService: dashboardService, defaultFrame: defaultFrame}
}

// Metrics handles getting the dashboard metrics
func (h *AnalyticsHandler) Metrics(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	metrics, err := h.dashboardService.Metrics(c.Request.Context(), ownerID, timeFrame(c, h.defaultFrame))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Metrics retrieved successfully", metrics)
}

// Trends handles getting the week-over-week trends
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	trends, err := h.dashboardService.Trends(c.Request.Context(), ownerID, timeFrame(c, h.defaultFrame))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Trends retrieved successfully", trends)
}

// GrowthRate handles getting the revenue growth rate
func (h *AnalyticsHandler) GrowthRate(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	growth, err := h.dashboardService.GrowthRate(c.Request.Context(), ownerID, timeFrame(c, h.defaultFrame))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Growth rate retrieved successfully", growth)
}

// Anomalies handles getting the ranked anomaly alerts
func (h *AnalyticsHandler) Anomalies(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	alerts, err := h.dashboardService.Anomalies(c.Request.Context(), ownerID, timeFrame(c, h.defaultFrame))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Anomalies retrieved successfully", alerts)
}

// Insights handles getting the coach insights
func (h *AnalyticsHandler) Insights(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	insights, err := h.dashboardService.Insights(c.Request.Context(), ownerID, timeFrame(c, h.defaultFrame))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Insights retrieved successfully", insights)
}

// Segments handles getting the customer segments
func (h *AnalyticsHandler) Segments(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	segments, err := h.dashboardService.Segments(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer segments retrieved successfully", segments)
}

// DailyRevenue handles getting revenue per day
func (h *AnalyticsHandler) DailyRevenue(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	points, err := h.dashboardService.DailyRevenue(c.Request.Context(), ownerID, timeFrame(c, h.defaultFrame))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Daily revenue retrieved successfully", points)
}

// Overview handles getting every dashboard panel at once
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	overview, err := h.dashboardService.Overview(c.Request.Context(), ownerID, timeFrame(c, h.defaultFrame))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard overview retrieved successfully", overview)
}
