package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
	"github.com/sangkips/bizcoach-api/pkg/apperror"
	"github.com/sangkips/bizcoach-api/pkg/report"
	"go.uber.org/zap"
)

// ReportService renders dashboard exports
type ReportService struct {
	dashboard    *DashboardService
	businessName string
	logger       *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(dashboard *DashboardService, businessName string, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{dashboard: dashboard, businessName: businessName, logger: logger}
}

// DashboardPDF renders the overview for the time frame as a PDF document
func (s *ReportService) DashboardPDF(ctx context.Context, ownerID uuid.UUID, tf enum.TimeFrame) ([]byte, error) {
	overview, err := s.dashboard.Overview(ctx, ownerID, tf)
	if err != nil {
		return nil, err
	}

	doc, err := report.DashboardPDF(report.Data{
		BusinessName: s.businessName,
		TimeFrame:    tf.String(),
		GeneratedAt:  overview.GeneratedAt,
		Metrics:      overview.Metrics,
		Anomalies:    overview.Anomalies,
		Insights:     overview.Insights,
	})
	if err != nil {
		s.logger.Error("failed to render dashboard pdf", zap.String("owner_id", ownerID.String()), zap.Error(err))
		return nil, apperror.ErrInternalServer
	}
	return doc, nil
}
