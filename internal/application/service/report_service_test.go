package service

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/sangkips/bizcoach-api/internal/config"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
	"github.com/sangkips/bizcoach-api/internal/testutil"
	"github.com/sangkips/bizcoach-api/pkg/apperror"
	"github.com/stretchr/testify/require"
)

func TestReportDashboardPDF(t *testing.T) {
	shop := testutil.NewShop(testNow)
	svc := NewReportService(newDashboard(shop, config.AnalyticsConfig{}), "Test Shop", nil)

	doc, err := svc.DashboardPDF(context.Background(), shop.Owner, enum.TimeFrame30d)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	shop.Store.Err = context.Canceled
	_, err = svc.DashboardPDF(context.Background(), shop.Owner, enum.TimeFrame30d)
	require.Equal(t, http.StatusServiceUnavailable, apperror.GetAppError(err).Code)
}
