package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/bizcoach-api/internal/config"
	"github.com/sangkips/bizcoach-api/internal/domain/analytics"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSource struct {
	owners   []uuid.UUID
	alerts   map[uuid.UUID][]analytics.AnomalyAlert
	failing  map[uuid.UUID]bool
	ownerErr error
	frames   []enum.TimeFrame
}

func (f *fakeSource) Owners(context.Context) ([]uuid.UUID, error) {
	return f.owners, f.ownerErr
}

func (f *fakeSource) Anomalies(_ context.Context, ownerID uuid.UUID, tf enum.TimeFrame) ([]analytics.AnomalyAlert, error) {
	f.frames = append(f.frames, tf)
	if f.failing[ownerID] {
		return nil, errors.New("store unavailable")
	}
	return f.alerts[ownerID], nil
}

func TestRunDigest(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	src := &fakeSource{
		owners: []uuid.UUID{a, b, c},
		alerts: map[uuid.UUID][]analytics.AnomalyAlert{
			a: {
				{ID: analytics.AlertProfitNegative, Type: enum.SeverityHigh, Title: "Negative Profit", Impact: 95},
				{ID: analytics.AlertHighExpenses, Type: enum.SeverityHigh, Title: "High Expense Ratio", Impact: 85},
			},
			c: {{ID: analytics.AlertLowProductivity, Type: enum.SeverityMedium, Title: "Underperforming Products", Impact: 50}},
		},
		failing: map[uuid.UUID]bool{b: true},
	}

	core, logs := observer.New(zap.InfoLevel)
	s, err := NewScheduler(config.SchedulerConfig{DigestCron: "0 8 * * *", Timezone: "UTC"}, src, zap.New(core))
	require.NoError(t, err)

	n, err := s.RunDigest(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []enum.TimeFrame{enum.TimeFrameLifetime, enum.TimeFrameLifetime, enum.TimeFrameLifetime}, src.frames)

	alertLogs := logs.FilterMessage("anomaly alert").All()
	require.Len(t, alertLogs, 3)
	require.Equal(t, a.String(), alertLogs[0].ContextMap()["owner_id"])
	require.Equal(t, analytics.AlertProfitNegative, alertLogs[0].ContextMap()["alert_id"])
	require.Equal(t, int64(50), alertLogs[2].ContextMap()["impact"])
	require.Equal(t, 1, logs.FilterMessage("skipping owner in digest").Len())
}

func TestRunDigestOwnerListFailure(t *testing.T) {
	src := &fakeSource{ownerErr: errors.New("boom")}
	s, err := NewScheduler(config.SchedulerConfig{}, src, nil)
	require.NoError(t, err)

	_, err = s.RunDigest(context.Background())
	require.Error(t, err)
}

func TestStart(t *testing.T) {
	src := &fakeSource{}

	s, err := NewScheduler(config.SchedulerConfig{}, src, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start(), "empty schedule disables the digest")
	s.Stop()

	s, err = NewScheduler(config.SchedulerConfig{DigestCron: "not a cron", Timezone: "UTC"}, src, nil)
	require.NoError(t, err)
	require.Error(t, s.Start())

	_, err = NewScheduler(config.SchedulerConfig{Timezone: "Nowhere/Invalid"}, src, nil)
	require.Error(t, err)
}
