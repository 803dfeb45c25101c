package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizcoach-api/internal/config"
	"github.com/sangkips/bizcoach-api/internal/domain/analytics"
	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
	"github.com/sangkips/bizcoach-api/internal/domain/repository"
	"github.com/sangkips/bizcoach-api/pkg/apperror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardService fetches an owner's records and runs the analytics core over them
type DashboardService struct {
	records repository.RecordRepository
	cfg     config.AnalyticsConfig
	logger  *zap.Logger
	now     func() time.Time
}

// Option customizes a service at construction
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(records repository.RecordRepository, cfg config.AnalyticsConfig, logger *zap.Logger, opts ...Option) *DashboardService {
	o := buildOptions(opts)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		records: records,
		cfg:     cfg,
		logger:  logger,
		now:     o.now,
	}
}

// GrowthRate is the revenue growth between two equal windows
type GrowthRate struct {
	TimeFrame  enum.TimeFrame `json:"time_frame"`
	GrowthRate float64        `json:"growth_rate"`
}

// Overview bundles every dashboard panel computed from one snapshot
type Overview struct {
	TimeFrame   enum.TimeFrame             `json:"time_frame"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Metrics     analytics.DashboardMetrics `json:"metrics"`
	Trends      []analytics.TrendAnalysis  `json:"trends"`
	Anomalies   []analytics.AnomalyAlert   `json:"anomalies"`
	Insights    []analytics.AIInsight      `json:"insights"`
}

// Snapshot loads the four record collections for an owner. Sales and costs are
// limited to the time frame, products and customers never are.
func (s *DashboardService) Snapshot(ctx context.Context, ownerID uuid.UUID, tf enum.TimeFrame) (analytics.Snapshot, error) {
	return s.snapshot(ctx, ownerID, repository.RangeFor(tf, s.now()))
}

func (s *DashboardService) snapshot(ctx context.Context, ownerID uuid.UUID, r repository.DateRange) (analytics.Snapshot, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var snap analytics.Snapshot
	var ledger []entity.Sale

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sales, err := s.records.ListSales(gctx, ownerID, r)
		snap.Sales = sales
		return err
	})
	g.Go(func() error {
		costs, err := s.records.ListCosts(gctx, ownerID, r)
		snap.Costs = costs
		return err
	})
	g.Go(func() error {
		products, err := s.records.ListProducts(gctx, ownerID)
		snap.Products = products
		return err
	})
	g.Go(func() error {
		customers, err := s.records.ListCustomers(gctx, ownerID)
		snap.Customers = customers
		return err
	})
	if s.cfg.ReconcileCustomers && r.Bounded {
		g.Go(func() error {
			sales, err := s.records.ListSales(gctx, ownerID, repository.Unbounded())
			ledger = sales
			return err
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load snapshot",
			zap.String("owner_id", ownerID.String()),
			zap.Bool("bounded", r.Bounded),
			zap.Error(err),
		)
		return analytics.Snapshot{}, apperror.NewStoreError(err)
	}

	if s.cfg.ReconcileCustomers {
		if !r.Bounded {
			ledger = snap.Sales
		}
		snap.Customers = analytics.ReconcileCustomers(snap.Customers, ledger)
	}

	s.logger.Debug("snapshot loaded",
		zap.String("owner_id", ownerID.String()),
		zap.Int("sales", len(snap.Sales)),
		zap.Int("costs", len(snap.Costs)),
		zap.Int("products", len(snap.Products)),
		zap.Int("customers", len(snap.Customers)),
	)
	return snap, nil
}

func (s *DashboardService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.FetchTimeout)
}

// Metrics returns the dashboard metrics for the time frame
func (s *DashboardService) Metrics(ctx context.Context, ownerID uuid.UUID, tf enum.TimeFrame) (*analytics.DashboardMetrics, error) {
	now := s.now()
	snap, err := s.snapshot(ctx, ownerID, repository.RangeFor(tf, now))
	if err != nil {
		return nil, err
	}
	m := analytics.ComputeMetrics(snap, now)
	return &m, nil
}

// Trends returns the week-over-week trend analyses
func (s *DashboardService) Trends(ctx context.Context, ownerID uuid.UUID, tf enum.TimeFrame) ([]analytics.TrendAnalysis, error) {
	now := s.now()
	snap, err := s.snapshot(ctx, ownerID, repository.RangeFor(tf, now))
	if err != nil {
		return nil, err
	}
	return analytics.AnalyzeTrends(snap, now), nil
}

// Anomalies returns the ranked anomaly alerts
func (s *DashboardService) Anomalies(ctx context.Context, ownerID uuid.UUID, tf enum.TimeFrame) ([]analytics.AnomalyAlert, error) {
	now := s.now()
	snap, err := s.snapshot(ctx, ownerID, repository.RangeFor(tf, now))
	if err != nil {
		return nil, err
	}
	return analytics.DetectAnomalies(snap, analytics.ComputeMetrics(snap, now), now), nil
}

// Insights returns the coach insights
func (s *DashboardService) Insights(ctx context.Context, ownerID uuid.UUID, tf enum.TimeFrame) ([]analytics.AIInsight, error) {
	now := s.now()
	snap, err := s.snapshot(ctx, ownerID, repository.RangeFor(tf, now))
	if err != nil {
		return nil, err
	}
	return analytics.GenerateInsights(snap, now), nil
}

// GrowthRate compares revenue in the time frame with the window before it.
// Sales are loaded unbounded because the previous window lies outside the frame.
func (s *DashboardService) GrowthRate(ctx context.Context, ownerID uuid.UUID, tf enum.TimeFrame) (*GrowthRate, error) {
	now := s.now()
	fetchCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	sales, err := s.records.ListSales(fetchCtx, ownerID, repository.Unbounded())
	if err != nil {
		s.logger.Error("failed to load sales", zap.String("owner_id", ownerID.String()), zap.Error(err))
		return nil, apperror.NewStoreError(err)
	}
	return &GrowthRate{
		TimeFrame:  tf,
		GrowthRate: analytics.RevenueGrowthRate(sales, tf, now),
	}, nil
}

// Segments groups the owner's customers
func (s *DashboardService) Segments(ctx context.Context, ownerID uuid.UUID) (*analytics.CustomerSegments, error) {
	now := s.now()
	snap, err := s.snapshot(ctx, ownerID, repository.Unbounded())
	if err != nil {
		return nil, err
	}
	seg := analytics.SegmentCustomers(snap.Customers, now)
	return &seg, nil
}

// DailyRevenue returns completed revenue per day inside the time frame
func (s *DashboardService) DailyRevenue(ctx context.Context, ownerID uuid.UUID, tf enum.TimeFrame) ([]analytics.DailyRevenuePoint, error) {
	now := s.now()
	fetchCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	sales, err := s.records.ListSales(fetchCtx, ownerID, repository.RangeFor(tf, now))
	if err != nil {
		s.logger.Error("failed to load sales", zap.String("owner_id", ownerID.String()), zap.Error(err))
		return nil, apperror.NewStoreError(err)
	}
	return analytics.DailyRevenue(sales), nil
}

// Overview computes every panel from a single snapshot
func (s *DashboardService) Overview(ctx context.Context, ownerID uuid.UUID, tf enum.TimeFrame) (*Overview, error) {
	now := s.now()
	snap, err := s.snapshot(ctx, ownerID, repository.RangeFor(tf, now))
	if err != nil {
		return nil, err
	}

	metrics := analytics.ComputeMetrics(snap, now)
	return &Overview{
		TimeFrame:   tf,
		GeneratedAt: now,
		Metrics:     metrics,
		Trends:      analytics.AnalyzeTrends(snap, now),
		Anomalies:   analytics.DetectAnomalies(snap, metrics, now),
		Insights:    analytics.GenerateInsights(snap, now),
	}, nil
}

// Owners lists every owner that has records
func (s *DashboardService) Owners(ctx context.Context) ([]uuid.UUID, error) {
	fetchCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	owners, err := s.records.ListOwners(fetchCtx)
	if err != nil {
		s.logger.Error("failed to list owners", zap.Error(err))
		return nil, apperror.NewStoreError(err)
	}
	return owners, nil
}
