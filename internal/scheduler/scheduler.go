package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sangkips/bizcoach-api/internal/config"
	"github.com/sangkips/bizcoach-api/internal/domain/analytics"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
	"go.uber.org/zap"
)

// digestTimeout bounds one full digest run across all owners
const digestTimeout = 5 * time.Minute

// AlertSource is the part of the dashboard service the digest reads
type AlertSource interface {
	Owners(ctx context.Context) ([]uuid.UUID, error)
	Anomalies(ctx context.Context, ownerID uuid.UUID, tf enum.TimeFrame) ([]analytics.AnomalyAlert, error)
}

// Scheduler runs the anomaly digest on a cron schedule
type Scheduler struct {
	cron   *cron.Cron
	source AlertSource
	cfg    config.SchedulerConfig
	logger *zap.Logger
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg config.SchedulerConfig, source AlertSource, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load digest timezone: %w", err)
		}
		loc = l
	}

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		source: source,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Start registers the digest job and starts the cron loop. An empty schedule disables the digest.
func (s *Scheduler) Start() error {
	if s.cfg.DigestCron == "" {
		s.logger.Info("anomaly digest disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.DigestCron, s.runDigest); err != nil {
		return fmt.Errorf("schedule anomaly digest: %w", err)
	}

	s.logger.Info("starting scheduler", zap.String("digest_cron", s.cfg.DigestCron), zap.String("timezone", s.cfg.Timezone))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running digest to finish
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	if _, err := s.RunDigest(ctx); err != nil {
		s.logger.Error("anomaly digest failed", zap.Error(err))
	}
}

// RunDigest logs one line per lifetime anomaly of every owner and returns how many
// were logged. A failing owner is logged and skipped.
func (s *Scheduler) RunDigest(ctx context.Context) (int, error) {
	owners, err := s.source.Owners(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, ownerID := range owners {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		alerts, err := s.source.Anomalies(ctx, ownerID, enum.TimeFrameLifetime)
		if err != nil {
			s.logger.Warn("skipping owner in digest", zap.String("owner_id", ownerID.String()), zap.Error(err))
			continue
		}

		for _, a := range alerts {
			s.logger.Info("anomaly alert",
				zap.String("owner_id", ownerID.String()),
				zap.String("alert_id", a.ID),
				zap.String("severity", string(a.Type)),
				zap.String("title", a.Title),
				zap.String("description", a.Description),
				zap.Int("impact", a.Impact),
			)
		}
		total += len(alerts)
	}

	s.logger.Info("anomaly digest finished", zap.Int("owners", len(owners)), zap.Int("alerts", total))
	return total, nil
}
