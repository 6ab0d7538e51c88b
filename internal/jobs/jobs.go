package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/metrics"
)

// Purger removes audit entries older than cutoff.
type Purger interface {
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

func NewScheduler(log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log,
	}
}

// AddAuditRetention purges audit logs older than retention on every tick of schedule.
func (s *Scheduler) AddAuditRetention(schedule string, purger Purger, retention time.Duration) error {
	_, err := s.cron.AddFunc(schedule, func() {
		PurgeAuditLogs(context.Background(), purger, retention, time.Now(), s.log)
	})
	if err != nil {
		return fmt.Errorf("schedule audit retention %q: %w", schedule, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("cron scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("cron scheduler stop timed out")
	}
}

func PurgeAuditLogs(ctx context.Context, purger Purger, retention time.Duration, now time.Time, log *zap.Logger) {
	cutoff := now.Add(-retention)

	n, err := purger.Purge(ctx, cutoff)
	if err != nil {
		log.Error("audit purge failed", zap.Error(err))
		return
	}

	metrics.AuditLogsPurged.Add(float64(n))
	log.Info("audit logs purged", zap.Int64("rows", n), zap.Time("cutoff", cutoff))
}
