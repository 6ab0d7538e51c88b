package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakePurger struct {
	cutoff time.Time
	rows   int64
	err    error
}

func (f *fakePurger) Purge(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.rows, f.err
}

func TestPurgeAuditLogs(t *testing.T) {
	now := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	p := &fakePurger{rows: 3}

	PurgeAuditLogs(context.Background(), p, 90*24*time.Hour, now, zap.NewNop())

	if want := time.Date(2026, 7, 21, 3, 0, 0, 0, time.UTC); !p.cutoff.Equal(want) {
		t.Errorf("cutoff = %v, want %v", p.cutoff, want)
	}

	// errors are logged, not raised
	PurgeAuditLogs(context.Background(), &fakePurger{err: errors.New("db down")}, time.Hour, now, zap.NewNop())
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	if err := s.AddAuditRetention("every tuesday", &fakePurger{}, time.Hour); err == nil {
		t.Error("AddAuditRetention() accepted an invalid schedule")
	}
	if err := s.AddAuditRetention("@daily", &fakePurger{}, time.Hour); err != nil {
		t.Fatalf("AddAuditRetention() error = %v", err)
	}

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
