package usecase

import (
	"context"
	"database/sql"
	"time"

	"ArticleBot/internal/ports"
)

// PoolStatsSource exposes connection pool counters.
type PoolStatsSource interface {
	Stats() sql.DBStats
}

// PoolStatsSink records connection pool counters.
type PoolStatsSink interface {
	UpdateDBStats(stats sql.DBStats)
}

// Scheduler wires the cron driver with the pool stats refresh job.
type Scheduler struct {
	driver ports.Scheduler
	source PoolStatsSource
	sink   PoolStatsSink
}

// NewScheduler returns a helper to start/stop the recurring job.
func NewScheduler(driver ports.Scheduler, source PoolStatsSource, sink PoolStatsSink) *Scheduler {
	return &Scheduler{driver: driver, source: source, sink: sink}
}

// Start registers the job with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.source == nil || s.sink == nil {
		return nil
	}

	job := func(time.Time) {
		s.sink.UpdateDBStats(s.source.Stats())
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
