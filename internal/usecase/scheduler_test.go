package usecase

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualDriver struct {
	job     func(time.Time)
	stopped bool
}

func (d *manualDriver) Start(_ context.Context, job func(time.Time)) error {
	d.job = job
	return nil
}

func (d *manualDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

type statsSource struct{ stats sql.DBStats }

func (s statsSource) Stats() sql.DBStats { return s.stats }

type statsSink struct{ got []sql.DBStats }

func (s *statsSink) UpdateDBStats(stats sql.DBStats) { s.got = append(s.got, stats) }

func TestSchedulerPublishesPoolStats(t *testing.T) {
	t.Parallel()

	driver := &manualDriver{}
	sink := &statsSink{}
	s := NewScheduler(driver, statsSource{stats: sql.DBStats{OpenConnections: 4, InUse: 1}}, sink)

	require.NoError(t, s.Start(context.Background()))
	require.NotNil(t, driver.job)

	driver.job(time.Now())
	require.Len(t, sink.got, 1)
	assert.Equal(t, 4, sink.got[0].OpenConnections)

	require.NoError(t, s.Stop(context.Background()))
	assert.True(t, driver.stopped)
}

func TestSchedulerWithoutSourceIsNoop(t *testing.T) {
	t.Parallel()

	driver := &manualDriver{}
	s := NewScheduler(driver, nil, &statsSink{})
	require.NoError(t, s.Start(context.Background()))
	assert.Nil(t, driver.job)
}
