package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	mu   sync.Mutex
	days []int
	err  error
}

func (f *fakeEnqueuer) EnqueueAuditCleanup(_ context.Context, retentionDays int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days = append(f.days, retentionDays)
	return "task-1", f.err
}

func (f *fakeEnqueuer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.days)
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 3 * * *"))
	assert.NoError(t, ValidateCronSchedule("*/5 * * * *"))
	assert.Error(t, ValidateCronSchedule("every day"))
	assert.Error(t, ValidateCronSchedule("0 0 3 * * *"))
}

func TestAuditCleanupScheduler_StartStop(t *testing.T) {
	s := NewAuditCleanupScheduler(&fakeEnqueuer{}, "0 3 * * *", 30, nil)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	next := s.NextRunTime()
	require.NotNil(t, next)
	assert.Equal(t, 3, next.Hour())
	assert.True(t, next.After(time.Now()))

	// Starting twice is a no-op.
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRunTime())
	s.Stop()
}

func TestAuditCleanupScheduler_EmptyScheduleDisabled(t *testing.T) {
	s := NewAuditCleanupScheduler(&fakeEnqueuer{}, "", 30, nil)

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestAuditCleanupScheduler_InvalidSchedule(t *testing.T) {
	s := NewAuditCleanupScheduler(&fakeEnqueuer{}, "not a schedule", 30, nil)

	err := s.Start(context.Background())
	assert.ErrorContains(t, err, "invalid cron schedule")
	assert.False(t, s.IsRunning())
}

func TestAuditCleanupScheduler_StopsOnContextCancel(t *testing.T) {
	s := NewAuditCleanupScheduler(&fakeEnqueuer{}, "0 3 * * *", 30, nil)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestAuditCleanupScheduler_RunNow(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	s := NewAuditCleanupScheduler(enqueuer, "0 3 * * *", 14, nil)

	require.NoError(t, s.RunNow(context.Background()))
	assert.Equal(t, []int{14}, enqueuer.days)

	enqueuer.err = errors.New("queue closed")
	assert.Error(t, s.RunNow(context.Background()))
}

func TestAuditCleanupScheduler_RunLogsEnqueueErrors(t *testing.T) {
	enqueuer := &fakeEnqueuer{err: errors.New("queue closed")}
	s := NewAuditCleanupScheduler(enqueuer, "0 3 * * *", 7, nil)

	assert.NotPanics(t, func() { s.run(context.Background()) })
	assert.Equal(t, 1, enqueuer.calls())
}
