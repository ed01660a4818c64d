package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingExecutor records executed jobs and returns a configurable error
type recordingExecutor struct {
	mu        sync.Mutex
	executed  []*Job
	err       error
	processed int
}

func (e *recordingExecutor) Execute(ctx context.Context, job *Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executed = append(e.executed, job)
	job.Processed = e.processed
	return e.err
}

func (e *recordingExecutor) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.executed)
}

// blockingExecutor holds the worker until release is closed
type blockingExecutor struct {
	release chan struct{}
	started atomic.Bool
}

func (e *blockingExecutor) Execute(ctx context.Context, job *Job) error {
	e.started.Store(true)
	select {
	case <-e.release:
	case <-ctx.Done():
	}
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.WorkerCount)
	assert.Equal(t, 10, cfg.QueueSize)
	assert.Equal(t, 30*time.Minute, cfg.JobTimeout)
}

func TestJob_Lifecycle(t *testing.T) {
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	job := NewJob(day)

	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, day, job.TargetDate)
	assert.Nil(t, job.StartedAt)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	assert.NotNil(t, job.StartedAt)

	job.Processed = 7
	job.Complete()
	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.Equal(t, 7, job.Processed)
	assert.NotNil(t, job.CompletedAt)
}

func TestJob_Fail(t *testing.T) {
	job := NewJob(time.Now())
	job.Start()
	job.Fail("connection refused")

	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "connection refused", job.Error)
	assert.NotNil(t, job.CompletedAt)
}

func TestScheduler_ExecutesSubmittedJobs(t *testing.T) {
	executor := &recordingExecutor{processed: 3}
	s := NewScheduler(DefaultConfig(), executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(stopCtx)
	}()

	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.ScheduleRun(day))

	waitFor(t, func() bool { return executor.count() == 1 })

	executor.mu.Lock()
	job := executor.executed[0]
	executor.mu.Unlock()
	assert.Equal(t, day, job.TargetDate)
	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.Equal(t, 3, job.Processed)
}

func TestScheduler_FailedJobRecordsError(t *testing.T) {
	executor := &recordingExecutor{err: errors.New("boom")}
	s := NewScheduler(DefaultConfig(), executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(stopCtx)
	}()

	require.NoError(t, s.ScheduleRun(time.Now()))

	waitFor(t, func() bool { return executor.count() == 1 })
	waitFor(t, func() bool {
		executor.mu.Lock()
		defer executor.mu.Unlock()
		return executor.executed[0].Status == JobStatusFailed
	})

	executor.mu.Lock()
	assert.Equal(t, "boom", executor.executed[0].Error)
	executor.mu.Unlock()
}

func TestScheduler_SubmitBeforeStart(t *testing.T) {
	s := NewScheduler(DefaultConfig(), &recordingExecutor{}, zap.NewNop())

	err := s.ScheduleRun(time.Now())
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestScheduler_QueueFull(t *testing.T) {
	// Executor blocks so the single worker never drains the queue.
	release := make(chan struct{})
	blocking := &blockingExecutor{release: release}

	cfg := Config{WorkerCount: 1, QueueSize: 1, JobTimeout: time.Minute}
	s := NewScheduler(cfg, blocking, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer close(release)

	// First job occupies the worker, second fills the queue.
	require.NoError(t, s.ScheduleRun(time.Now()))
	waitFor(t, func() bool { return blocking.started.Load() })
	require.NoError(t, s.ScheduleRun(time.Now()))

	err := s.ScheduleRun(time.Now())
	assert.ErrorIs(t, err, ErrJobQueueFull)
}

func TestScheduler_StartIdempotent(t *testing.T) {
	s := NewScheduler(DefaultConfig(), &recordingExecutor{}, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(stopCtx))
	assert.NoError(t, s.Stop(stopCtx))
}
