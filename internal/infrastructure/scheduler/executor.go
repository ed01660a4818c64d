package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SettlementRunner runs the daily settlement batch for a target day.
// Implemented by the application layer's DailySettlementService.
type SettlementRunner interface {
	RunDailySettlement(ctx context.Context, targetDate time.Time) (int, error)
}

// SettlementExecutor adapts a SettlementRunner to the scheduler's
// JobExecutor interface.
type SettlementExecutor struct {
	runner SettlementRunner
	logger *zap.Logger
}

// NewSettlementExecutor creates a new settlement job executor
func NewSettlementExecutor(runner SettlementRunner, logger *zap.Logger) *SettlementExecutor {
	return &SettlementExecutor{
		runner: runner,
		logger: logger,
	}
}

// Execute runs the daily settlement batch for the job's target date
func (e *SettlementExecutor) Execute(ctx context.Context, job *Job) error {
	processed, err := e.runner.RunDailySettlement(ctx, job.TargetDate)
	job.Processed = processed
	if err != nil {
		return err
	}
	return nil
}

// Ensure SettlementExecutor implements JobExecutor
var _ JobExecutor = (*SettlementExecutor)(nil)
