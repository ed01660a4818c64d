package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CronTriggerConfig holds configuration for the daily trigger
type CronTriggerConfig struct {
	// DailyRunHour/DailyRunMinute is the local wall-clock time at which
	// the daily settlement batch fires.
	DailyRunHour   int
	DailyRunMinute int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration

	// Location is the timezone used both for the wall-clock check and
	// for resolving "yesterday".
	Location *time.Location
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		DailyRunHour:   2, // 2am
		DailyRunMinute: 0,
		CheckInterval:  time.Minute,
		Location:       time.UTC,
	}
}

// CronTrigger fires the daily settlement batch once per day. Each firing
// settles the previous calendar day, which is the most recent day whose
// accrual period has fully closed.
type CronTrigger struct {
	config    CronTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string // Track which date we last ran for
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(config CronTriggerConfig, scheduler *Scheduler, logger *zap.Logger) *CronTrigger {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	return &CronTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Start starts the cron trigger
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Settlement cron trigger started",
		zap.Int("daily_hour", c.config.DailyRunHour),
		zap.Int("daily_minute", c.config.DailyRunMinute),
		zap.Duration("check_interval", c.config.CheckInterval),
		zap.String("timezone", c.config.Location.String()),
	)

	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Settlement cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically if it's time to run the daily batch
func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger(time.Now())
		}
	}
}

// checkAndTrigger fires the batch if the configured wall-clock time has
// been reached and we have not already run today.
func (c *CronTrigger) checkAndTrigger(now time.Time) {
	now = now.In(c.config.Location)
	currentDate := now.Format("2006-01-02")

	// Skip if we already ran today
	c.mu.Lock()
	if c.lastRunDate == currentDate {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if !c.shouldRun(now) {
		return
	}

	c.mu.Lock()
	c.lastRunDate = currentDate
	c.mu.Unlock()

	targetDate := now.AddDate(0, 0, -1)
	c.logger.Info("Triggering daily settlement run",
		zap.String("target_date", targetDate.Format("2006-01-02")),
	)

	if err := c.scheduler.ScheduleRun(targetDate); err != nil {
		c.logger.Error("Failed to schedule daily settlement run",
			zap.String("target_date", targetDate.Format("2006-01-02")),
			zap.Error(err),
		)
		// Allow a retry on the next tick.
		c.mu.Lock()
		c.lastRunDate = ""
		c.mu.Unlock()
	}
}

// shouldRun reports whether now matches the configured run time
func (c *CronTrigger) shouldRun(now time.Time) bool {
	return now.Hour() == c.config.DailyRunHour && now.Minute() == c.config.DailyRunMinute
}

// TriggerManualRun allows manually scheduling a batch for a specific day
func (c *CronTrigger) TriggerManualRun(targetDate time.Time) error {
	return c.scheduler.ScheduleRun(targetDate)
}
