package worker

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"stanbrief/internal/config"
	"stanbrief/internal/logger"
)

// StartScheduler creates and starts an Asynq scheduler that enqueues the
// daily generate-all task on the configured cron schedule. Returns a stop
// function for graceful shutdown.
func StartScheduler(cfg *config.Config) (stop func(), err error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	log := logger.Get()

	location, err := time.LoadLocation(cfg.Worker.Timezone)
	if err != nil {
		log.Warn("Invalid timezone, using UTC", "timezone", cfg.Worker.Timezone, "error", err)
		location = time.UTC
	}

	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: location,
			LogLevel: asynq.InfoLevel,
			Logger:   &asynqLoggerAdapter{logger: log},
		},
	)

	task := asynq.NewTask(
		TaskGenerateAll,
		nil,
		asynq.MaxRetry(2),
		asynq.Timeout(30*time.Minute),
		asynq.Retention(24*time.Hour),
		// Prevent duplicate runs if the scheduler fires twice.
		asynq.Unique(time.Hour),
	)

	entryID, err := scheduler.Register(cfg.Worker.Schedule, task)
	if err != nil {
		return nil, fmt.Errorf("failed to register briefing schedule: %w", err)
	}

	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	log.Info("Scheduler started",
		"schedule", cfg.Worker.Schedule,
		"timezone", cfg.Worker.Timezone,
		"entry_id", entryID,
	)

	return func() { scheduler.Shutdown() }, nil
}
