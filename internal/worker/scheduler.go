package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/BekzhanK1/moodlog-backend/internal/config"
	"github.com/BekzhanK1/moodlog-backend/internal/logging"
)

// StartScheduler creates and starts an Asynq Scheduler that fires the
// periodic insight sweep. Returns a stop function for graceful shutdown.
func StartScheduler(cfg *config.Config) (stop func(), err error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Parse timezone from config
	location, err := time.LoadLocation(cfg.SweepTimezone)
	if err != nil {
		slog.Warn("Invalid timezone, using UTC", "timezone", cfg.SweepTimezone, "error", err)
		location = time.UTC
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)

	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: location,
			LogLevel: asynq.InfoLevel,
			Logger:   &asynqLoggerAdapter{logger: logger},
		},
	)

	// Register the periodic sweep. The handler only enqueues per-user
	// generation tasks, so a generous timeout covers large user counts.
	task := asynq.NewTask(
		TaskInsightSweep,
		nil, // Empty payload - handler queries all users
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour),
		asynq.Unique(24*time.Hour), // Prevent duplicate if scheduler runs twice
	)

	entryID, err := scheduler.Register(cfg.SweepSchedule, task)
	if err != nil {
		return nil, fmt.Errorf("failed to register insight sweep schedule: %w", err)
	}

	// Start scheduler (non-blocking)
	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	slog.Info(
		"Scheduler started",
		"schedule", cfg.SweepSchedule,
		"timezone", cfg.SweepTimezone,
		"entry_id", entryID,
	)

	// Return shutdown function
	return func() { scheduler.Shutdown() }, nil
}
