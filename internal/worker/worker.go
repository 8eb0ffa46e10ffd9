package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/BekzhanK1/moodlog-backend/internal/config"
	"github.com/BekzhanK1/moodlog-backend/internal/insights"
	"github.com/BekzhanK1/moodlog-backend/internal/logging"
	"github.com/BekzhanK1/moodlog-backend/internal/models"
	"github.com/BekzhanK1/moodlog-backend/internal/period"
)

// asynqLoggerAdapter wraps slog.Logger to implement asynq.Logger interface
type asynqLoggerAdapter struct {
	logger *slog.Logger
}

// Implement asynq.Logger interface methods
func (a *asynqLoggerAdapter) Debug(args ...interface{}) {
	a.logger.Debug(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Info(args ...interface{}) {
	a.logger.Info(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Warn(args ...interface{}) {
	a.logger.Warn(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Error(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Fatal(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
	panic(fmt.Sprint(args...))
}

// Run starts the Asynq worker server and blocks until shutdown signal.
// Use this for standalone worker mode.
func Run(cfg *config.Config, db *gorm.DB, generator *insights.Generator) error {
	srv, mux, err := newServer(cfg, db, generator)
	if err != nil {
		return err
	}

	// Run blocks and handles its own signal interception
	return srv.Run(mux)
}

// Start starts the Asynq worker in non-blocking mode and returns a stop function.
// Use this for embedded mode so the caller can coordinate shutdown.
func Start(cfg *config.Config, db *gorm.DB, generator *insights.Generator) (stop func(), err error) {
	srv, mux, err := newServer(cfg, db, generator)
	if err != nil {
		return nil, err
	}
	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start worker: %w", err)
	}
	return func() { srv.Shutdown() }, nil
}

func newServer(cfg *config.Config, db *gorm.DB, generator *insights.Generator) (*asynq.Server, *asynq.ServeMux, error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     5,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler:    asynq.ErrorHandlerFunc(makeErrorHandler(logger)),
			Logger:          &asynqLoggerAdapter{logger: logger},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskGenerateInsight, handleGenerateInsight(logger, db, generator))
	mux.HandleFunc(TaskInsightSweep, handleInsightSweep(logger, db, generator))

	logger.Info("Worker starting", "concurrency", 5, "redis", cfg.RedisURL)
	return srv, mux, nil
}

// handleGenerateInsight produces one insight. The generator is fully
// idempotent, so a retried task either finds the persisted insight or
// performs the first successful generation. Eligibility and
// insufficient-data outcomes are expected states, not failures to retry.
func handleGenerateInsight(logger *slog.Logger, db *gorm.DB, generator *insights.Generator) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload GenerateInsightPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			// Invalid payload - don't retry
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		var user models.User
		if err := db.WithContext(ctx).First(&user, payload.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Error("User not found", "user_id", payload.UserID)
				return fmt.Errorf("user not found: %w", asynq.SkipRetry)
			}
			// Database error - retryable
			return fmt.Errorf("failed to fetch user: %w", err)
		}

		logger.Info(
			"Processing insight:generate task",
			"user_id", payload.UserID,
			"type", payload.Type,
			"period_key", payload.PeriodKey,
		)

		_, err := generator.Generate(ctx, user, payload.Type, payload.PeriodKey)
		if err != nil {
			var ineligible *insights.IneligiblePeriodError
			switch {
			case errors.As(err, &ineligible):
				logger.Info("Skipping ineligible period",
					"user_id", payload.UserID,
					"period_key", payload.PeriodKey,
					"reason", ineligible.Reason,
				)
				return fmt.Errorf("period ineligible: %w", asynq.SkipRetry)
			case errors.Is(err, insights.ErrInsufficientData):
				logger.Info("No entries for period, skipping",
					"user_id", payload.UserID,
					"period_key", payload.PeriodKey,
				)
				return fmt.Errorf("insufficient data: %w", asynq.SkipRetry)
			default:
				// Timeout / upstream / database failures are retryable.
				return fmt.Errorf("insight generation failed: %w", err)
			}
		}

		logger.Info(
			"Insight generation completed",
			"user_id", payload.UserID,
			"period_key", payload.PeriodKey,
		)
		return nil
	}
}

// handleInsightSweep walks all users and enqueues generation for every
// currently-unlocked period that has no insight yet. The sweep itself does
// no generation; each (user, period) pair becomes its own retryable task.
func handleInsightSweep(logger *slog.Logger, db *gorm.DB, generator *insights.Generator) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		now := time.Now().UTC()

		var users []models.User
		if err := db.WithContext(ctx).Find(&users).Error; err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		enqueued := 0
		for _, user := range users {
			for _, t := range []period.Type{period.TypeWeekly, period.TypeMonthly} {
				p := period.Current(t, now)
				if insights.CheckEligibility(now, p).State != insights.StateUnlocked {
					continue
				}

				existing, err := generator.Get(ctx, user.ID, string(t), p.Key)
				if err != nil {
					logger.Error("Sweep lookup failed", "user_id", user.ID, "period_key", p.Key, "error", err.Error())
					continue
				}
				if existing != nil {
					continue
				}

				if err := EnqueueGenerateInsight(user.ID, string(t), p.Key); err != nil {
					logger.Error("Sweep enqueue failed", "user_id", user.ID, "period_key", p.Key, "error", err.Error())
					continue
				}
				enqueued++
			}
		}

		logger.Info("Insight sweep completed", "users", len(users), "enqueued", enqueued)
		return nil
	}
}

// makeErrorHandler creates an error handler function with logger closure.
func makeErrorHandler(logger *slog.Logger) func(context.Context, *asynq.Task, error) {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		logger.Error(
			"Task execution failed",
			"task_type", task.Type(),
			"error", err.Error(),
			"retry_count", retried,
			"max_retry", maxRetry,
		)

		// Check if this is the final failure (task will move to dead letter queue)
		if retried >= maxRetry {
			logger.Error(
				"Task moved to dead letter queue (all retries exhausted)",
				"task_type", task.Type(),
				"payload", string(task.Payload()),
			)
		}
	}
}
