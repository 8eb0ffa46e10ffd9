package worker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TaskGenerateInsight = "insight:generate"
	TaskInsightSweep    = "insight:sweep"
)

// GenerateInsightPayload is the payload of an insight:generate task.
type GenerateInsightPayload struct {
	UserID    uint   `json:"user_id"`
	Type      string `json:"type"`
	PeriodKey string `json:"period_key"`
}

// Package-level Asynq client (singleton)
var client *asynq.Client

// InitClient initializes the global Asynq client for task enqueueing.
// Must be called before any EnqueueX functions.
func InitClient(redisURL string) error {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return err
	}

	client = asynq.NewClient(opt)
	return nil
}

// CloseClient closes the Asynq client connection gracefully.
func CloseClient() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// EnqueueGenerateInsight enqueues insight generation for one (user, period).
// Uniqueness over an hour keeps a double-click or a sweep overlap from
// queueing duplicate work; the store's create-if-absent guarantees at most
// one insight regardless.
func EnqueueGenerateInsight(userID uint, insightType, periodKey string) error {
	payload, err := json.Marshal(GenerateInsightPayload{
		UserID:    userID,
		Type:      insightType,
		PeriodKey: periodKey,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(
		TaskGenerateInsight,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
		asynq.Retention(24*time.Hour),
		asynq.Unique(time.Hour),
	)

	_, err = client.Enqueue(task)
	if err != nil && err != asynq.ErrDuplicateTask {
		return fmt.Errorf("failed to enqueue insight generation: %w", err)
	}
	return nil
}
