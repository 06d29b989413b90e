package worker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TaskGenerateAll = "briefing:generate_all"
	TaskGenerateOne = "briefing:generate"
)

// Package-level Asynq client (singleton)
var client *asynq.Client

// InitClient initializes the global Asynq client for task enqueueing.
// Must be called before any EnqueueX functions.
func InitClient(redisURL string) error {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client = asynq.NewClient(opt)
	return nil
}

// ClientEnabled reports whether the enqueue client has been initialized.
func ClientEnabled() bool { return client != nil }

// CloseClient closes the Asynq client connection gracefully.
func CloseClient() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// EnqueueGenerateAll enqueues a full batch generation run.
func EnqueueGenerateAll() error {
	task := asynq.NewTask(
		TaskGenerateAll,
		nil,
		asynq.MaxRetry(2),
		asynq.Timeout(30*time.Minute),
		asynq.Retention(24*time.Hour),
		asynq.Unique(time.Hour),
	)
	_, err := client.Enqueue(task)
	return err
}

// EnqueueGenerateOne enqueues generation for a single stan.
func EnqueueGenerateOne(stanID string) error {
	payload, err := json.Marshal(map[string]string{"stan_id": stanID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(
		TaskGenerateOne,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
		asynq.Retention(24*time.Hour),
	)
	_, err = client.Enqueue(task)
	return err
}
