package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"stanbrief/internal/briefing"
	"stanbrief/internal/config"
	"stanbrief/internal/core"
	"stanbrief/internal/logger"
	"stanbrief/internal/store"
)

// asynqLoggerAdapter wraps slog.Logger to implement asynq.Logger interface
type asynqLoggerAdapter struct {
	logger *slog.Logger
}

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

// Run starts the Asynq worker server and blocks until a shutdown signal.
func Run(cfg *config.Config, st *store.Store, runner *briefing.BatchRunner) error {
	srv, mux, err := newServer(cfg, st, runner)
	if err != nil {
		return err
	}
	return srv.Run(mux)
}

// Start starts the Asynq worker in non-blocking mode and returns a stop
// function so the caller can coordinate shutdown with the HTTP server.
func Start(cfg *config.Config, st *store.Store, runner *briefing.BatchRunner) (stop func(), err error) {
	srv, mux, err := newServer(cfg, st, runner)
	if err != nil {
		return nil, err
	}
	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start worker: %w", err)
	}
	return func() { srv.Shutdown() }, nil
}

func newServer(cfg *config.Config, st *store.Store, runner *briefing.BatchRunner) (*asynq.Server, *asynq.ServeMux, error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	log := logger.Get()

	concurrency := cfg.Worker.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     concurrency,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler:    asynq.ErrorHandlerFunc(makeErrorHandler(log)),
			Logger:          &asynqLoggerAdapter{logger: log},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskGenerateAll, handleGenerateAll(log, runner))
	mux.HandleFunc(TaskGenerateOne, handleGenerateOne(log, st, runner))

	log.Info("Worker starting", "concurrency", concurrency)
	return srv, mux, nil
}

// handleGenerateAll runs a full batch generation over every active stan.
// Per-stan failures are recorded in the report, not retried; only a failure
// to run the batch at all (e.g. database down) is retryable.
func handleGenerateAll(log *slog.Logger, runner *briefing.BatchRunner) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		log.Info("Processing briefing:generate_all task")

		report, err := runner.Run(ctx)
		if err != nil {
			return fmt.Errorf("batch generation failed: %w", err)
		}

		log.Info("Scheduled batch generation completed",
			"date", report.Date,
			"generated", len(report.Generated),
			"total", report.Total,
			"errors", len(report.Errors),
		)
		return nil
	}
}

// handleGenerateOne regenerates the briefing for a single stan.
func handleGenerateOne(log *slog.Logger, st *store.Store, runner *briefing.BatchRunner) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload struct {
			StanID string `json:"stan_id"`
		}
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		stan, err := st.GetStan(ctx, payload.StanID)
		if err != nil {
			return fmt.Errorf("failed to fetch stan: %w", err)
		}
		if stan == nil {
			log.Error("Stan not found", "stan_id", payload.StanID)
			return fmt.Errorf("stan not found: %w", asynq.SkipRetry)
		}

		log.Info("Processing briefing:generate task", "stan", stan.Name)

		date := core.DateKey(time.Now())
		if _, err := runner.GenerateAndStore(ctx, *stan, date); err != nil {
			return fmt.Errorf("generation failed for %s: %w", stan.Name, err)
		}
		return nil
	}
}

// makeErrorHandler creates an error handler function with logger closure.
func makeErrorHandler(log *slog.Logger) func(context.Context, *asynq.Task, error) {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		log.Error(
			"Task execution failed",
			"task_type", task.Type(),
			"error", err.Error(),
			"retry_count", retried,
			"max_retry", maxRetry,
		)

		if retried >= maxRetry {
			log.Error(
				"Task moved to dead letter queue (all retries exhausted)",
				"task_type", task.Type(),
				"payload", string(task.Payload()),
			)
		}
	}
}
