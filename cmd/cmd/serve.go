package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"stanbrief/internal/logger"
	"stanbrief/internal/server"
	"stanbrief/internal/worker"
)

var serveEmbedWorker bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the stanbrief HTTP API server. Serves stan management,
daily briefing reads, on-demand generation, and prompt customization.

With --worker, the background task worker and daily scheduler run embedded
in the same process (requires Redis).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ca, err := openCache(cfg)
		if err != nil {
			return err
		}
		defer ca.Close()

		ctx := cmd.Context()
		runner, err := newRunner(ctx, cfg, st)
		if err != nil {
			return err
		}

		// The enqueue client backs the async batch endpoint; it is useful
		// even when the worker runs in a separate process.
		if cfg.HasRedis() {
			if err := worker.InitClient(cfg.Redis.URL); err != nil {
				return err
			}
			defer worker.CloseClient()
		}

		if serveEmbedWorker {
			if !cfg.HasRedis() {
				return fmt.Errorf("--worker requires Redis: set REDIS_URL or redis.url")
			}
			stopWorker, err := worker.Start(cfg, st, runner)
			if err != nil {
				return err
			}
			defer stopWorker()

			stopScheduler, err := worker.StartScheduler(cfg)
			if err != nil {
				return err
			}
			defer stopScheduler()
		}

		srv := server.New(st, ca, runner, cfg.Server)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			logger.Info("Received shutdown signal", "signal", sig.String())
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveEmbedWorker, "worker", false, "run the task worker and scheduler in-process")
	rootCmd.AddCommand(serveCmd)
}
