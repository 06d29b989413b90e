package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"stanbrief/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the background task worker and daily scheduler",
	Long: `Run the standalone task worker. Consumes generation tasks from the
Redis queue and registers the daily cron schedule that regenerates every
active stan's briefing. Blocks until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.HasRedis() {
			return fmt.Errorf("worker requires Redis: set REDIS_URL or redis.url")
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		runner, err := newRunner(cmd.Context(), cfg, st)
		if err != nil {
			return err
		}

		stopScheduler, err := worker.StartScheduler(cfg)
		if err != nil {
			return err
		}
		defer stopScheduler()

		// Blocks until SIGINT/SIGTERM; asynq handles the signals itself.
		return worker.Run(cfg, st, runner)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
