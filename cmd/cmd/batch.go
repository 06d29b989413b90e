package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate today's briefings for every active stan",
	Long: `Run one batch generation pass: every active stan gets a fresh
briefing for today, paced to stay under provider rate limits. Stans that
fail are reported but do not abort the run.`,
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

		ctx := cmd.Context()
		runner, err := newRunner(ctx, cfg, st)
		if err != nil {
			return err
		}

		report, err := runner.Run(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Generated %d/%d briefings for %s\n", len(report.Generated), report.Total, report.Date)
		for _, e := range report.Errors {
			fmt.Printf("  failed: %s: %s\n", e.Stan, e.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
