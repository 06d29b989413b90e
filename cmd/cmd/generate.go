package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stanbrief/internal/core"
	"stanbrief/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate <stan-id-or-name>",
	Short: "Generate today's briefing for a single stan",
	Args:  cobra.ExactArgs(1),
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

		stan, err := findStan(ctx, st, args[0])
		if err != nil {
			return err
		}

		date := core.DateKey(time.Now())
		b, err := runner.GenerateAndStore(ctx, *stan, date)
		if err != nil {
			return err
		}

		quality := "parsed"
		if b.Degraded {
			quality = "degraded"
		}
		fmt.Printf("Generated briefing for %s (%s): %d topics, %d sources [%s]\n",
			stan.Name, date, len(b.Topics), len(b.SearchSources), quality)
		return nil
	},
}

// findStan resolves the argument as a stan ID first, then as a
// case-insensitive name match.
func findStan(ctx context.Context, st *store.Store, arg string) (*core.Stan, error) {
	stan, err := st.GetStan(ctx, arg)
	if err != nil {
		return nil, err
	}
	if stan != nil {
		return stan, nil
	}

	stans, err := st.ListStans(ctx)
	if err != nil {
		return nil, err
	}
	for i := range stans {
		if strings.EqualFold(stans[i].Name, arg) {
			return &stans[i], nil
		}
	}
	return nil, fmt.Errorf("no stan found matching %q", arg)
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
