/*
Copyright © 2025 Your Name

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stanbrief/internal/briefing"
	"stanbrief/internal/cache"
	"stanbrief/internal/config"
	"stanbrief/internal/llm"
	"stanbrief/internal/store"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stanbrief",
	Short: "Stanbrief generates daily AI briefings for the celebrities, teams, and artists you follow.",
	Long: `Stanbrief is the backend for a fan-content aggregation service. It
generates daily briefings for "stans" (followed celebrities, teams, games)
using web-grounded LLM calls, recovers structured content from imperfect
model output, and serves everything over an HTTP API.

Run "stanbrief serve" to start the API server, "stanbrief batch" for a
one-off generation run, or "stanbrief worker" for the scheduled daily runs.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./stanbrief.yaml)")
}

// loadConfig reads configuration for a subcommand run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newProvider builds the configured LLM provider.
func newProvider(ctx context.Context, cfg *config.Config) (llm.Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.AI.DefaultProvider {
	case "perplexity":
		return llm.NewPerplexityClient(cfg.AI.Perplexity)
	default:
		return llm.NewGeminiClient(ctx, cfg.AI.Gemini)
	}
}

// newRunner wires the generation pipeline: provider, generator, store, pacing.
func newRunner(ctx context.Context, cfg *config.Config, st *store.Store) (*briefing.BatchRunner, error) {
	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	settings := briefing.Settings{
		Grounding:      cfg.AI.Gemini.Grounding,
		FallbackBudget: cfg.Generation.FallbackBudget,
	}
	if cfg.AI.DefaultProvider == "perplexity" {
		settings.Temperature = float32(cfg.AI.Perplexity.Temperature)
		settings.MaxTokens = int32(cfg.AI.Perplexity.MaxTokens)
		settings.Grounding = false
	} else {
		settings.Temperature = cfg.AI.Gemini.Temperature
		settings.MaxTokens = cfg.AI.Gemini.MaxTokens
	}

	generator := briefing.NewGenerator(provider, settings)
	pacing := briefing.Pacing{
		BatchSize:  cfg.Generation.BatchSize,
		StanDelay:  cfg.Generation.StanDelay,
		BatchPause: cfg.Generation.BatchPause,
	}
	return briefing.NewBatchRunner(generator, st, st, pacing), nil
}

// openStore connects to Postgres and ensures the schema exists.
func openStore(cfg *config.Config) (*store.Store, error) {
	if !cfg.HasDatabase() {
		return nil, fmt.Errorf("database is not configured: set DATABASE_URL or database.url")
	}
	return store.NewStore(cfg.Database)
}

// openCache connects to Redis if configured; otherwise returns a disabled cache.
func openCache(cfg *config.Config) (*cache.Cache, error) {
	return cache.New(cfg.Redis.URL, cfg.Redis.CacheTTL)
}
