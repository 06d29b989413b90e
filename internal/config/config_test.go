package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.AI.DefaultProvider != "gemini" {
		t.Errorf("Expected default provider gemini, got %q", cfg.AI.DefaultProvider)
	}
	if cfg.AI.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("Expected default gemini model, got %q", cfg.AI.Gemini.Model)
	}
	if cfg.AI.Perplexity.BaseURL != "https://api.perplexity.ai" {
		t.Errorf("Expected perplexity base URL default, got %q", cfg.AI.Perplexity.BaseURL)
	}
	if cfg.Generation.BatchSize != 5 {
		t.Errorf("Expected batch size 5, got %d", cfg.Generation.BatchSize)
	}
	if cfg.Generation.StanDelay != 1500*time.Millisecond {
		t.Errorf("Expected 1.5s stan delay, got %v", cfg.Generation.StanDelay)
	}
	if cfg.Generation.BatchPause != time.Second {
		t.Errorf("Expected 1s batch pause, got %v", cfg.Generation.BatchPause)
	}
	if cfg.Worker.Schedule != "0 6 * * *" {
		t.Errorf("Expected daily 6am schedule, got %q", cfg.Worker.Schedule)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("STANBRIEF_SERVER_PORT", "9999")
	t.Setenv("STANBRIEF_AI_DEFAULT_PROVIDER", "perplexity")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Expected env override for port, got %d", cfg.Server.Port)
	}
	if cfg.AI.DefaultProvider != "perplexity" {
		t.Errorf("Expected env override for provider, got %q", cfg.AI.DefaultProvider)
	}
}

func TestCredentialEnvBinding(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.AI.Gemini.APIKey != "test-key" {
		t.Errorf("Expected GEMINI_API_KEY bound, got %q", cfg.AI.Gemini.APIKey)
	}
	if !cfg.HasDatabase() {
		t.Error("Expected database configured via DATABASE_URL")
	}
	if cfg.HasRedis() {
		t.Error("Expected redis unconfigured by default")
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "gemini with key",
			mutate: func(c *Config) { c.AI.Gemini.APIKey = "k" },
		},
		{
			name:    "gemini without key",
			mutate:  func(c *Config) {},
			wantErr: true,
		},
		{
			name: "perplexity with key",
			mutate: func(c *Config) {
				c.AI.DefaultProvider = "perplexity"
				c.AI.Perplexity.APIKey = "k"
			},
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.AI.DefaultProvider = "bard" },
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.AI.DefaultProvider = "gemini"
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
