package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        App        `mapstructure:"app"`
	AI         AI         `mapstructure:"ai"`
	Database   Database   `mapstructure:"database"`
	Redis      Redis      `mapstructure:"redis"`
	Server     Server     `mapstructure:"server"`
	Generation Generation `mapstructure:"generation"`
	Worker     Worker     `mapstructure:"worker"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// AI holds LLM provider configuration
type AI struct {
	DefaultProvider string           `mapstructure:"default_provider"`
	Gemini          GeminiConfig     `mapstructure:"gemini"`
	Perplexity      PerplexityConfig `mapstructure:"perplexity"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int32   `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
	Grounding   bool    `mapstructure:"grounding"`
}

// PerplexityConfig holds Perplexity configuration. Perplexity exposes an
// OpenAI-compatible chat completions API, so only key/model/base URL vary.
type PerplexityConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	MaxTokens   int64   `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// Database holds Postgres configuration
type Database struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// Redis holds cache/queue configuration. An empty URL disables both the
// briefing cache and the background worker.
type Redis struct {
	URL      string        `mapstructure:"url"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Server holds HTTP server configuration
type Server struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORS         CORS          `mapstructure:"cors"`
}

// CORS holds CORS configuration
type CORS struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Generation holds batch generation pacing configuration. The delays exist
// purely to stay under provider rate limits, not as a backoff algorithm.
type Generation struct {
	BatchSize      int           `mapstructure:"batch_size"`
	StanDelay      time.Duration `mapstructure:"stan_delay"`
	BatchPause     time.Duration `mapstructure:"batch_pause"`
	FallbackBudget int           `mapstructure:"fallback_budget"`
}

// Worker holds scheduled generation configuration
type Worker struct {
	Schedule    string `mapstructure:"schedule"`
	Timezone    string `mapstructure:"timezone"`
	Concurrency int    `mapstructure:"concurrency"`
}

// Load reads configuration from .env, environment variables, and an optional
// config file, in that order of increasing precedence for the file and
// decreasing for env vars (viper semantics: explicit file keys are defaults,
// env overrides them).
func Load(cfgFile string) (*Config, error) {
	// .env is optional; local development convenience only
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("stanbrief")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.stanbrief")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("STANBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Well-known credential variables outrank the prefixed scheme so the
	// usual GEMINI_API_KEY etc. work without renaming.
	bindCredentialEnv(v, "ai.gemini.api_key", "GEMINI_API_KEY", "GOOGLE_AI_API_KEY")
	bindCredentialEnv(v, "ai.perplexity.api_key", "PERPLEXITY_API_KEY")
	bindCredentialEnv(v, "database.url", "DATABASE_URL")
	bindCredentialEnv(v, "redis.url", "REDIS_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")

	v.SetDefault("ai.default_provider", "gemini")
	v.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	v.SetDefault("ai.gemini.max_tokens", 2000)
	v.SetDefault("ai.gemini.temperature", 0.7)
	v.SetDefault("ai.gemini.grounding", true)
	v.SetDefault("ai.perplexity.model", "sonar")
	v.SetDefault("ai.perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("ai.perplexity.max_tokens", 1200)
	v.SetDefault("ai.perplexity.temperature", 0.85)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.cache_ttl", 6*time.Hour)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.cors.enabled", true)
	v.SetDefault("server.cors.allowed_origins", []string{"*"})

	v.SetDefault("generation.batch_size", 5)
	v.SetDefault("generation.stan_delay", 1500*time.Millisecond)
	v.SetDefault("generation.batch_pause", time.Second)
	v.SetDefault("generation.fallback_budget", 200)

	v.SetDefault("worker.schedule", "0 6 * * *")
	v.SetDefault("worker.timezone", "UTC")
	v.SetDefault("worker.concurrency", 1)
}

func bindCredentialEnv(v *viper.Viper, key string, names ...string) {
	for _, name := range names {
		if val := os.Getenv(name); val != "" {
			v.Set(key, val)
			return
		}
	}
}

// HasDatabase reports whether persistence is configured. Checked once at
// startup instead of per call site.
func (c *Config) HasDatabase() bool { return c.Database.URL != "" }

// HasRedis reports whether the cache/worker backend is configured.
func (c *Config) HasRedis() bool { return c.Redis.URL != "" }

// Validate checks that the configuration required for generation is present.
func (c *Config) Validate() error {
	switch c.AI.DefaultProvider {
	case "gemini":
		if c.AI.Gemini.APIKey == "" {
			return fmt.Errorf("gemini API key is required: set GEMINI_API_KEY or ai.gemini.api_key")
		}
	case "perplexity":
		if c.AI.Perplexity.APIKey == "" {
			return fmt.Errorf("perplexity API key is required: set PERPLEXITY_API_KEY or ai.perplexity.api_key")
		}
	default:
		return fmt.Errorf("unknown provider %q: expected gemini or perplexity", c.AI.DefaultProvider)
	}
	return nil
}
