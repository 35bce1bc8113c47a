package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Completion models used when LLM_MODEL is not set, per provider.
const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// Config holds application configuration values loaded from environment variables.
// It is built once at startup and treated as immutable afterwards.
type Config struct {
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8000"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LLMProvider      string  `env:"LLM_PROVIDER" envDefault:"gemini"`
	LLMAPIKey        string  `env:"LLM_API_KEY"`
	GeminiAPIKey     string  `env:"GEMINI_API_KEY"`
	LLMModel         string  `env:"LLM_MODEL"`
	LLMBaseURL       string  `env:"LLM_BASE_URL"`
	ChatTemperature  float64 `env:"CHAT_TEMPERATURE" envDefault:"0.1"`
	TitleTemperature float64 `env:"TITLE_TEMPERATURE" envDefault:"0.7"`
	SystemPrompt     string  `env:"SYSTEM_PROMPT"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://digitalmufti.vercel.app,http://localhost:3000"`

	RedisURL    string        `env:"REDIS_URL"`
	ChatLockTTL time.Duration `env:"CHAT_LOCK_TTL" envDefault:"5m"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Not fatal: production deployments inject the environment directly.
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
	}
	return Parse()
}

// Parse builds a Config from the current process environment without touching .env files.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.LLMAPIKey = strings.TrimSpace(cfg.LLMAPIKey)
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)
	}
	cfg.GeminiAPIKey = ""
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.LLMModel = strings.TrimSpace(cfg.LLMModel)

	switch cfg.LLMProvider {
	case "gemini":
		if cfg.LLMModel == "" {
			cfg.LLMModel = DefaultModel
		}
	case "openai":
		if cfg.LLMModel == "" {
			cfg.LLMModel = DefaultOpenAIModel
		}
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}
	if cfg.ChatTemperature < 0 || cfg.TitleTemperature < 0 {
		return nil, fmt.Errorf("temperatures must not be negative")
	}

	return cfg, nil
}

// DatabaseEnabled reports whether a datastore connection string was configured.
func (c *Config) DatabaseEnabled() bool {
	return c.DatabaseURL != ""
}

// LLMEnabled reports whether a completion API key was configured.
func (c *Config) LLMEnabled() bool {
	return c.LLMAPIKey != ""
}
