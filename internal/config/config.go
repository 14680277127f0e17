// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ashureev/avika/internal/llm"
	"github.com/ashureev/avika/internal/logger"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrMissingCredential is returned when the selected model provider has no API key.
var ErrMissingCredential = errors.New("missing model credential")

// Config holds all application configuration.
type Config struct {
	Server          ServerConfig
	LLM             LLMConfig
	Dialogue        DialogueConfig
	Session         SessionConfig
	Log             LogConfig
	ConversationLog ConversationLogConfig
	MetricsEnabled  bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port               string        `envconfig:"PORT" default:"8080"`
	FrontendURL        string        `envconfig:"FRONTEND_URL"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	RateLimitRequests  int           `envconfig:"RATE_LIMIT_REQUESTS" default:"20"`
	RateLimitWindow    time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
	MaxRequestBodySize int64         `envconfig:"MAX_REQUEST_BODY_SIZE" default:"1048576"`
}

// LLMConfig selects and configures the generative model backend.
type LLMConfig struct {
	Provider     llm.Provider  `envconfig:"LLM_PROVIDER" default:"gemini"`
	Model        string        `envconfig:"LLM_MODEL"`
	BaseURL      string        `envconfig:"LLM_BASE_URL"`
	GoogleAPIKey string        `envconfig:"GOOGLE_API_KEY"`
	OpenAIAPIKey string        `envconfig:"OPENAI_API_KEY"`
	Timeout      time.Duration `envconfig:"LLM_TIMEOUT" default:"0s"`
}

// DialogueConfig tunes turn handling.
type DialogueConfig struct {
	PreserveFollowUp bool `envconfig:"PRESERVE_FOLLOWUP" default:"false"`
}

// SessionConfig controls the in-memory session registry.
type SessionConfig struct {
	TTL             time.Duration `envconfig:"SESSION_TTL" default:"60m"`
	CleanupInterval time.Duration `envconfig:"SESSION_CLEANUP_INTERVAL" default:"10m"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level    string `envconfig:"LOG_LEVEL" default:"info"`
	Encoding string `envconfig:"LOG_ENCODING" default:"json"`
	FilePath string `envconfig:"LOG_FILE_PATH"`
}

// ConversationLogConfig controls JSON conversation logging.
type ConversationLogConfig struct {
	Enabled   bool   `envconfig:"CONVERSATION_LOG_ENABLED" default:"false"`
	Dir       string `envconfig:"CONVERSATION_LOG_DIR" default:"./data/logs/conversations"`
	QueueSize int    `envconfig:"CONVERSATION_LOG_QUEUE_SIZE" default:"1000"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from environment variables only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	cfg.LLM.Provider = llm.Provider(strings.ToLower(strings.TrimSpace(string(cfg.LLM.Provider))))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = llm.ProviderGemini
	}
	switch c.LLM.Provider {
	case llm.ProviderGemini:
		if c.LLM.GoogleAPIKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for provider gemini: %w", ErrMissingCredential)
		}
	case llm.ProviderOpenAI:
		if c.LLM.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for provider openai: %w", ErrMissingCredential)
		}
	case llm.ProviderOllama:
	default:
		return fmt.Errorf("LLM_PROVIDER %q is not supported", c.LLM.Provider)
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("LLM_TIMEOUT must be >= 0")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.Server.RateLimitRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be > 0")
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be > 0")
	}
	if c.Server.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0")
	}
	if c.ConversationLog.Enabled && c.ConversationLog.Dir == "" {
		return fmt.Errorf("CONVERSATION_LOG_DIR cannot be empty")
	}
	if c.ConversationLog.QueueSize <= 0 {
		return fmt.Errorf("CONVERSATION_LOG_QUEUE_SIZE must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.FrontendURL == "" ||
		strings.Contains(c.Server.FrontendURL, "localhost") ||
		strings.Contains(c.Server.FrontendURL, "127.0.0.1")
}

// Model returns the backend settings for llm.New.
func (c *Config) Model() llm.Config {
	key := c.LLM.GoogleAPIKey
	if c.LLM.Provider == llm.ProviderOpenAI {
		key = c.LLM.OpenAIAPIKey
	}
	return llm.Config{
		Provider: c.LLM.Provider,
		Model:    c.LLM.Model,
		BaseURL:  c.LLM.BaseURL,
		APIKey:   key,
		Timeout:  c.LLM.Timeout,
	}
}

// Logger returns the settings for logger.New.
func (c *Config) Logger() logger.Config {
	return logger.Config{
		Level:    c.Log.Level,
		Encoding: c.Log.Encoding,
		FilePath: c.Log.FilePath,
	}
}
