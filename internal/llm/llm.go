// Package llm provides the generative-model backends used to interpret chat
// replies and phrase assistant messages.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrGenerationFailed wraps every backend failure.
var ErrGenerationFailed = errors.New("llm generation failed")

// ErrEmptyResponse is returned when a backend answers with no text.
var ErrEmptyResponse = errors.New("llm returned an empty response")

// Generator turns a prompt into model text. One call is one attempt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider names a backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
)

// Config selects and configures a backend.
type Config struct {
	Provider Provider
	Model    string
	BaseURL  string
	APIKey   string
	// Timeout bounds each HTTP call. Zero means no limit.
	Timeout time.Duration
}

// New builds the configured backend wrapped with request metrics.
func New(cfg Config, log *zap.Logger) (Generator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}

	provider := Provider(strings.ToLower(strings.TrimSpace(string(cfg.Provider))))
	if provider == "" {
		provider = ProviderGemini
	}

	var (
		gen Generator
		err error
	)
	switch provider {
	case ProviderGemini:
		gen, err = NewGemini(context.Background(), cfg.APIKey, cfg.Model, cfg.BaseURL, httpClient)
		if err != nil {
			return nil, err
		}
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, errors.New("openai: API key is required")
		}
		gen = NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL, httpClient)
	case ProviderOllama:
		gen, err = NewOllama(cfg.Model, cfg.BaseURL, httpClient)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}

	log.Info("LLM backend initialized",
		zap.String("provider", string(provider)),
		zap.String("model", ModelName(gen)),
		zap.Duration("timeout", cfg.Timeout),
	)
	return Instrument(gen, string(provider), ModelName(gen)), nil
}

type modeler interface {
	Model() string
}

// ModelName returns the model g talks to, or "" when unknown.
func ModelName(g Generator) string {
	if m, ok := g.(modeler); ok {
		return m.Model()
	}
	return ""
}
