package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash-preview-05-20"

// GeminiModel describes a model returned by ListModels.
type GeminiModel struct {
	Name             string
	DisplayName      string
	Description      string
	InputTokenLimit  int
	OutputTokenLimit int
	SupportedActions []string
}

// Gemini talks to the Gemini API through the genai SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini returns a Gemini backend. Empty model and baseURL use defaults.
func NewGemini(ctx context.Context, apiKey, model, baseURL string, httpClient *http.Client) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{
		client: client,
		model:  strings.TrimPrefix(model, "models/"),
	}, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string { return g.model }

// Generate sends prompt as a single user turn.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if res.PromptFeedback != nil && res.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked: %s", ErrGenerationFailed, res.PromptFeedback.BlockReason)
	}
	if len(res.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// ListModels returns every model visible to the API key.
func (g *Gemini) ListModels(ctx context.Context) ([]GeminiModel, error) {
	page, err := g.client.Models.List(ctx, &genai.ListModelsConfig{PageSize: 100})
	var models []GeminiModel
	for {
		if errors.Is(err, genai.ErrPageDone) {
			return models, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list models: %w", err)
		}
		for _, m := range page.Items {
			models = append(models, GeminiModel{
				Name:             m.Name,
				DisplayName:      m.DisplayName,
				Description:      m.Description,
				InputTokenLimit:  int(m.InputTokenLimit),
				OutputTokenLimit: int(m.OutputTokenLimit),
				SupportedActions: m.SupportedActions,
			})
		}
		if page.NextPageToken == "" {
			return models, nil
		}
		page, err = page.Next(ctx)
	}
}
