package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/raqiba/Weather-ChatBot/internal/provider"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// generator is the subset of *genai.Models used here; overridable for testing.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini implements provider.LLM on the Gemini API.
type Gemini struct {
	Model   string
	Timeout time.Duration
	Logger  *slog.Logger

	models generator
}

var _ provider.LLM = (*Gemini)(nil)

// NewGemini creates a Gemini API client authenticated with apiKey.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration, logger *slog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{
		Model:   model,
		Timeout: timeout,
		Logger:  logger,
		models:  client.Models,
	}, nil
}

// Generate sends one prompt and returns the response text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	g.Logger.Debug("calling gemini api", "model", g.Model, "prompt_bytes", len(prompt))

	resp, err := g.models.GenerateContent(ctx, g.Model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	if text := resp.Text(); text != "" {
		return text, nil
	}

	// No text parts (blocked or tool-only candidates): hand back the response itself.
	raw, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("gemini: empty response: %w", err)
	}
	g.Logger.Warn("gemini returned no text parts", "model", g.Model)
	return string(raw), nil
}
