// Package llm provides provider.LLM implementations.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/raqiba/Weather-ChatBot/internal/provider"
)

var (
	// ErrNoGemini is returned when the gemini CLI binary cannot be found.
	ErrNoGemini = errors.New("gemini CLI not found in PATH")

	// ErrMissingAPIKey is returned when the Gemini API backend has no key.
	ErrMissingAPIKey = errors.New("gemini api key is required")
)

// Settings selects and configures an LLM backend.
type Settings struct {
	Provider string // gemini, gemini-cli or ask
	APIKey   string
	Model    string
	Binary   string
	Endpoint string
	Timeout  time.Duration
}

// New builds the backend named by s.Provider.
func New(ctx context.Context, s Settings, logger *slog.Logger) (provider.LLM, error) {
	switch s.Provider {
	case "", "gemini":
		return NewGemini(ctx, s.APIKey, s.Model, s.Timeout, logger)
	case "gemini-cli":
		return NewGeminiCLI(s.Binary, s.Model, s.Timeout, logger), nil
	case "ask":
		if s.Endpoint == "" {
			return nil, fmt.Errorf("llm: ask provider requires an endpoint")
		}
		return NewAskClient(s.Endpoint, s.Timeout), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", s.Provider)
	}
}
