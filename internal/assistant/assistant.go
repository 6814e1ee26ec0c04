// Package assistant runs one chat turn: classify the query, compose an answer
// and record both sides of the exchange in the session history.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/raqiba/Weather-ChatBot/internal/chat"
	"github.com/raqiba/Weather-ChatBot/internal/compose"
	"github.com/raqiba/Weather-ChatBot/internal/config"
	"github.com/raqiba/Weather-ChatBot/internal/format"
	"github.com/raqiba/Weather-ChatBot/internal/intent"
	"github.com/raqiba/Weather-ChatBot/internal/provider/llm"
	"github.com/raqiba/Weather-ChatBot/internal/provider/weather"
	"github.com/raqiba/Weather-ChatBot/internal/session"
)

// ErrEmptyQuery is returned for blank queries.
var ErrEmptyQuery = errors.New("assistant: query is empty")

// Classifier maps a query to an action descriptor.
type Classifier interface {
	Classify(ctx context.Context, query string, history []chat.Message) intent.Descriptor
}

// Composer answers a classified query.
type Composer interface {
	Compose(ctx context.Context, d intent.Descriptor, query string, history []chat.Message) compose.Response
}

// Reply is the outcome of one turn.
type Reply struct {
	Action   intent.Action
	Response compose.Response
	// Text is the rendered answer, as stored in the history.
	Text string
}

// Assistant is safe for concurrent use across sessions. Turns within one
// session are serialized.
type Assistant struct {
	classifier Classifier
	composer   Composer
	formatter  *format.Formatter
	sessions   *session.MemoryStore
	logger     *slog.Logger
}

// New wires an Assistant from its parts.
func New(classifier Classifier, composer Composer, formatter *format.Formatter, sessions *session.MemoryStore, logger *slog.Logger) *Assistant {
	if formatter == nil {
		formatter = format.New(nil)
	}
	return &Assistant{
		classifier: classifier,
		composer:   composer,
		formatter:  formatter,
		sessions:   sessions,
		logger:     logger,
	}
}

// Sessions returns the store the assistant records turns into.
func (a *Assistant) Sessions() *session.MemoryStore { return a.sessions }

// Ask answers query within the session id. The only errors are
// session.ErrNotFound and ErrEmptyQuery; backend failures become reply text.
func (a *Assistant) Ask(ctx context.Context, id uuid.UUID, query string) (Reply, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Reply{}, ErrEmptyQuery
	}

	release, err := a.sessions.Acquire(id)
	if err != nil {
		return Reply{}, err
	}
	defer release()

	if err := a.sessions.Append(id, chat.Message{Role: chat.RoleUser, Content: query}); err != nil {
		return Reply{}, err
	}
	history, err := a.sessions.History(id)
	if err != nil {
		return Reply{}, err
	}

	d := a.classifier.Classify(ctx, query, history)
	resp := a.composer.Compose(ctx, d, query, history)
	text := a.formatter.Render(resp)

	if err := a.sessions.Append(id, chat.Message{Role: chat.RoleAssistant, Content: text}); err != nil {
		return Reply{}, err
	}

	a.logger.Debug("turn complete", "session", id, "action", d.Action, "kind", resp.Kind)
	return Reply{Action: d.Action, Response: resp, Text: text}, nil
}

// FromConfig builds the LLM, weather client, classifier and composer that
// cfg describes, recording turns into sessions.
func FromConfig(ctx context.Context, cfg *config.Config, sessions *session.MemoryStore, logger *slog.Logger) (*Assistant, error) {
	model, err := llm.New(ctx, llm.Settings{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		Binary:   cfg.LLM.Binary,
		Endpoint: cfg.LLM.Endpoint,
		Timeout:  cfg.LLM.Timeout.Duration,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("assistant: %w", err)
	}

	opts := weather.Options{
		APIKey:  cfg.Weather.APIKey,
		BaseURL: cfg.Weather.BaseURL,
		Units:   cfg.Weather.Units,
		Timeout: cfg.Weather.Timeout.Duration,
		Logger:  logger,
	}
	if cb := cfg.Weather.CircuitBreaker; cb.Enabled {
		opts.Breaker = &weather.BreakerSettings{Failures: cb.Failures, Cooldown: cb.Cooldown.Duration}
	}
	wx, err := weather.New(cfg.Weather.Provider, opts)
	if err != nil {
		return nil, fmt.Errorf("assistant: %w", err)
	}

	composer := compose.New(wx, model, compose.Options{
		Strategy:      compose.Strategy(cfg.Composer.Mode),
		Units:         cfg.Weather.Units,
		NarrateWindow: cfg.Composer.NarrateWindow,
		GeneralWindow: cfg.Composer.GeneralWindow,
	}, logger)

	return New(intent.NewClassifier(model, logger), composer, format.New(cfg.Location()), sessions, logger), nil
}
