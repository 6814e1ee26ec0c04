package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/raqiba/Weather-ChatBot/internal/chat"
	"github.com/raqiba/Weather-ChatBot/internal/provider"
)

// Classifier maps a free-text query to a Descriptor with one LLM call.
type Classifier struct {
	llm    provider.LLM
	logger *slog.Logger
}

// NewClassifier returns a Classifier backed by llm.
func NewClassifier(llm provider.LLM, logger *slog.Logger) *Classifier {
	return &Classifier{llm: llm, logger: logger}
}

// Classify never fails: transport and decode errors yield Default().
// The history is accepted but not sent to the model.
func (c *Classifier) Classify(ctx context.Context, query string, _ []chat.Message) Descriptor {
	text, err := c.llm.Generate(ctx, BuildPrompt(query))
	if err != nil {
		c.logger.Warn("intent classification failed, using general action", "error", err)
		return Default()
	}

	d, err := Decode(Sanitize(text))
	if err != nil {
		c.logger.Warn("could not parse action from model reply, using general action", "error", err)
		return Default()
	}

	c.logger.Debug("classified query", "action", d.Action, "params", d.Params)
	return d
}

// Sanitize strips markdown code fences and surrounding prose from a model reply.
func Sanitize(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(s[3:])
		if strings.HasPrefix(s, "json") {
			s = strings.TrimSpace(s[4:])
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(s[:len(s)-3])
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start != -1 && end > start {
		s = s[start : end+1]
	}
	return s
}

// Decode parses a sanitized reply. The top level must be a JSON object and
// "parameters", when present, must be an object. An unknown or missing action
// becomes general with its parameters kept.
func Decode(s string) (Descriptor, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if raw == nil {
		return Descriptor{}, fmt.Errorf("%w: reply is not an object", ErrDecode)
	}

	d := Default()

	if p, ok := raw["parameters"]; ok && string(p) != "null" {
		var params map[string]any
		if err := json.Unmarshal(p, &params); err != nil {
			return Descriptor{}, fmt.Errorf("%w: parameters must be an object", ErrDecode)
		}
		if params != nil {
			d.Params = params
		}
	}

	var action string
	if a, ok := raw["action"]; ok {
		// A non-string action is treated like an unknown one.
		_ = json.Unmarshal(a, &action)
	}
	if act := Action(action); act.valid() {
		d.Action = act
	}

	return d, nil
}
