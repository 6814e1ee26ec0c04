package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/raqiba/Weather-ChatBot/internal/provider"
)

// GeminiCLI implements provider.LLM by shelling out to the gemini CLI in
// non-interactive mode.
type GeminiCLI struct {
	Binary  string
	Model   string
	Timeout time.Duration
	Logger  *slog.Logger

	// overridable for testing
	commandContext func(ctx context.Context, name string, args ...string) *exec.Cmd
	lookPath       func(file string) (string, error)
}

var _ provider.LLM = (*GeminiCLI)(nil)

// NewGeminiCLI creates a CLI-backed LLM. An empty binary means "gemini".
func NewGeminiCLI(binary, model string, timeout time.Duration, logger *slog.Logger) *GeminiCLI {
	if binary == "" {
		binary = "gemini"
	}
	return &GeminiCLI{
		Binary:         binary,
		Model:          model,
		Timeout:        timeout,
		Logger:         logger,
		commandContext: exec.CommandContext,
		lookPath:       exec.LookPath,
	}
}

type cliResponse struct {
	Response string `json:"response"`
}

func (g *GeminiCLI) Generate(ctx context.Context, prompt string) (string, error) {
	if _, err := g.lookPath(g.Binary); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoGemini, g.Binary)
	}

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	args := []string{"-p", prompt, "--output-format", "json"}
	if g.Model != "" {
		args = append(args, "-m", g.Model)
	}

	g.Logger.Debug("running gemini cli", "binary", g.Binary, "timeout", g.Timeout)

	cmd := g.commandContext(ctx, g.Binary, args...)
	out, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("gemini cli: timed out after %s", g.Timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("gemini cli: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("gemini cli: %w", err)
	}

	return parseCLIOutput(out), nil
}

// parseCLIOutput extracts the response field of the JSON envelope, falling
// back to the trimmed raw output.
func parseCLIOutput(out []byte) string {
	trimmed := strings.TrimSpace(string(out))

	var env cliResponse
	if err := json.Unmarshal([]byte(trimmed), &env); err == nil && env.Response != "" {
		return env.Response
	}
	return trimmed
}
