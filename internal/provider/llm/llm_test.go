package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeModels struct {
	gotModel  string
	gotPrompt string
	resp      *genai.GenerateContentResponse
	err       error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.gotPrompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(s string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: s}}},
		}},
	}
}

func TestGemini_Generate(t *testing.T) {
	fake := &fakeModels{resp: textResponse("It is sunny.")}
	g := &Gemini{Model: DefaultModel, Logger: testLogger(), models: fake}

	out, err := g.Generate(context.Background(), "weather in Paris?")
	require.NoError(t, err)
	assert.Equal(t, "It is sunny.", out)
	assert.Equal(t, "gemini-2.5-flash", fake.gotModel)
	assert.Equal(t, "weather in Paris?", fake.gotPrompt)
}

func TestGemini_Generate_Error(t *testing.T) {
	fake := &fakeModels{err: errors.New("quota exceeded")}
	g := &Gemini{Model: DefaultModel, Logger: testLogger(), models: fake}

	_, err := g.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGemini_Generate_NoTextParts(t *testing.T) {
	fake := &fakeModels{resp: &genai.GenerateContentResponse{ModelVersion: "v-test"}}
	g := &Gemini{Model: DefaultModel, Logger: testLogger(), models: fake}

	out, err := g.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
	assert.Contains(t, out, "v-test")
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "", time.Second, testLogger())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

// stubCLI returns a commandContext that records the invocation and runs a
// shell snippet in its place.
func stubCLI(script string, gotArgs *[]string) func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if gotArgs != nil {
			*gotArgs = append([]string{name}, args...)
		}
		return exec.CommandContext(ctx, "sh", "-c", script)
	}
}

func foundBinary(file string) (string, error) { return "/usr/bin/" + file, nil }

func TestGeminiCLI_ParsesJSONEnvelope(t *testing.T) {
	var args []string
	g := NewGeminiCLI("", "gemini-2.5-pro", time.Minute, testLogger())
	g.lookPath = foundBinary
	g.commandContext = stubCLI(`echo '{"response":"Rain later today."}'`, &args)

	out, err := g.Generate(context.Background(), "forecast please")
	require.NoError(t, err)
	assert.Equal(t, "Rain later today.", out)
	assert.Equal(t, []string{"gemini", "-p", "forecast please", "--output-format", "json", "-m", "gemini-2.5-pro"}, args)
}

func TestGeminiCLI_FallsBackToRawOutput(t *testing.T) {
	g := NewGeminiCLI("", "", time.Minute, testLogger())
	g.lookPath = foundBinary
	g.commandContext = stubCLI(`echo '  plain text answer  '`, nil)

	out, err := g.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "plain text answer", out)
}

func TestGeminiCLI_NonZeroExit(t *testing.T) {
	g := NewGeminiCLI("", "", time.Minute, testLogger())
	g.lookPath = foundBinary
	g.commandContext = stubCLI(`echo 'auth required' >&2; exit 3`, nil)

	_, err := g.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth required")
}

func TestGeminiCLI_Timeout(t *testing.T) {
	g := NewGeminiCLI("", "", 50*time.Millisecond, testLogger())
	g.lookPath = foundBinary
	g.commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sleep", "60")
	}

	_, err := g.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestGeminiCLI_MissingBinary(t *testing.T) {
	g := NewGeminiCLI("gemini-does-not-exist", "", time.Minute, testLogger())
	g.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	g.commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		t.Fatal("command should not run")
		return nil
	}

	_, err := g.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrNoGemini)
}

func TestAskClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ask", r.URL.Path)

		var req askRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		fmt.Fprintf(w, `{"answer":"echo: %s"}`, req.Question)
	}))
	defer srv.Close()

	c := NewAskClient(srv.URL+"/", time.Second)
	out, err := c.Generate(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "echo: ping", out)
}

func TestAskClient_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewAskClient(srv.URL, time.Second).Generate(context.Background(), "ping")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	l, err := New(ctx, Settings{Provider: "gemini-cli"}, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &GeminiCLI{}, l)

	l, err = New(ctx, Settings{Provider: "ask", Endpoint: "http://localhost:8000"}, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &AskClient{}, l)

	_, err = New(ctx, Settings{Provider: "ask"}, testLogger())
	assert.Error(t, err)

	_, err = New(ctx, Settings{Provider: "gemini"}, testLogger())
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = New(ctx, Settings{Provider: "gpt"}, testLogger())
	assert.ErrorContains(t, err, `unknown provider "gpt"`)
}
