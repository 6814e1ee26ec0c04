package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsOnChange(t *testing.T) {
	clearKeys(t)
	path := writeConfig(t, "llm:\n  provider: gemini-cli\nweather:\n  api_key: w\n  units: metric\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, slog.New(slog.NewTextHandler(io.Discard, nil)), func(c *Config) { changes <- c })
	}()

	// Give the watcher time to register before editing.
	time.Sleep(100 * time.Millisecond)

	// An invalid edit is skipped.
	require.NoError(t, os.WriteFile(path, []byte("composer:\n  mode: poetic\n"), 0o644))
	time.Sleep(400 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: gemini-cli\nweather:\n  api_key: w\n  units: imperial\n"), 0o644))

	select {
	case cfg := <-changes:
		assert.Equal(t, "imperial", cfg.Weather.Units)
	case <-time.After(5 * time.Second):
		t.Fatal("expected a reload")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), "/definitely/not/here/weatherbot.yaml", slog.New(slog.NewTextHandler(io.Discard, nil)), func(*Config) {})
	assert.Error(t, err)
}
