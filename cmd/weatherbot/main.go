package main

import (
	"log/slog"
	"os"

	_ "time/tzdata"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := newRootCmd(logger, level).Execute(); err != nil {
		logger.Error("weatherbot failed", "error", err)
		os.Exit(1)
	}
}
