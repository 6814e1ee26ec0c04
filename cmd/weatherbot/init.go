package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

const starterConfig = `# weatherbot configuration. Variable references are expanded from the
# environment, and .env files are loaded before this file is read.

llm:
  provider: gemini            # gemini, gemini-cli or ask
  api_key: ${GEMINI_API_KEY}
  model: gemini-2.5-flash
  # timeout: 30s

weather:
  provider: openweathermap    # openweathermap or tomorrow
  api_key: ${WEATHER_API_KEY}
  units: metric               # metric, imperial or standard
  timeout: 10s
  circuit_breaker:
    enabled: false
    failures: 5
    cooldown: 30s

composer:
  mode: structured            # structured or narrated
  narrate_window: 3
  general_window: 5
  # timezone: Europe/Paris

session:
  max_messages: 100

server:
  addr: ":8080"
`

func newInitCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter weatherbot.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.configPath
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("checking %s: %w", path, err)
			}

			if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
