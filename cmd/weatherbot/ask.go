package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raqiba/Weather-ChatBot/internal/assistant"
	"github.com/raqiba/Weather-ChatBot/internal/config"
	"github.com/raqiba/Weather-ChatBot/internal/session"
)

func newAskCmd(logger *slog.Logger, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <query...>",
		Short: "Answer a single question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			a, err := buildAssistant(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			reply, err := a.Ask(cmd.Context(), a.Sessions().Create(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
			return nil
		},
	}
}

// buildAssistant wires an assistant with a fresh session store sized from cfg.
func buildAssistant(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*assistant.Assistant, error) {
	return assistant.FromConfig(ctx, cfg, session.NewMemoryStore(cfg.Session.MaxMessages), logger)
}
