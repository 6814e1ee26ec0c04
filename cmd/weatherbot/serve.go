package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raqiba/Weather-ChatBot/internal/assistant"
	"github.com/raqiba/Weather-ChatBot/internal/config"
	"github.com/raqiba/Weather-ChatBot/internal/server"
	"github.com/raqiba/Weather-ChatBot/internal/session"
)

func newServeCmd(logger *slog.Logger, flags *globalFlags) *cobra.Command {
	var addr string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Sessions outlive config reloads.
			sessions := session.NewMemoryStore(cfg.Session.MaxMessages)
			a, err := assistant.FromConfig(ctx, cfg, sessions, logger)
			if err != nil {
				return err
			}

			srv, err := server.New(addr, version, a, logger)
			if err != nil {
				return err
			}

			if watch {
				go func() {
					err := config.Watch(ctx, flags.configPath, logger, func(next *config.Config) {
						a, err := assistant.FromConfig(ctx, next, sessions, logger)
						if err != nil {
							logger.Warn("keeping previous assistant", "error", err)
							return
						}
						srv.Swap(a)
					})
					if err != nil {
						logger.Error("config watch stopped", "error", err)
					}
				}()
			}

			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, then :8080)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the config file when it changes")

	return cmd
}
