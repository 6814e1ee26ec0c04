package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/raqiba/Weather-ChatBot/internal/config"
)

const defaultConfigPath = "weatherbot.yaml"

type globalFlags struct {
	configPath string
	verbose    bool
}

// loadConfig reads the config file. An explicit --config must exist; the
// default path may be absent, in which case the environment is used.
func (f *globalFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(f.configPath)
	} else {
		cfg, err = config.LoadOrEnv(f.configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "weatherbot",
		Short:         "Answer weather questions in plain language",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.verbose {
				level.Set(slog.LevelDebug)
			}
			return config.LoadEnvFiles()
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", defaultConfigPath, "path to the config file")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newAskCmd(logger, flags),
		newChatCmd(logger, flags),
		newServeCmd(logger, flags),
		newInitCmd(flags),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the weatherbot version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "weatherbot %s\n", version)
		},
	}
}
