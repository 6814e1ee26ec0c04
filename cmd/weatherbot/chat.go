package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raqiba/Weather-ChatBot/internal/assistant"
)

func newChatCmd(logger *slog.Logger, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat. Each line is one question; the assistant
keeps the conversation history for follow-ups.

Type /new to start over, or exit (or Ctrl-D) to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			a, err := buildAssistant(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return runChat(cmd.Context(), a, cmd.InOrStdin(), out, isTerminal(out))
		},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runChat reads one question per line from in until EOF or "exit".
func runChat(ctx context.Context, a *assistant.Assistant, in io.Reader, out io.Writer, tty bool) error {
	you := color.New(color.FgCyan, color.Bold)
	bot := color.New(color.FgGreen, color.Bold)
	dim := color.New(color.Faint)
	if tty {
		you.EnableColor()
		bot.EnableColor()
		dim.EnableColor()
	} else {
		you.DisableColor()
		bot.DisableColor()
		dim.DisableColor()
	}

	sessions := a.Sessions()
	id := sessions.Create()
	defer func() { _ = sessions.Delete(id) }()

	dim.Fprintln(out, "Ask about the weather. Type exit to quit.")

	scanner := bufio.NewScanner(in)
	for {
		you.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "/new":
			_ = sessions.Delete(id)
			id = sessions.Create()
			dim.Fprintln(out, "Started a new conversation.")
			continue
		}

		reply, err := a.Ask(ctx, id, line)
		if err != nil {
			return err
		}
		bot.Fprint(out, "bot> ")
		fmt.Fprintln(out, reply.Text)
	}
}
