package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ilovegorakhpur/portal/internal/chat"
	"github.com/ilovegorakhpur/portal/internal/config"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Run one assistant turn and stream the answer to stdout",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(_ *cobra.Command, args []string) error {
	logger := initLogger()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store := seededStore(logger)

	assistant, err := buildAssistant(ctx, cfg, logger)
	if err != nil {
		return err
	}

	in := chat.Input{
		Prompt:   strings.Join(args, " "),
		Snapshot: store.Snapshot(),
	}

	// Deltas carry the cumulative answer; print only what is new. A delta
	// that rewrites earlier text (an error replacing partial output) starts
	// a fresh line.
	var printed string
	for delta, err := range assistant.Stream(ctx, in) {
		if err != nil {
			return err
		}
		if rest, ok := strings.CutPrefix(delta.Text, printed); ok {
			fmt.Print(rest)
		} else {
			fmt.Print("\n" + delta.Text)
		}
		printed = delta.Text

		for _, c := range delta.Citations {
			fmt.Fprintf(os.Stderr, "source: %s (%s)\n", c.Title, c.URI)
		}
	}
	fmt.Println()
	return nil
}
