// Package cmd contains the portal's command-line interface.
//
// Commands:
//   - serve: run the HTTP API server (assistant, datasets, news)
//   - ask: run a single assistant turn and stream the answer to stdout
//   - mcp: expose the directory tools over MCP stdio
//   - version: show build information
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ilovegorakhpur/portal/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "iLoveGorakhpur community portal server",
	Long: `The iLoveGorakhpur portal: local events, services, marketplace and
bulletin board, with a streaming AI assistant grounded in the portal's
own datasets.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initLogger builds the process logger.
//
// Log level is controlled by the DEBUG environment variable. Logs go to
// stderr: the mcp command reserves stdout for JSON-RPC, and ask reserves
// it for the streamed answer.
func initLogger() log.Logger {
	cfg := log.Config{Level: slog.LevelInfo}
	if os.Getenv("DEBUG") != "" {
		cfg.Level = slog.LevelDebug
	}
	logger := log.NewWithWriter(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}
