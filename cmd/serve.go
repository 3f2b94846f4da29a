package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ilovegorakhpur/portal/api"
	"github.com/ilovegorakhpur/portal/internal/config"
	"github.com/ilovegorakhpur/portal/internal/news"
	"github.com/ilovegorakhpur/portal/internal/observability"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the portal HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Observability.Enabled {
		shutdown, err := observability.Setup(ctx, observability.Config{
			Endpoint:    cfg.Observability.Endpoint,
			ServiceName: cfg.Observability.ServiceName,
		})
		if err != nil {
			return fmt.Errorf("setting up tracing: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("trace shutdown error", "error", err)
			}
		}()
	}

	store := seededStore(logger)

	assistant, err := buildAssistant(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var reader api.NewsProvider
	if len(cfg.News.Sources) > 0 {
		reader = news.NewReader(cfg.News, logger.With("component", "news"))
	}

	server := api.NewServer(api.ServerConfig{
		Logger:    logger.With("component", "api"),
		Store:     store,
		Assistant: assistant,
		News:      reader,
	})

	logger.Info("portal ready", "version", AppVersion, "addr", addr)
	return server.Run(ctx, addr)
}
