package cmd

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ilovegorakhpur/portal/internal/chat"
	"github.com/ilovegorakhpur/portal/internal/config"
	"github.com/ilovegorakhpur/portal/internal/log"
	"github.com/ilovegorakhpur/portal/internal/portal"
	"github.com/ilovegorakhpur/portal/internal/session"
)

// seededStore creates the dataset store with the portal's starter data.
func seededStore(logger log.Logger) *portal.Store {
	store := portal.NewStore(logger.With("component", "store"))
	store.Seed(time.Now())
	return store
}

// buildAssistant wires the provider client, session manager and
// orchestrator from configuration.
func buildAssistant(ctx context.Context, cfg *config.Config, logger log.Logger) (*chat.Orchestrator, error) {
	apiKey, err := config.APIKey()
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating provider client: %w", err)
	}

	sessions, err := session.NewManager(session.Config{
		Factory:           session.NewGenAIFactory(client),
		Logger:            logger.With("component", "sessions"),
		SystemInstruction: cfg.AI.SystemPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("creating session manager: %w", err)
	}

	orch, err := chat.New(chat.Config{
		Sessions:    sessions,
		Logger:      logger.With("component", "assistant"),
		Model:       cfg.AI.Model,
		RateLimiter: rate.NewLimiter(rate.Limit(cfg.AI.RateLimit), cfg.AI.RateBurst),
	})
	if err != nil {
		return nil, fmt.Errorf("creating orchestrator: %w", err)
	}
	return orch, nil
}
