package session

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"
)

// GenAIFactory adapts *genai.Client to the Factory interface.
type GenAIFactory struct {
	client *genai.Client
}

// NewGenAIFactory wraps a configured genai client.
func NewGenAIFactory(client *genai.Client) *GenAIFactory {
	return &GenAIFactory{client: client}
}

// NewSession creates a provider chat handle with the given configuration.
func (f *GenAIFactory) NewSession(ctx context.Context, model string, cfg *genai.GenerateContentConfig) (Streamer, error) {
	chat, err := f.client.Chats.Create(ctx, model, cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}
	return &genaiSession{chat: chat}, nil
}

// genaiSession wraps the SDK chat so the orchestrator depends on the
// narrow Streamer interface instead of the concrete SDK type.
type genaiSession struct {
	chat *genai.Chat
}

func (s *genaiSession) SendStream(ctx context.Context, parts ...genai.Part) iter.Seq2[*genai.GenerateContentResponse, error] {
	return s.chat.SendMessageStream(ctx, parts...)
}
