package session

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"

	"github.com/ilovegorakhpur/portal/internal/portal"
	"github.com/ilovegorakhpur/portal/internal/tools"
)

// DefaultSystemInstruction is the assistant persona passed verbatim to the
// provider when a session is created.
const DefaultSystemInstruction = "You are Gorakhpur Sahayak, the friendly assistant of the " +
	"iLoveGorakhpur community portal. Help residents discover local events, verified " +
	"service providers and marketplace products using the provided tools. Prefer tool " +
	"results over guesses, answer concisely, and when a search finds nothing, say so " +
	"plainly and suggest a broader query."

// Streamer is the provider chat handle as consumed by the orchestrator: one
// streamed message exchange per call, preserving provider-side memory
// across calls.
type Streamer interface {
	SendStream(ctx context.Context, parts ...genai.Part) iter.Seq2[*genai.GenerateContentResponse, error]
}

// Factory creates provider chat handles. The production implementation
// wraps *genai.Client; tests substitute fakes.
type Factory interface {
	NewSession(ctx context.Context, model string, cfg *genai.GenerateContentConfig) (Streamer, error)
}

// Params are the fingerprint inputs for one turn.
type Params struct {
	Model    string
	Location *portal.Location
}

// Fingerprint derives the cache key for the session handle. Two turns with
// equal fingerprints may share a handle; any difference forces recreation.
func (p Params) Fingerprint() string {
	return fmt.Sprintf("%s|loc=%t|tools=%s", p.Model, p.Location != nil, tools.ToolsetID)
}
