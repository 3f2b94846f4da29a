package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ilovegorakhpur/portal/internal/chat"
	"github.com/ilovegorakhpur/portal/internal/log"
	"github.com/ilovegorakhpur/portal/internal/portal"
)

// SSE event types for assistant streaming.
const (
	EventChunk = "chunk" // Cumulative response text so far
	EventDone  = "done"  // Turn completed
	EventError = "error" // Turn could not run
)

// maxRequestBytes bounds the streaming request body.
const maxRequestBytes = 1024 * 1024

// StreamRequest is the request body for POST /api/assistant/stream.
type StreamRequest struct {
	Prompt   string           `json:"prompt"`
	Location *portal.Location `json:"location,omitempty"`
}

// ChunkPayload is the SSE data payload for streaming updates. Text is
// cumulative: each chunk replaces the previous one.
type ChunkPayload struct {
	Text      string          `json:"text"`
	Citations []chat.Citation `json:"citations,omitempty"`
}

// DonePayload is the SSE data payload when the turn completes.
type DonePayload struct {
	Response string `json:"response"`
}

// ErrorPayload is the SSE data payload when the turn could not run.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// assistantHandler handles the SSE streaming endpoint for assistant turns.
type assistantHandler struct {
	assistant Assistant
	store     *portal.Store
	logger    log.Logger
}

func newAssistantHandler(assistant Assistant, store *portal.Store, logger log.Logger) *assistantHandler {
	return &assistantHandler{assistant: assistant, store: store, logger: logger}
}

func (h *assistantHandler) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/assistant/stream", h.stream)
}

// stream runs one assistant turn and streams its updates as SSE events.
// Provider failures arrive as ordinary chunks (the turn's error text); the
// error event is reserved for requests that never start a turn.
func (h *assistantHandler) stream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	var req StreamRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = writeEvent(w, flusher, EventError, ErrorPayload{
			Code:    "INVALID_REQUEST",
			Message: "invalid request body",
		})
		return
	}
	if req.Prompt == "" {
		_ = writeEvent(w, flusher, EventError, ErrorPayload{
			Code:    "MISSING_PROMPT",
			Message: "prompt is required",
		})
		return
	}

	ctx := r.Context()
	h.logger.Debug("SSE stream started", "prompt_length", len(req.Prompt))

	in := chat.Input{
		Prompt:   req.Prompt,
		Snapshot: h.store.Snapshot(),
		Location: req.Location,
	}

	var last chat.Delta
	for delta, err := range h.assistant.Stream(ctx, in) {
		select {
		case <-ctx.Done():
			h.logger.Info("client disconnected mid-turn")
			return
		default:
		}

		if err != nil {
			h.streamError(w, flusher, err)
			return
		}

		last = delta
		if writeErr := writeEvent(w, flusher, EventChunk, ChunkPayload{
			Text:      delta.Text,
			Citations: delta.Citations,
		}); writeErr != nil {
			// Write failure usually means the connection closed.
			h.logger.Error("failed to write chunk", "error", writeErr)
			return
		}
	}

	_ = writeEvent(w, flusher, EventDone, DonePayload{Response: last.Text})
	h.logger.Info("SSE stream completed", "response_length", len(last.Text))
}

// streamError maps turn errors to SSE error events.
func (h *assistantHandler) streamError(w io.Writer, f http.Flusher, err error) {
	code := "STREAM_ERROR"
	if errors.Is(err, chat.ErrTurnInFlight) {
		code = "TURN_IN_FLIGHT"
	}
	_ = writeEvent(w, f, EventError, ErrorPayload{
		Code:    code,
		Message: err.Error(),
	})
}

// writeEvent writes a single SSE event with JSON-encoded data.
// SSE format: "event: <type>\ndata: <json>\n\n"
func writeEvent[T any](w io.Writer, flusher http.Flusher, event string, data T) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	flusher.Flush()
	return nil
}
