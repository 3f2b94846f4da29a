package api

import (
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilovegorakhpur/portal/internal/chat"
	"github.com/ilovegorakhpur/portal/internal/log"
)

// fakeAssistant yields a scripted delta sequence.
type fakeAssistant struct {
	deltas []chat.Delta
	err    error

	lastInput chat.Input
}

func (f *fakeAssistant) Stream(_ context.Context, in chat.Input) iter.Seq2[chat.Delta, error] {
	f.lastInput = in
	return func(yield func(chat.Delta, error) bool) {
		if f.err != nil {
			yield(chat.Delta{}, f.err)
			return
		}
		for _, d := range f.deltas {
			if !yield(d, nil) {
				return
			}
		}
	}
}

type sseEvent struct {
	event string
	data  string
}

// parseSSE splits a response body into its SSE events.
func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()

	var events []sseEvent
	for _, block := range strings.Split(strings.TrimSpace(body), "\n\n") {
		var ev sseEvent
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event: "):
				ev.event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				ev.data = strings.TrimPrefix(line, "data: ")
			}
		}
		require.NotEmpty(t, ev.event, "malformed SSE block: %q", block)
		events = append(events, ev)
	}
	return events
}

func assistantServer(t *testing.T, fake *fakeAssistant) *Server {
	t.Helper()
	return NewServer(ServerConfig{
		Logger:    log.NewNop(),
		Store:     testStore(t),
		Assistant: fake,
	})
}

func streamRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/api/assistant/stream", strings.NewReader(body))
}

func TestAssistantStream_ChunksThenDone(t *testing.T) {
	t.Parallel()

	fake := &fakeAssistant{deltas: []chat.Delta{
		{Text: "The"},
		{Text: "The Mahotsav"},
		{Text: "The Mahotsav starts Friday."},
	}}
	srv := assistantServer(t, fake)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, streamRequest(`{"prompt":"any events?"}`))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	events := parseSSE(t, rec.Body.String())
	require.Len(t, events, 4)

	for i, want := range []string{"The", "The Mahotsav", "The Mahotsav starts Friday."} {
		assert.Equal(t, EventChunk, events[i].event)
		var chunk ChunkPayload
		require.NoError(t, json.Unmarshal([]byte(events[i].data), &chunk))
		assert.Equal(t, want, chunk.Text)
	}

	assert.Equal(t, EventDone, events[3].event)
	var done DonePayload
	require.NoError(t, json.Unmarshal([]byte(events[3].data), &done))
	assert.Equal(t, "The Mahotsav starts Friday.", done.Response)
}

func TestAssistantStream_SnapshotAttached(t *testing.T) {
	t.Parallel()

	fake := &fakeAssistant{deltas: []chat.Delta{{Text: "ok"}}}
	srv := assistantServer(t, fake)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, streamRequest(`{"prompt":"hi"}`))

	assert.Equal(t, "hi", fake.lastInput.Prompt)
	assert.Len(t, fake.lastInput.Snapshot.Events, 6, "turn input carries the store snapshot")
	assert.Nil(t, fake.lastInput.Location)
}

func TestAssistantStream_LocationForwarded(t *testing.T) {
	t.Parallel()

	fake := &fakeAssistant{deltas: []chat.Delta{{Text: "ok"}}}
	srv := assistantServer(t, fake)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, streamRequest(`{"prompt":"nearby?","location":{"latitude":26.76,"longitude":83.37}}`))

	require.NotNil(t, fake.lastInput.Location)
	assert.InDelta(t, 26.76, fake.lastInput.Location.Latitude, 1e-9)
	assert.InDelta(t, 83.37, fake.lastInput.Location.Longitude, 1e-9)
}

func TestAssistantStream_Citations(t *testing.T) {
	t.Parallel()

	fake := &fakeAssistant{deltas: []chat.Delta{
		{Text: "Visit the park.", Citations: []chat.Citation{{URI: "https://maps.example/park", Title: "Champa Devi Park"}}},
	}}
	srv := assistantServer(t, fake)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, streamRequest(`{"prompt":"where?"}`))

	events := parseSSE(t, rec.Body.String())
	require.GreaterOrEqual(t, len(events), 2)

	var chunk ChunkPayload
	require.NoError(t, json.Unmarshal([]byte(events[0].data), &chunk))
	require.Len(t, chunk.Citations, 1)
	assert.Equal(t, "Champa Devi Park", chunk.Citations[0].Title)
}

func TestAssistantStream_MissingPrompt(t *testing.T) {
	t.Parallel()

	srv := assistantServer(t, &fakeAssistant{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, streamRequest(`{}`))

	events := parseSSE(t, rec.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].event)

	var payload ErrorPayload
	require.NoError(t, json.Unmarshal([]byte(events[0].data), &payload))
	assert.Equal(t, "MISSING_PROMPT", payload.Code)
}

func TestAssistantStream_InvalidBody(t *testing.T) {
	t.Parallel()

	srv := assistantServer(t, &fakeAssistant{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, streamRequest(`not json`))

	events := parseSSE(t, rec.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].event)
}

func TestAssistantStream_TurnInFlight(t *testing.T) {
	t.Parallel()

	srv := assistantServer(t, &fakeAssistant{err: chat.ErrTurnInFlight})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, streamRequest(`{"prompt":"hi"}`))

	events := parseSSE(t, rec.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].event)

	var payload ErrorPayload
	require.NoError(t, json.Unmarshal([]byte(events[0].data), &payload))
	assert.Equal(t, "TURN_IN_FLIGHT", payload.Code)
}

func TestAssistantStream_ProviderErrorArrivesAsChunk(t *testing.T) {
	t.Parallel()

	// The orchestrator converts provider failures into error-text deltas,
	// so the API sees an ordinary chunk followed by done.
	fake := &fakeAssistant{deltas: []chat.Delta{{Text: "Sorry, something went wrong while answering. Please try again."}}}
	srv := assistantServer(t, fake)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, streamRequest(`{"prompt":"hi"}`))

	events := parseSSE(t, rec.Body.String())
	require.Len(t, events, 2)
	assert.Equal(t, EventChunk, events[0].event)
	assert.Equal(t, EventDone, events[1].event)
}
