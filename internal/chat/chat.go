package chat

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ilovegorakhpur/portal/internal/log"
	"github.com/ilovegorakhpur/portal/internal/session"
	"github.com/ilovegorakhpur/portal/internal/tools"
)

const (
	// DefaultModel is the model used when Config.Model is empty.
	DefaultModel = "gemini-2.5-flash"

	// FallbackMessage is yielded when the model's response carries no text
	// and no tool calls at all.
	FallbackMessage = "I'm not sure how to answer that. Could you try rephrasing your question?"

	// GenericErrorMessage is yielded for failures that carry no usable
	// provider error text.
	GenericErrorMessage = "Sorry, something went wrong while answering. Please try again."
)

var (
	// ErrTurnInFlight is yielded as the terminal error of Stream when a
	// turn is submitted while another is still running.
	ErrTurnInFlight = errors.New("a turn is already in flight")

	// ErrNoSessions indicates the orchestrator was built without a
	// session manager.
	ErrNoSessions = errors.New("session manager is required")

	// errStopped signals internally that the consumer stopped iterating.
	errStopped = errors.New("consumer stopped")
)

// Config contains the required parameters for an Orchestrator.
type Config struct {
	Sessions *session.Manager
	Logger   log.Logger

	// Model identifies the provider model; empty uses DefaultModel.
	Model string

	// RateLimiter throttles provider calls. Nil uses a default of
	// 10 req/s with a burst of 30.
	RateLimiter *rate.Limiter

	// Now supplies the resolver's reference time. Nil uses time.Now.
	Now func() time.Time
}

// Orchestrator runs assistant turns. It owns the provider session (via the
// session manager) and the in-flight tool invocations; it never writes to
// shared application state, it only yields deltas to its caller.
type Orchestrator struct {
	sessions *session.Manager
	logger   log.Logger
	model    string
	limiter  *rate.Limiter
	now      func() time.Time
	tracer   trace.Tracer

	inFlight atomic.Bool
}

// New creates an Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Sessions == nil {
		return nil, ErrNoSessions
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	limiter := cfg.RateLimiter
	if limiter == nil {
		limiter = rate.NewLimiter(10, 30)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		sessions: cfg.Sessions,
		logger:   logger,
		model:    model,
		limiter:  limiter,
		now:      now,
		tracer:   otel.Tracer("github.com/ilovegorakhpur/portal/internal/chat"),
	}, nil
}

// Stream runs one turn and yields its delta sequence.
//
// Contract:
//   - a whitespace-only prompt yields nothing and makes no provider call;
//   - an overlapping submission yields (Delta{}, ErrTurnInFlight) once;
//   - provider and transport failures are yielded as a single error-text
//     delta with a nil error, and the cached session is invalidated;
//   - deltas carry cumulative text, strictly in arrival order.
func (o *Orchestrator) Stream(ctx context.Context, in Input) iter.Seq2[Delta, error] {
	return func(yield func(Delta, error) bool) {
		prompt := strings.TrimSpace(in.Prompt)
		if prompt == "" {
			return
		}

		if !o.inFlight.CompareAndSwap(false, true) {
			o.logger.Warn("turn rejected: another turn is in flight")
			yield(Delta{}, ErrTurnInFlight)
			return
		}
		defer o.inFlight.Store(false)

		ctx, span := o.tracer.Start(ctx, "assistant.turn",
			trace.WithAttributes(
				attribute.Int("prompt.length", len(prompt)),
				attribute.Bool("location.attached", in.Location != nil),
			))
		defer span.End()

		o.runTurn(ctx, span, prompt, in, yield)
	}
}

// turn accumulates the state of one in-flight turn.
type turn struct {
	state     state
	buf       strings.Builder
	citations []Citation
	pending   []tools.Invocation
	yielded   bool
}

func (t *turn) transition(next state, logger log.Logger) {
	logger.Debug("turn state", "from", t.state.String(), "to", next.String())
	t.state = next
}

func (o *Orchestrator) runTurn(ctx context.Context, span trace.Span, prompt string, in Input, yield func(Delta, error) bool) {
	t := &turn{state: stateIdle}
	t.transition(stateSending, o.logger)

	handle, err := o.openSession(ctx, in)
	if err != nil {
		o.failTurn(t, err, yield)
		return
	}

	t.transition(stateStreamingText, o.logger)
	err = o.consume(t, handle.SendStream(ctx, genai.Part{Text: prompt}), true, yield)
	if err != nil {
		o.endOrFail(t, err, yield)
		return
	}

	if len(t.pending) > 0 {
		t.transition(stateAwaitingTool, o.logger)
		parts := o.resolvePending(t, in)
		span.SetAttributes(attribute.Int("tools.resolved", len(parts)))

		if err := o.limiter.Wait(ctx); err != nil {
			o.failTurn(t, err, yield)
			return
		}

		t.transition(stateStreamingContinuation, o.logger)
		err = o.consume(t, handle.SendStream(ctx, parts...), false, yield)
		if err != nil {
			o.endOrFail(t, err, yield)
			return
		}
	}

	if !t.yielded {
		o.logger.Warn("model returned an empty response with no tool calls")
		t.yielded = yield(Delta{Text: FallbackMessage}, nil)
	}

	t.transition(stateDone, o.logger)
	span.SetAttributes(attribute.Int("response.length", t.buf.Len()))
}

// openSession rate-limits and fetches (or creates) the provider session.
func (o *Orchestrator) openSession(ctx context.Context, in Input) (session.Streamer, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return o.sessions.Get(ctx, session.Params{Model: o.model, Location: in.Location})
}

// consume drains one provider stream. Text parts grow the cumulative
// buffer and are yielded immediately; function calls are collected only
// when collectCalls is true (the continuation never resolves tools again);
// grounding citations attach to the next yielded update.
//
// Returns nil on clean stream end, errStopped when the consumer quit, or
// the provider error.
func (o *Orchestrator) consume(t *turn, seq iter.Seq2[*genai.GenerateContentResponse, error], collectCalls bool, yield func(Delta, error) bool) error {
	for resp, err := range seq {
		if err != nil {
			return err
		}
		if resp == nil || len(resp.Candidates) == 0 {
			continue
		}
		cand := resp.Candidates[0]

		hasText := false
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if part == nil {
					continue
				}
				if part.Text != "" {
					t.buf.WriteString(part.Text)
					hasText = true
				}
				if part.FunctionCall != nil {
					o.collectCall(t, part.FunctionCall, collectCalls)
				}
			}
		}

		hasCitations := false
		if cites := extractCitations(cand); cites != nil {
			t.citations = cites
			hasCitations = true
		}

		if hasText || (hasCitations && t.yielded) {
			if !yield(Delta{Text: t.buf.String(), Citations: slices.Clone(t.citations)}, nil) {
				return errStopped
			}
			t.yielded = true
		}
	}
	return nil
}

// collectCall validates and queues a provider function call. Calls that
// fail validation, and any call arriving during the continuation stream,
// are logged and dropped: at most one resolver round-trip per turn.
func (o *Orchestrator) collectCall(t *turn, call *genai.FunctionCall, collectCalls bool) {
	if !collectCalls {
		o.logger.Warn("dropping tool call from continuation stream", "tool", call.Name)
		return
	}
	inv, err := tools.ParseCall(call)
	if err != nil {
		// Likely a provider/tool-schema mismatch; surface in logs rather
		// than failing the turn.
		o.logger.Warn("dropping unusable tool call", "tool", call.Name, "error", err)
		return
	}
	t.pending = append(t.pending, inv)
}

// resolvePending resolves every collected invocation against the dataset
// snapshot, synchronously, and packages the batch of results.
func (o *Orchestrator) resolvePending(t *turn, in Input) []genai.Part {
	now := o.now()
	parts := make([]genai.Part, 0, len(t.pending))
	for _, inv := range t.pending {
		resp := tools.Resolve(inv, in.Snapshot, now)
		o.logger.Debug("tool resolved", "tool", inv.Name, "id", inv.ID)
		parts = append(parts, genai.Part{FunctionResponse: resp})
	}
	t.pending = nil
	return parts
}

// endOrFail finishes the turn after a consume error: a stopped consumer
// ends the turn silently, anything else is a provider failure.
func (o *Orchestrator) endOrFail(t *turn, err error, yield func(Delta, error) bool) {
	if errors.Is(err, errStopped) {
		o.logger.Debug("turn abandoned by consumer", "state", t.state.String())
		t.transition(stateDone, o.logger)
		return
	}
	o.failTurn(t, err, yield)
}

// failTurn yields exactly one error-text delta, invalidates the cached
// provider session, and terminates the turn. The error message replaces
// any partial text already yielded.
func (o *Orchestrator) failTurn(t *turn, err error, yield func(Delta, error) bool) {
	t.transition(stateFailed, o.logger)
	o.logger.Error("turn failed", "error", err)

	o.sessions.Invalidate()

	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = GenericErrorMessage
	}
	yield(Delta{Text: msg}, nil)
}
