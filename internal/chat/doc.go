// Package chat drives one assistant turn against the hosted model.
//
// The Orchestrator owns the turn lifecycle as an explicit state machine:
//
//	Idle → Sending → StreamingText ⇄ AwaitingTool → StreamingContinuation → Done
//
// with Failed reachable from every non-idle state. One turn is in flight at
// a time. The orchestrator consumes the provider's token stream, yields
// cumulative text deltas to its caller as they arrive, collects function
// calls without yielding them, resolves all of them in a single batch after
// the first stream ends (never during the continuation), sends the results
// back, and consumes the continuation stream the same way.
//
// Failures are content, not errors: a transport or provider failure
// surfaces as exactly one error-text delta, the cached provider session is
// invalidated, and the machine returns to idle. The only Go error a caller
// can observe from Stream is ErrTurnInFlight for an overlapping submission.
//
// Transcript folds the delta sequence into an ordered message list for
// display; because deltas carry cumulative text, applying a delta is a
// replacement, which makes content growth monotonic and keeps an error
// message from ever being appended onto partial text.
package chat
