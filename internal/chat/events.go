package chat

import (
	"google.golang.org/genai"

	"github.com/ilovegorakhpur/portal/internal/portal"
)

// Citation points at a grounding source attached to model output.
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// Delta is one incremental update of a turn. Text is the cumulative
// response so far, not a fragment; consumers replace, never append.
// Citations, when non-nil, supersede any previously delivered set.
type Delta struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations,omitempty"`
}

// Input describes one user turn.
type Input struct {
	Prompt   string
	Snapshot portal.Snapshot
	Location *portal.Location
}

// state tracks the turn state machine.
type state int

const (
	stateIdle state = iota
	stateSending
	stateStreamingText
	stateAwaitingTool
	stateStreamingContinuation
	stateDone
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateSending:
		return "sending"
	case stateStreamingText:
		return "streaming_text"
	case stateAwaitingTool:
		return "awaiting_tool"
	case stateStreamingContinuation:
		return "streaming_continuation"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// extractCitations pulls grounding sources from a response candidate.
// Returns nil when the chunk carries no grounding metadata.
func extractCitations(cand *genai.Candidate) []Citation {
	if cand == nil || cand.GroundingMetadata == nil {
		return nil
	}
	var out []Citation
	for _, chunk := range cand.GroundingMetadata.GroundingChunks {
		switch {
		case chunk.Web != nil:
			out = append(out, Citation{URI: chunk.Web.URI, Title: chunk.Web.Title})
		case chunk.Maps != nil:
			out = append(out, Citation{URI: chunk.Maps.URI, Title: chunk.Maps.Title})
		}
	}
	return out
}
