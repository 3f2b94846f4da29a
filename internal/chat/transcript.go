package chat

import "slices"

// Role identifies a transcript message author.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one transcript entry. A model message's content grows
// monotonically while its turn is open and is frozen once the turn ends.
type Message struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Citations []Citation `json:"citations,omitempty"`
}

// Transcript folds a turn's delta sequence into an ordered message list.
// It is not safe for concurrent use; the caller owns it, typically one per
// chat widget.
type Transcript struct {
	messages []Message

	// current is the index of the open turn's model message, -1 when the
	// turn has produced none yet or no turn is open.
	current int
	open    bool
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{current: -1}
}

// Begin opens a turn, appending the user message.
func (t *Transcript) Begin(prompt string) {
	t.messages = append(t.messages, Message{Role: RoleUser, Content: prompt})
	t.current = -1
	t.open = true
}

// Apply folds one delta into the open turn. The first delta creates the
// model message; later deltas replace its content with the cumulative text
// (so an error delta replaces partial text rather than appending to it).
// Citations, when present, overwrite the previous set.
func (t *Transcript) Apply(d Delta) {
	if !t.open {
		return
	}
	if t.current < 0 {
		t.messages = append(t.messages, Message{Role: RoleModel})
		t.current = len(t.messages) - 1
	}
	t.messages[t.current].Content = d.Text
	if d.Citations != nil {
		t.messages[t.current].Citations = d.Citations
	}
}

// End closes the open turn, freezing its model message.
func (t *Transcript) End() {
	t.current = -1
	t.open = false
}

// Clear drops all messages, e.g. when the user resets the conversation.
func (t *Transcript) Clear() {
	t.messages = nil
	t.current = -1
	t.open = false
}

// Messages returns a copy of the transcript.
func (t *Transcript) Messages() []Message {
	return slices.Clone(t.messages)
}
