package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_TurnLifecycle(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	tr.Begin("what's on this weekend?")

	tr.Apply(Delta{Text: "There"})
	tr.Apply(Delta{Text: "There is a craft workshop."})
	tr.End()

	msgs := tr.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "what's on this weekend?", msgs[0].Content)
	assert.Equal(t, RoleModel, msgs[1].Role)
	assert.Equal(t, "There is a craft workshop.", msgs[1].Content)
}

func TestTranscript_CumulativeDeltasNeverDuplicate(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	tr.Begin("hi")
	tr.Apply(Delta{Text: "Hello"})
	tr.Apply(Delta{Text: "Hello there"})

	msgs := tr.Messages()
	require.Len(t, msgs, 2)
	// Replacement, not concatenation: no "HelloHello there".
	assert.Equal(t, "Hello there", msgs[1].Content)
}

func TestTranscript_CitationsOverwrite(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	tr.Begin("hi")
	tr.Apply(Delta{Text: "a", Citations: []Citation{{URI: "u1"}}})
	tr.Apply(Delta{Text: "ab"}) // no citations: previous set is kept
	tr.Apply(Delta{Text: "abc", Citations: []Citation{{URI: "u2"}}})

	msgs := tr.Messages()
	require.Len(t, msgs, 2)
	require.Len(t, msgs[1].Citations, 1)
	assert.Equal(t, "u2", msgs[1].Citations[0].URI)
}

func TestTranscript_ErrorDeltaReplacesPartialText(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	tr.Begin("hi")
	tr.Apply(Delta{Text: "Hello"})
	tr.Apply(Delta{Text: "provider exploded"})
	tr.End()

	msgs := tr.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "provider exploded", msgs[1].Content)
}

func TestTranscript_ApplyOutsideTurnIsNoOp(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	tr.Apply(Delta{Text: "stray"})
	assert.Empty(t, tr.Messages())

	tr.Begin("hi")
	tr.End()
	tr.Apply(Delta{Text: "late"})
	msgs := tr.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleUser, msgs[0].Role)
}

func TestTranscript_MultipleTurns(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	tr.Begin("one")
	tr.Apply(Delta{Text: "first answer"})
	tr.End()
	tr.Begin("two")
	tr.Apply(Delta{Text: "second answer"})
	tr.End()

	msgs := tr.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "first answer", msgs[1].Content)
	assert.Equal(t, "two", msgs[2].Content)
	assert.Equal(t, "second answer", msgs[3].Content)
}

func TestTranscript_Clear(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	tr.Begin("one")
	tr.Apply(Delta{Text: "answer"})
	tr.End()

	tr.Clear()
	assert.Empty(t, tr.Messages())
}

func TestTranscript_MessagesReturnsCopy(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	tr.Begin("one")
	msgs := tr.Messages()
	require.Len(t, msgs, 1)
	msgs[0].Content = "mutated"

	assert.Equal(t, "one", tr.Messages()[0].Content)
}
