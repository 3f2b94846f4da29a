package session

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/ilovegorakhpur/portal/internal/log"
	"github.com/ilovegorakhpur/portal/internal/portal"
)

// fakeStreamer is a unique identity per created session.
type fakeStreamer struct{ id int }

func (f *fakeStreamer) SendStream(ctx context.Context, parts ...genai.Part) iter.Seq2[*genai.GenerateContentResponse, error] {
	return func(yield func(*genai.GenerateContentResponse, error) bool) {}
}

type fakeFactory struct {
	created []*genai.GenerateContentConfig
	models  []string
	err     error
}

func (f *fakeFactory) NewSession(ctx context.Context, model string, cfg *genai.GenerateContentConfig) (Streamer, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, cfg)
	f.models = append(f.models, model)
	return &fakeStreamer{id: len(f.created)}, nil
}

func newTestManager(t *testing.T, f Factory) *Manager {
	t.Helper()
	m, err := NewManager(Config{Factory: f, Logger: log.NewNop()})
	require.NoError(t, err)
	return m
}

func TestNewManager_RequiresFactory(t *testing.T) {
	t.Parallel()

	_, err := NewManager(Config{})
	assert.ErrorIs(t, err, ErrNoFactory)
}

func TestManager_ReusesHandleForIdenticalFingerprint(t *testing.T) {
	t.Parallel()

	f := &fakeFactory{}
	m := newTestManager(t, f)
	p := Params{Model: "gemini-2.5-flash"}

	first, err := m.Get(context.Background(), p)
	require.NoError(t, err)
	second, err := m.Get(context.Background(), p)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, f.created, 1)
}

func TestManager_LocationToggleRecreatesSession(t *testing.T) {
	t.Parallel()

	f := &fakeFactory{}
	m := newTestManager(t, f)

	first, err := m.Get(context.Background(), Params{Model: "gemini-2.5-flash"})
	require.NoError(t, err)

	loc := &portal.Location{Latitude: 26.7606, Longitude: 83.3732}
	second, err := m.Get(context.Background(), Params{Model: "gemini-2.5-flash", Location: loc})
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	require.Len(t, f.created, 2)

	// First session: no grounding config.
	assert.Nil(t, f.created[0].ToolConfig)
	require.Len(t, f.created[0].Tools, 1)
	assert.NotEmpty(t, f.created[0].Tools[0].FunctionDeclarations)

	// Second session: maps grounding plus the caller's coordinates.
	withLoc := f.created[1]
	require.Len(t, withLoc.Tools, 2)
	assert.NotNil(t, withLoc.Tools[1].GoogleMaps)
	require.NotNil(t, withLoc.ToolConfig)
	require.NotNil(t, withLoc.ToolConfig.RetrievalConfig)
	require.NotNil(t, withLoc.ToolConfig.RetrievalConfig.LatLng)
	assert.InDelta(t, 26.7606, *withLoc.ToolConfig.RetrievalConfig.LatLng.Latitude, 1e-9)
}

func TestManager_ModelChangeRecreatesSession(t *testing.T) {
	t.Parallel()

	f := &fakeFactory{}
	m := newTestManager(t, f)

	_, err := m.Get(context.Background(), Params{Model: "gemini-2.5-flash"})
	require.NoError(t, err)
	_, err = m.Get(context.Background(), Params{Model: "gemini-2.5-pro"})
	require.NoError(t, err)

	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.5-pro"}, f.models)
}

func TestManager_InvalidateForcesFreshSession(t *testing.T) {
	t.Parallel()

	f := &fakeFactory{}
	m := newTestManager(t, f)
	p := Params{Model: "gemini-2.5-flash"}

	first, err := m.Get(context.Background(), p)
	require.NoError(t, err)

	m.Invalidate()

	second, err := m.Get(context.Background(), p)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Len(t, f.created, 2)
}

func TestManager_FactoryErrorLeavesCacheEmpty(t *testing.T) {
	t.Parallel()

	f := &fakeFactory{err: errors.New("quota exhausted")}
	m := newTestManager(t, f)

	_, err := m.Get(context.Background(), Params{Model: "gemini-2.5-flash"})
	require.Error(t, err)

	// Recovery: factory starts working again, Get succeeds.
	f.err = nil
	_, err = m.Get(context.Background(), Params{Model: "gemini-2.5-flash"})
	assert.NoError(t, err)
}

func TestManager_SystemInstructionDefaultAndOverride(t *testing.T) {
	t.Parallel()

	f := &fakeFactory{}
	m, err := NewManager(Config{Factory: f, Logger: log.NewNop()})
	require.NoError(t, err)
	_, err = m.Get(context.Background(), Params{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, DefaultSystemInstruction, f.created[0].SystemInstruction.Parts[0].Text)

	f2 := &fakeFactory{}
	m2, err := NewManager(Config{Factory: f2, Logger: log.NewNop(), SystemInstruction: "custom persona"})
	require.NoError(t, err)
	_, err = m2.Get(context.Background(), Params{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "custom persona", f2.created[0].SystemInstruction.Parts[0].Text)
}

func TestParams_Fingerprint(t *testing.T) {
	t.Parallel()

	base := Params{Model: "gemini-2.5-flash"}
	withLoc := Params{Model: "gemini-2.5-flash", Location: &portal.Location{Latitude: 1, Longitude: 2}}

	assert.NotEqual(t, base.Fingerprint(), withLoc.Fingerprint())
	assert.Equal(t, base.Fingerprint(), Params{Model: "gemini-2.5-flash"}.Fingerprint())

	// Coordinates themselves do not change the fingerprint, only presence.
	otherLoc := Params{Model: "gemini-2.5-flash", Location: &portal.Location{Latitude: 3, Longitude: 4}}
	assert.Equal(t, withLoc.Fingerprint(), otherLoc.Fingerprint())
}
