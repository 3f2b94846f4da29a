package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/ilovegorakhpur/portal/internal/log"
	"github.com/ilovegorakhpur/portal/internal/tools"
)

// ErrNoFactory indicates the manager was constructed without a session
// factory.
var ErrNoFactory = errors.New("session factory is required")

// Config contains the required parameters for a Manager.
type Config struct {
	Factory Factory
	Logger  log.Logger

	// SystemInstruction overrides DefaultSystemInstruction when non-empty.
	SystemInstruction string
}

// Manager owns the single cached provider session handle.
//
// Thread Safety: safe for concurrent use. The orchestrator serializes turns
// itself, but Invalidate may race with Get from other goroutines.
type Manager struct {
	factory           Factory
	logger            log.Logger
	systemInstruction string

	mu          sync.Mutex
	fingerprint string
	handle      Streamer
}

// NewManager creates a session manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Factory == nil {
		return nil, ErrNoFactory
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	sys := cfg.SystemInstruction
	if sys == "" {
		sys = DefaultSystemInstruction
	}
	return &Manager{
		factory:           cfg.Factory,
		logger:            logger,
		systemInstruction: sys,
	}, nil
}

// Get returns the cached handle when the fingerprint matches, otherwise
// creates a fresh provider session and replaces the cache. The previous
// handle is simply dropped; the provider cleans it up.
func (m *Manager) Get(ctx context.Context, p Params) (Streamer, error) {
	fp := p.Fingerprint()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle != nil && m.fingerprint == fp {
		return m.handle, nil
	}

	handle, err := m.factory.NewSession(ctx, p.Model, m.buildConfig(p))
	if err != nil {
		return nil, fmt.Errorf("creating provider session: %w", err)
	}

	if m.handle != nil {
		m.logger.Debug("replacing provider session", "old", m.fingerprint, "new", fp)
	}
	m.fingerprint = fp
	m.handle = handle

	m.logger.Info("provider session created", "fingerprint", fp)
	return handle, nil
}

// Invalidate drops the cached handle so the next Get builds a fresh
// session. Called after provider errors and when the caller clears the
// conversation.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle != nil {
		m.logger.Debug("invalidating provider session", "fingerprint", m.fingerprint)
	}
	m.fingerprint = ""
	m.handle = nil
}

// buildConfig assembles the generation config for a new session: the fixed
// persona, the directory tool declarations, and, only when a location is
// attached, the maps-grounding tool with the caller's coordinates.
func (m *Manager) buildConfig(p Params) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: m.systemInstruction}},
		},
		Tools: []*genai.Tool{
			{FunctionDeclarations: tools.Declarations()},
		},
	}

	if p.Location != nil {
		cfg.Tools = append(cfg.Tools, &genai.Tool{GoogleMaps: &genai.GoogleMaps{}})
		cfg.ToolConfig = &genai.ToolConfig{
			RetrievalConfig: &genai.RetrievalConfig{
				LatLng: &genai.LatLng{
					Latitude:  genai.Ptr(p.Location.Latitude),
					Longitude: genai.Ptr(p.Location.Longitude),
				},
			},
		}
	}

	return cfg
}
