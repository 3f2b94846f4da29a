// Package api provides the portal's HTTP REST API.
//
// Architecture:
//
//	┌──────────────────────────────────────────────────────────┐
//	│                       API Endpoints                      │
//	├──────────────────────────────────────────────────────────┤
//	│                                                          │
//	│  Assistant (SSE):                                        │
//	│  ─────────────────                                       │
//	│  POST /api/assistant/stream  →  streamed turn            │
//	│                                                          │
//	│  Portal datasets (JSON):                                 │
//	│  ────────────────────────                                │
//	│  GET  /api/events    POST /api/events                    │
//	│  GET  /api/services                                      │
//	│  GET  /api/products  POST /api/products                  │
//	│  GET  /api/posts     POST /api/posts                     │
//	│  GET  /api/news                                          │
//	│                                                          │
//	│  Probes:                                                 │
//	│  ───────                                                 │
//	│  GET  /health   GET /ready                               │
//	│                                                          │
//	└──────────────────────────────────────────────────────────┘
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: HTTP middleware (logging, recovery)
//   - health.go: Health check endpoints (/health, /ready)
//   - assistant.go: SSE streaming endpoint for the AI assistant
//   - portal.go: Dataset endpoints (events, services, products, posts)
//   - news.go: Local-news endpoint
//   - response.go: JSON response helpers
package api

import (
	"context"
	"iter"
	"net/http"
	"time"

	"github.com/ilovegorakhpur/portal/internal/chat"
	"github.com/ilovegorakhpur/portal/internal/log"
	"github.com/ilovegorakhpur/portal/internal/news"
	"github.com/ilovegorakhpur/portal/internal/portal"
)

const (
	// DefaultAddr is the default address for the HTTP server.
	DefaultAddr = "127.0.0.1:8420"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout is the timeout for reading request headers.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is the maximum duration for writing the response.
	// Generous because assistant turns stream over SSE.
	WriteTimeout = 120 * time.Second

	// IdleTimeout is the maximum time to wait for the next request on
	// keep-alive connections.
	IdleTimeout = 120 * time.Second
)

// Assistant runs one assistant turn and yields its delta sequence.
// *chat.Orchestrator satisfies this.
type Assistant interface {
	Stream(ctx context.Context, in chat.Input) iter.Seq2[chat.Delta, error]
}

// NewsProvider serves extracted local-news articles. *news.Reader
// satisfies this.
type NewsProvider interface {
	Articles(ctx context.Context) ([]news.Article, error)
}

// ServerConfig contains the collaborators for the API server.
type ServerConfig struct {
	Logger    log.Logger
	Store     *portal.Store // required
	Assistant Assistant     // optional: nil disables the assistant endpoint
	News      NewsProvider  // optional: nil disables the news endpoint
}

// Server is the portal's HTTP server.
type Server struct {
	mux    *http.ServeMux
	logger log.Logger
}

// NewServer creates a new HTTP server with all routes registered.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	mux := http.NewServeMux()
	s := &Server{mux: mux, logger: logger}

	newHealthHandler(cfg.Store).registerRoutes(mux)
	newPortalHandler(cfg.Store, logger).registerRoutes(mux)

	if cfg.Assistant != nil {
		newAssistantHandler(cfg.Assistant, cfg.Store, logger).registerRoutes(mux)
	} else {
		logger.Warn("assistant not configured, skipping route registration")
	}

	if cfg.News != nil {
		newNewsHandler(cfg.News, logger).registerRoutes(mux)
	}

	return s
}

// Handler returns the HTTP handler with middleware applied.
// Middleware order: recovery → logging → handler
func (s *Server) Handler() http.Handler {
	return chain(s.mux, recoveryMiddleware(s.logger), loggingMiddleware(s.logger))
}

// Run starts the HTTP server and blocks until the context is cancelled.
// It handles graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
