package api

import (
	"net/http"

	"github.com/ilovegorakhpur/portal/internal/portal"
)

// healthHandler handles health check endpoints.
type healthHandler struct {
	store *portal.Store
}

func newHealthHandler(store *portal.Store) *healthHandler {
	return &healthHandler{store: store}
}

func (h *healthHandler) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.liveness)
	mux.HandleFunc("GET /ready", h.readiness)
}

// liveness returns 200 OK if the process is alive.
func (h *healthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readiness returns 200 OK once the dataset store is wired.
func (h *healthHandler) readiness(w http.ResponseWriter, _ *http.Request) {
	if h.store == nil {
		http.Error(w, "dataset store not configured", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
