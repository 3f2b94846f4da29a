package api

import (
	"errors"
	"net/http"

	"github.com/ilovegorakhpur/portal/internal/log"
	"github.com/ilovegorakhpur/portal/internal/news"
)

// newsHandler handles the local-news endpoint.
type newsHandler struct {
	reader NewsProvider
	logger log.Logger
}

func newNewsHandler(reader NewsProvider, logger log.Logger) *newsHandler {
	return &newsHandler{reader: reader, logger: logger}
}

func (h *newsHandler) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/news", h.list)
}

func (h *newsHandler) list(w http.ResponseWriter, r *http.Request) {
	articles, err := h.reader.Articles(r.Context())
	if err != nil {
		if errors.Is(err, news.ErrNoSources) {
			writeJSON(w, http.StatusOK, []news.Article{})
			return
		}
		h.logger.Error("fetching news failed", "error", err)
		writeError(w, http.StatusBadGateway, "news_unavailable", "could not fetch news")
		return
	}
	if articles == nil {
		articles = []news.Article{}
	}
	writeJSON(w, http.StatusOK, articles)
}
