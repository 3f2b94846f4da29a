package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ilovegorakhpur/portal/internal/log"
	"github.com/ilovegorakhpur/portal/internal/portal"
)

// portalHandler handles the dataset endpoints.
type portalHandler struct {
	store  *portal.Store
	logger log.Logger
}

func newPortalHandler(store *portal.Store, logger log.Logger) *portalHandler {
	return &portalHandler{store: store, logger: logger}
}

func (h *portalHandler) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/events", h.listEvents)
	mux.HandleFunc("POST /api/events", h.createEvent)
	mux.HandleFunc("GET /api/services", h.listServices)
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("POST /api/products", h.createProduct)
	mux.HandleFunc("GET /api/posts", h.listPosts)
	mux.HandleFunc("POST /api/posts", h.createPost)
}

func (h *portalHandler) listEvents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Events())
}

// CreateEventRequest is the request body for POST /api/events.
type CreateEventRequest struct {
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
	Price    float64   `json:"price"`
	Category string    `json:"category"`
}

func (h *portalHandler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	event, err := h.store.AddEvent(portal.Event{
		Title:    req.Title,
		Date:     req.Date,
		Location: req.Location,
		Price:    req.Price,
		Category: req.Category,
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *portalHandler) listServices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Services())
}

func (h *portalHandler) listProducts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Products())
}

// CreateProductRequest is the request body for POST /api/products.
type CreateProductRequest struct {
	Name     string  `json:"name"`
	Seller   string  `json:"seller"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

func (h *portalHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.store.AddProduct(portal.Product{
		Name:     req.Name,
		Seller:   req.Seller,
		Price:    req.Price,
		Category: req.Category,
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *portalHandler) listPosts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Posts())
}

// CreatePostRequest is the request body for POST /api/posts.
type CreatePostRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

func (h *portalHandler) createPost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := h.store.AddPost(portal.Post{Author: req.Author, Content: req.Content})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// decodeBody decodes a bounded JSON request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return false
	}
	return true
}

// writeStoreError maps store validation errors to 400, anything else to 500.
func (h *portalHandler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, portal.ErrEmptyTitle),
		errors.Is(err, portal.ErrEmptyName),
		errors.Is(err, portal.ErrEmptyContent),
		errors.Is(err, portal.ErrNegativePrice):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		h.logger.Error("store operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
